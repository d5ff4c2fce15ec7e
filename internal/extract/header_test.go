package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalLabel(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"multi-line header", "File\nType", "FILE_TYPE"},
		{"spaces", "Discharge Month", "DISCHARGE_MONTH"},
		{"emphasis marker stripped", "Pct of PrevYrAvg Submtd*", "PCT_OF_PREVYRAVG_SUBMTD"},
		{"space before marker survives as underscore", "Pct of PrevYrAvg Submtd *", "PCT_OF_PREVYRAVG_SUBMTD_"},
		{"already canonical", "DATA", "DATA"},
		{"mixed", "Pct of\nPrevYrAvg Submtd *", "PCT_OF_PREVYRAVG_SUBMTD_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalLabel(tt.raw, rules))
		})
	}
}

func TestNormalizeHeader(t *testing.T) {
	rules := DefaultRules()

	header, err := NormalizeHeader([]string{"File\nType", "Data", "Pct of PrevYrAvg Submtd *"}, rules)
	require.NoError(t, err)
	assert.Equal(t, []string{"FILE_TYPE", "DATA", "PCT_OF_PREVYRAVG_SUBMTD_"}, header)
}

func TestNormalizeHeader_Conflict(t *testing.T) {
	rules := DefaultRules()

	// "File Type" and "File\nType" collapse to the same label.
	_, err := NormalizeHeader([]string{"File Type", "Data", "File\nType"}, rules)
	require.Error(t, err)

	var conflict *SchemaConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "FILE_TYPE", conflict.Label)
	assert.Equal(t, 0, conflict.First)
	assert.Equal(t, 2, conflict.Second)
	assert.Contains(t, conflict.Error(), "FILE_TYPE")
}
