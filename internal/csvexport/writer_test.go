package csvexport

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparcsetl/internal/domain"
)

func sampleDataset() *domain.Dataset {
	return &domain.Dataset{
		Columns: []string{"FILE_TYPE", "PCT_OF_PREVYRAVG_SUBMTD_", "PFI"},
		Rows: [][]domain.Value{
			{domain.TextValue("Type A"), domain.NumberValue(0.755), domain.TextValue("PFI123")},
			{domain.TextValue("Type B"), domain.Missing(), domain.TextValue("PFI123")},
		},
	}
}

func TestWriteDataset(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteDataset(sampleDataset()))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"FILE_TYPE", "PCT_OF_PREVYRAVG_SUBMTD_", "PFI"}, rows[0])
	assert.Equal(t, []string{"Type A", "0.755", "PFI123"}, rows[1])

	// Missing serializes as an empty field, never a sentinel string.
	assert.Equal(t, []string{"Type B", "", "PFI123"}, rows[2])
}

func TestExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "dataset.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, ExportFile(path, sampleDataset()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, BOM), "exported file must start with the UTF-8 BOM")

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, BOM)))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SPARCS Compliance Report", "SPARCS_Compliance_Report"},
		{"a//b??c", "a_b_c"},
		{"__trimmed__", "trimmed"},
		{strings.Repeat("x", 150), strings.Repeat("x", 100)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in))
	}
}

func TestBuildFilename(t *testing.T) {
	name := BuildFilename("SPARCS Compliance Report")
	assert.True(t, strings.HasPrefix(name, "SPARCS_Compliance_Report_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
	assert.Contains(t, name, time.Now().Format("2006-01-02"))
}
