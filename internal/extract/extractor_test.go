package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sparcsetl/internal/domain"
)

// The multi-page compliance table from the published reports: a repeated
// header leaks in as a summary row and the merged key cell arrives blank.
func TestExtractTables_EndToEnd(t *testing.T) {
	ex := NewExtractor(DefaultRules())
	doc := testDoc()

	grids := []domain.CellGrid{{
		{"File\nType", "Data", "PCT_OF_PREVYRAVG_SUBMTD_"},
		{"Type A", "D1", "50%"},
		{"Total Records Submitted", "x", "x"},
		{"", "D2", "75.5%"},
	}}

	f := &Findings{}
	tables := ex.ExtractTables(doc, grids, f)

	require.Len(t, tables, 1)
	require.Empty(t, f.Rejections)
	tbl := tables[0]
	assert.Equal(t, 2, tbl.NumRows())

	ft, ok := tbl.Column("FILE_TYPE")
	require.True(t, ok)
	assert.Equal(t, "Type A", ft[0].Text)
	assert.Equal(t, "Type A", ft[1].Text) // forward-filled

	pct, ok := tbl.Column("PCT_OF_PREVYRAVG_SUBMTD_")
	require.True(t, ok)
	assert.InDelta(t, 0.50, pct[0].Num, 1e-9)
	assert.InDelta(t, 0.755, pct[1].Num, 1e-9)

	pfi, ok := tbl.Column("PFI")
	require.True(t, ok)
	assert.Equal(t, "PFI123", pfi[0].Text)
}

func TestExtractTables_RejectsMissingKeyColumn(t *testing.T) {
	ex := NewExtractor(DefaultRules())
	doc := testDoc()

	// Decorative table unrelated to the schema.
	grids := []domain.CellGrid{{
		{"Facility Name", "Address"},
		{"General Hospital", "1 Main St"},
	}}

	f := &Findings{}
	tables := ex.ExtractTables(doc, grids, f)

	assert.Empty(t, tables)
	require.Len(t, f.Rejections, 1)
	assert.Equal(t, domain.RejectMissingKeyColumn, f.Rejections[0].Reason)
	assert.Equal(t, doc.ID, f.Rejections[0].DocumentID)
}

func TestExtractTables_RejectsHeaderConflict(t *testing.T) {
	ex := NewExtractor(DefaultRules())
	doc := testDoc()

	grids := []domain.CellGrid{{
		{"File Type", "File\nType"},
		{"Type A", "D1"},
	}}

	f := &Findings{}
	tables := ex.ExtractTables(doc, grids, f)

	assert.Empty(t, tables)
	require.Len(t, f.Rejections, 1)
	assert.Equal(t, domain.RejectHeaderConflict, f.Rejections[0].Reason)
	assert.Contains(t, f.Rejections[0].Detail, "FILE_TYPE")
}

func TestExtractTables_RejectsEmptyAndHeaderOnly(t *testing.T) {
	ex := NewExtractor(DefaultRules())
	doc := testDoc()

	grids := []domain.CellGrid{
		{},
		{{"File\nType", "Data"}},
	}

	f := &Findings{}
	tables := ex.ExtractTables(doc, grids, f)

	assert.Empty(t, tables)
	require.Len(t, f.Rejections, 2)
	assert.Equal(t, domain.RejectNoDataRows, f.Rejections[0].Reason)
	assert.Equal(t, domain.RejectNoDataRows, f.Rejections[1].Reason)
	assert.Equal(t, 2, f.TablesExtracted)
}

func TestExtractTables_RejectsLeadKeyMissing(t *testing.T) {
	ex := NewExtractor(DefaultRules())
	doc := testDoc()

	grids := []domain.CellGrid{{
		{"File\nType", "Data"},
		{"", "D1"},
		{"", "D2"},
	}}

	f := &Findings{}
	tables := ex.ExtractTables(doc, grids, f)

	assert.Empty(t, tables)
	require.Len(t, f.Rejections, 1)
	assert.Equal(t, domain.RejectLeadKeyMissing, f.Rejections[0].Reason)
}

// A rejected table never blocks its siblings.
func TestExtractTables_SiblingSurvivesRejection(t *testing.T) {
	ex := NewExtractor(DefaultRules())
	doc := testDoc()

	grids := []domain.CellGrid{
		{
			{"Unrelated", "Columns"},
			{"a", "b"},
		},
		{
			{"File\nType", "Data"},
			{"Type A", "D1"},
		},
	}

	f := &Findings{}
	tables := ex.ExtractTables(doc, grids, f)

	require.Len(t, tables, 1)
	assert.Equal(t, 1, tables[0].Index)
	require.Len(t, f.Rejections, 1)
	assert.Equal(t, 0, f.Rejections[0].TableIndex)
}
