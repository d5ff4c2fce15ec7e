package xlsx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sparcsetl/internal/domain"
)

func writeTempWorkbook(t *testing.T) *domain.Document {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Compliance"))
	rows := [][]interface{}{
		{"File Type", "Data"},
		{"Type A", "D1"},
		{"Type B", "D2"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Compliance", cell, &row))
	}

	path := filepath.Join(t.TempDir(), "Y2023_AUDIT_PFI7.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return &domain.Document{ID: "Y2023_AUDIT_PFI7", Path: path}
}

func TestExtract_Workbook(t *testing.T) {
	src := NewSource()
	doc := writeTempWorkbook(t)

	grids, err := src.Extract(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, grids, 1)
	require.Len(t, grids[0], 3)
	assert.Equal(t, []string{"File Type", "Data"}, grids[0][0])
	assert.Equal(t, []string{"Type B", "D2"}, grids[0][2])
}

func TestExtract_MissingWorkbook(t *testing.T) {
	src := NewSource()
	doc := &domain.Document{ID: "gone", Path: filepath.Join(t.TempDir(), "gone.xlsx")}

	_, err := src.Extract(context.Background(), doc)
	assert.Error(t, err)
}
