package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"sparcsetl/internal/domain"
)

// Source reads workbook sheets as grids. Facilities occasionally submit
// their compliance tables as spreadsheets instead of the published PDFs;
// each sheet becomes one candidate table.
type Source struct{}

// NewSource creates an XLSX grid source.
func NewSource() *Source {
	return &Source{}
}

// Extract returns one grid per non-empty sheet, in workbook order.
func (s *Source) Extract(ctx context.Context, doc *domain.Document) ([]domain.CellGrid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", doc.Path, err)
	}
	defer func() { _ = f.Close() }()

	var grids []domain.CellGrid
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		grids = append(grids, domain.CellGrid(rows))
	}
	return grids, nil
}
