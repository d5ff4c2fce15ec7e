package pdf

import (
	"context"
	"fmt"
	"log"

	"github.com/tsawler/tabula"

	"sparcsetl/internal/domain"
)

// Source reads tables out of PDF reports using tabula's geometric table
// detection. Detection quality is the library's concern; everything the
// detector emits is passed on as a grid for normalization to judge.
type Source struct{}

// NewSource creates a PDF grid source.
func NewSource() *Source {
	return &Source{}
}

// Extract opens the document and returns one grid per detected table, in
// page order.
func (s *Source) Extract(ctx context.Context, doc *domain.Document) ([]domain.CellGrid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdfDoc, warnings, err := tabula.Open(doc.Path).Document()
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", doc.Path, err)
	}
	if len(warnings) > 0 {
		log.Printf("pdf: %s: %s", doc.ID, tabula.FormatWarnings(warnings))
	}

	tables := pdfDoc.ExtractTables()
	grids := make([]domain.CellGrid, 0, len(tables))
	for _, t := range tables {
		grid := make(domain.CellGrid, 0, len(t.Rows))
		for _, row := range t.Rows {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i] = c.Text
			}
			grid = append(grid, cells)
		}
		grids = append(grids, grid)
	}
	return grids, nil
}
