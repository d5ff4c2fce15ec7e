package port

import (
	"context"

	"sparcsetl/internal/domain"
)

// GridSource extracts raw cell grids from one document file. A source may
// also attach annotations to the document when its format carries
// page-level metadata next to the tables.
type GridSource interface {
	Extract(ctx context.Context, doc *domain.Document) ([]domain.CellGrid, error)
}
