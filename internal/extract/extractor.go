package extract

import (
	"fmt"

	"sparcsetl/internal/domain"
)

// Extractor runs the normalization chain over the grids of one document:
// header canonicalization, row reconciliation, field transformation, and
// structural validation. It holds no per-document state and is safe to
// share across goroutines.
type Extractor struct {
	rules Rules
}

// NewExtractor creates an extractor applying the given rules.
func NewExtractor(rules Rules) *Extractor {
	return &Extractor{rules: rules}
}

// ExtractTables normalizes every grid of one document. Rejected tables
// are recorded in the findings and skipped; accepted tables keep their
// grid index so the aggregator can order them deterministically.
func (e *Extractor) ExtractTables(doc *domain.Document, grids []domain.CellGrid, f *Findings) []*domain.Table {
	var tables []*domain.Table
	for idx, grid := range grids {
		f.TablesExtracted++

		if len(grid) == 0 {
			f.reject(doc.ID, idx, domain.RejectNoDataRows, "grid is empty")
			continue
		}
		header, err := NormalizeHeader(grid[0], e.rules)
		if err != nil {
			f.reject(doc.ID, idx, domain.RejectHeaderConflict, err.Error())
			continue
		}
		keyIdx := -1
		for i, label := range header {
			if label == e.rules.KeyColumn {
				keyIdx = i
				break
			}
		}
		if keyIdx < 0 {
			f.reject(doc.ID, idx, domain.RejectMissingKeyColumn,
				fmt.Sprintf("column %s not in header", e.rules.KeyColumn))
			continue
		}

		rows := ReconcileRows(header, grid[1:], keyIdx, e.rules)
		if reason, detail := Validate(rows, keyIdx); reason != "" {
			f.reject(doc.ID, idx, reason, detail)
			continue
		}

		t := &domain.Table{
			Doc:     doc,
			Index:   idx,
			Columns: header,
			Cells:   toColumns(header, rows),
		}
		Transform(t, e.rules, f)
		tables = append(tables, t)
	}
	return tables
}

// toColumns pivots row-major values into the table's column-major layout.
func toColumns(header []string, rows [][]domain.Value) [][]domain.Value {
	cols := make([][]domain.Value, len(header))
	for i := range cols {
		col := make([]domain.Value, len(rows))
		for r, row := range rows {
			col[r] = row[i]
		}
		cols[i] = col
	}
	return cols
}
