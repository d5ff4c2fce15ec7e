package aggregate

import (
	"sort"

	"sparcsetl/internal/domain"
)

// Merge combines accepted tables into a single dataset. Tables are
// ordered by (document ID, table index), the schema is the union of all
// table schemas in first-seen order, and every row is reindexed onto it
// with missing markers for absent columns. Rows without a value in the
// mandatory column are dropped and counted; when the merged schema lacks
// that column entirely the filter is skipped with a note. Zero surviving
// rows is the one fatal outcome.
//
// Merge is deterministic: the same tables produce the same dataset no
// matter what order they arrive in.
func Merge(tables []*domain.Table, mandatory string, rep *domain.ProcessingReport) (*domain.Dataset, error) {
	sorted := make([]*domain.Table, len(tables))
	copy(sorted, tables)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Doc.ID != sorted[j].Doc.ID {
			return sorted[i].Doc.ID < sorted[j].Doc.ID
		}
		return sorted[i].Index < sorted[j].Index
	})

	var columns []string
	index := make(map[string]int)
	for _, t := range sorted {
		for _, c := range t.Columns {
			if _, ok := index[c]; !ok {
				index[c] = len(columns)
				columns = append(columns, c)
			}
		}
	}

	var rows [][]domain.Value
	for _, t := range sorted {
		for r := 0; r < t.NumRows(); r++ {
			row := make([]domain.Value, len(columns))
			for i := range row {
				row[i] = domain.Missing()
			}
			for ci, c := range t.Columns {
				row[index[c]] = t.Cells[ci][r]
			}
			rows = append(rows, row)
		}
	}

	if mi, ok := index[mandatory]; ok {
		kept := rows[:0]
		for _, row := range rows {
			if row[mi].IsMissing() {
				rep.RowsDroppedByFilter++
				continue
			}
			kept = append(kept, row)
		}
		rows = kept
	} else if mandatory != "" && len(sorted) > 0 {
		rep.Notef("required column %s absent from merged schema, filter skipped", mandatory)
	}

	if len(rows) == 0 {
		return nil, domain.ErrNoDataProduced
	}
	rep.FinalRowCount = len(rows)
	return &domain.Dataset{Columns: columns, Rows: rows}, nil
}
