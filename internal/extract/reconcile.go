package extract

import (
	"strings"

	"sparcsetl/internal/domain"
)

// ReconcileRows turns raw data rows into value rows aligned to the
// canonical header. Repeated in-table header rows and summary rows are
// dropped, blank cells become missing, and the key column is forward
// filled. A missing key before the first keyed row is left missing; it is
// never fabricated. Rows shorter than the header are padded with missing
// values, longer rows are truncated to the header width.
func ReconcileRows(header []string, raw [][]string, keyIdx int, rules Rules) [][]domain.Value {
	rows := make([][]domain.Value, 0, len(raw))
	for _, rawRow := range raw {
		key := ""
		if keyIdx < len(rawRow) {
			key = rawRow[keyIdx]
		}
		if isRepeatedHeader(key, rules) || isSummaryRow(key, rules) {
			continue
		}
		row := make([]domain.Value, len(header))
		for i := range header {
			cell := ""
			if i < len(rawRow) {
				cell = rawRow[i]
			}
			if strings.TrimSpace(cell) == "" {
				row[i] = domain.Missing()
			} else {
				row[i] = domain.TextValue(cell)
			}
		}
		rows = append(rows, row)
	}

	last := domain.Missing()
	for _, row := range rows {
		if row[keyIdx].IsMissing() {
			if !last.IsMissing() {
				row[keyIdx] = last
			}
			continue
		}
		last = row[keyIdx]
	}
	return rows
}

// isRepeatedHeader reports whether a key cell is the table header leaking
// back in as data, which happens when a page break splits a table.
func isRepeatedHeader(key string, rules Rules) bool {
	k := strings.TrimSpace(key)
	if k == rules.RawKeyHeader {
		return true
	}
	return strings.EqualFold(k, rules.KeyColumn)
}

// isSummaryRow reports whether a key cell marks a totals row.
func isSummaryRow(key string, rules Rules) bool {
	k := strings.ToLower(key)
	for _, marker := range rules.SummaryMarkers {
		if strings.Contains(k, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
