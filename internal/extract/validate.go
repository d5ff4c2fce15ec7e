package extract

import "sparcsetl/internal/domain"

// Validate applies the structural acceptance checks to a reconciled
// table. The empty reason means the table is accepted.
func Validate(rows [][]domain.Value, keyIdx int) (domain.RejectReason, string) {
	if len(rows) == 0 {
		return domain.RejectNoDataRows, "no data rows after reconciliation"
	}
	if rows[0][keyIdx].IsMissing() {
		return domain.RejectLeadKeyMissing, "key column empty before the first keyed row"
	}
	return "", ""
}
