package source

import (
	"path/filepath"
	"strings"

	"sparcsetl/internal/domain"
)

// yearPrefix marks the leading filename token that encodes the audit
// period, as in Y2023_AUDIT_REPORT_PFI123.pdf.
const yearPrefix = 'Y'

// ParseProvenance derives a document's identity from its file name. The
// facility identifier is the last underscore-separated token of the stem,
// and the period is taken from the leading token only when that token is
// the year prefix followed by digits. Anything else gets the unknown
// sentinel; the period is never guessed from other parts of the name.
func ParseProvenance(path string) domain.Document {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	tokens := strings.Split(stem, "_")

	return domain.Document{
		ID:       stem,
		Path:     path,
		Facility: tokens[len(tokens)-1],
		Period:   periodFromToken(tokens[0]),
	}
}

func periodFromToken(token string) string {
	if len(token) < 2 || token[0] != yearPrefix {
		return domain.UnknownPeriod
	}
	for _, r := range token[1:] {
		if r < '0' || r > '9' {
			return domain.UnknownPeriod
		}
	}
	return token[1:]
}
