package extract

import (
	"fmt"
	"strings"
)

// SchemaConflictError reports two header cells normalizing to the same
// canonical label. Tables with conflicting headers are rejected whole.
type SchemaConflictError struct {
	Label  string
	First  int
	Second int
}

func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("header label %q appears at columns %d and %d", e.Label, e.First, e.Second)
}

// CanonicalLabel normalizes one raw header cell: the emphasis marker is
// stripped, line breaks and spaces become underscores, and the result is
// upper-cased. Leading and trailing whitespace is not trimmed first, so a
// label that ends in a space keeps a trailing underscore.
func CanonicalLabel(raw string, rules Rules) string {
	s := raw
	if rules.EmphasisMarker != "" {
		s = strings.ReplaceAll(s, rules.EmphasisMarker, "")
	}
	s = strings.ReplaceAll(s, "\n", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ToUpper(s)
}

// NormalizeHeader canonicalizes the provisional header row. Two cells that
// collapse to the same canonical label make the header ambiguous and the
// whole table is rejected with a SchemaConflictError.
func NormalizeHeader(raw []string, rules Rules) ([]string, error) {
	labels := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, cell := range raw {
		label := CanonicalLabel(cell, rules)
		if first, dup := seen[label]; dup {
			return nil, &SchemaConflictError{Label: label, First: first, Second: i}
		}
		seen[label] = i
		labels[i] = label
	}
	return labels, nil
}
