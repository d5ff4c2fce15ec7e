package extract

// Rules carries the normalization constants of the compliance report
// format. These are properties of the document family itself, so they are
// fixed here rather than exposed as runtime configuration.
type Rules struct {
	// KeyColumn is the canonical label of the column every table must
	// carry. It is also the column that gets forward-filled.
	KeyColumn string

	// RawKeyHeader is the key header as it appears when a page split
	// repeats the header mid-table.
	RawKeyHeader string

	// SummaryMarkers are substrings that mark summary rows, matched
	// case-insensitively against the key cell.
	SummaryMarkers []string

	// EmphasisMarker is stripped from header labels before
	// canonicalization.
	EmphasisMarker string

	// PercentColumns are converted from percent text to fractions.
	PercentColumns []string

	// PercentSuffix, when non-empty, marks additional percent columns by
	// label suffix.
	PercentSuffix string

	// FacilityColumn and PeriodColumn are the provenance columns appended
	// to every table.
	FacilityColumn string
	PeriodColumn   string

	// MandatoryColumn is the column the final filter requires a value in.
	MandatoryColumn string
}

// DefaultRules returns the rules for NY SPARCS compliance reports.
func DefaultRules() Rules {
	return Rules{
		KeyColumn:       "FILE_TYPE",
		RawKeyHeader:    "File\nType",
		SummaryMarkers:  []string{"Total Records Submitted"},
		EmphasisMarker:  "*",
		PercentColumns:  []string{"PCT_OF_PREVYRAVG_SUBMTD_"},
		FacilityColumn:  "PFI",
		PeriodColumn:    "AUDIT_YEAR",
		MandatoryColumn: "DISCHARGE_MONTH",
	}
}

// isPercentColumn reports whether the canonical label is subject to the
// percent-to-fraction conversion.
func (r Rules) isPercentColumn(label string) bool {
	for _, c := range r.PercentColumns {
		if c == label {
			return true
		}
	}
	if r.PercentSuffix != "" && len(label) > len(r.PercentSuffix) {
		if label[len(label)-len(r.PercentSuffix):] == r.PercentSuffix {
			return true
		}
	}
	return false
}
