package domain

// SourceFormat identifies the kind of document a grid source reads.
type SourceFormat string

const (
	FormatPDF  SourceFormat = "pdf"
	FormatHTML SourceFormat = "html"
	FormatXLSX SourceFormat = "xlsx"
)

// FormatByExtension maps file extensions (without dot, lower-case) to the
// grid source format that handles them.
var FormatByExtension = map[string]SourceFormat{
	"pdf":  FormatPDF,
	"html": FormatHTML,
	"htm":  FormatHTML,
	"xlsx": FormatXLSX,
}

// RejectReason classifies why a table was rejected during validation.
// Rejections are recoverable: the table is dropped and counted, sibling
// tables are unaffected.
type RejectReason string

const (
	RejectMissingKeyColumn RejectReason = "missing_key_column"
	RejectNoDataRows       RejectReason = "no_data_rows"
	RejectLeadKeyMissing   RejectReason = "lead_key_missing"
	RejectHeaderConflict   RejectReason = "header_conflict"
)

// RunStatus represents the outcome of a pipeline run.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)
