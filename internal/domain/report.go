package domain

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Rejection records one table dropped during validation.
type Rejection struct {
	DocumentID string       `json:"document_id"`
	TableIndex int          `json:"table_index"`
	Reason     RejectReason `json:"reason"`
	Detail     string       `json:"detail,omitempty"`
}

// CoercionFailure records one cell that could not be converted to its
// target type and was downgraded to missing.
type CoercionFailure struct {
	DocumentID string `json:"document_id"`
	TableIndex int    `json:"table_index"`
	Column     string `json:"column"`
	Row        int    `json:"row"`
	Raw        string `json:"raw"`
}

// ProcessingReport accumulates everything a run observed: counters,
// rejected tables, coercion failures, and advisory notes. It is not safe
// for concurrent use; the pipeline merges per-document results under its
// own lock.
type ProcessingReport struct {
	RunID               uuid.UUID         `json:"run_id"`
	StartedAt           time.Time         `json:"started_at"`
	FinishedAt          time.Time         `json:"finished_at"`
	DocumentsSeen       int               `json:"documents_seen"`
	DocumentsFailed     int               `json:"documents_failed"`
	DocumentsEmpty      int               `json:"documents_empty"`
	TablesExtracted     int               `json:"tables_extracted"`
	TablesAccepted      int               `json:"tables_accepted"`
	TablesRejected      int               `json:"tables_rejected"`
	Rejections          []Rejection       `json:"rejections,omitempty"`
	CoercionFailures    []CoercionFailure `json:"coercion_failures,omitempty"`
	Notes               []string          `json:"notes,omitempty"`
	RowsDroppedByFilter int               `json:"rows_dropped_by_filter"`
	FinalRowCount       int               `json:"final_row_count"`
}

// NewProcessingReport returns a report stamped with a fresh run ID.
func NewProcessingReport() *ProcessingReport {
	return &ProcessingReport{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
	}
}

// Reject records a rejected table.
func (r *ProcessingReport) Reject(docID string, tableIndex int, reason RejectReason, detail string) {
	r.TablesRejected++
	r.Rejections = append(r.Rejections, Rejection{
		DocumentID: docID,
		TableIndex: tableIndex,
		Reason:     reason,
		Detail:     detail,
	})
}

// Notef records an advisory note.
func (r *ProcessingReport) Notef(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// Finalize stamps the end time and puts the diagnostics in (document,
// table, row) order, so the rendered report does not depend on which
// goroutine finished first.
func (r *ProcessingReport) Finalize() {
	r.FinishedAt = time.Now().UTC()
	sort.SliceStable(r.Rejections, func(i, j int) bool {
		if r.Rejections[i].DocumentID != r.Rejections[j].DocumentID {
			return r.Rejections[i].DocumentID < r.Rejections[j].DocumentID
		}
		return r.Rejections[i].TableIndex < r.Rejections[j].TableIndex
	})
	sort.SliceStable(r.CoercionFailures, func(i, j int) bool {
		a, b := r.CoercionFailures[i], r.CoercionFailures[j]
		if a.DocumentID != b.DocumentID {
			return a.DocumentID < b.DocumentID
		}
		if a.TableIndex != b.TableIndex {
			return a.TableIndex < b.TableIndex
		}
		return a.Row < b.Row
	})
	sort.Strings(r.Notes)
}

// WriteText renders the report in its human-readable form.
func (r *ProcessingReport) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "SPARCS compliance run %s\n", r.RunID)
	fmt.Fprintf(&b, "started:  %s\n", r.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "finished: %s\n\n", r.FinishedAt.Format(time.RFC3339))

	fmt.Fprintf(&b, "documents seen:    %d\n", r.DocumentsSeen)
	fmt.Fprintf(&b, "documents failed:  %d\n", r.DocumentsFailed)
	fmt.Fprintf(&b, "documents empty:   %d\n", r.DocumentsEmpty)
	fmt.Fprintf(&b, "tables extracted:  %d\n", r.TablesExtracted)
	fmt.Fprintf(&b, "tables accepted:   %d\n", r.TablesAccepted)
	fmt.Fprintf(&b, "tables rejected:   %d\n", r.TablesRejected)

	if len(r.Rejections) > 0 {
		b.WriteString("\nrejections:\n")
		for _, rej := range r.Rejections {
			fmt.Fprintf(&b, "  doc %s table %d: %s", rej.DocumentID, rej.TableIndex, rej.Reason)
			if rej.Detail != "" {
				fmt.Fprintf(&b, " (%s)", rej.Detail)
			}
			b.WriteString("\n")
		}
	}
	if len(r.CoercionFailures) > 0 {
		b.WriteString("\ncoercion failures:\n")
		for _, cf := range r.CoercionFailures {
			fmt.Fprintf(&b, "  doc %s table %d col %s row %d: %q\n",
				cf.DocumentID, cf.TableIndex, cf.Column, cf.Row, cf.Raw)
		}
	}
	if len(r.Notes) > 0 {
		b.WriteString("\nnotes:\n")
		for _, n := range r.Notes {
			fmt.Fprintf(&b, "  %s\n", n)
		}
	}

	fmt.Fprintf(&b, "\nrows dropped by required-field filter: %d\n", r.RowsDroppedByFilter)
	fmt.Fprintf(&b, "final row count: %d\n", r.FinalRowCount)

	_, err := io.WriteString(w, b.String())
	return err
}
