package extract

import (
	"fmt"

	"sparcsetl/internal/domain"
)

// Findings collects the recoverable outcomes of one document's extraction
// pass. The pipeline merges findings from every document into the run
// report, so extraction itself never touches shared state.
type Findings struct {
	TablesExtracted  int
	Rejections       []domain.Rejection
	CoercionFailures []domain.CoercionFailure
	Notes            []string
}

func (f *Findings) reject(docID string, tableIndex int, reason domain.RejectReason, detail string) {
	f.Rejections = append(f.Rejections, domain.Rejection{
		DocumentID: docID,
		TableIndex: tableIndex,
		Reason:     reason,
		Detail:     detail,
	})
}

func (f *Findings) notef(format string, args ...any) {
	f.Notes = append(f.Notes, fmt.Sprintf(format, args...))
}
