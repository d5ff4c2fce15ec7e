package port

import "context"

// RunSummary carries the fields of a run-completion notification.
// DatasetURL is a presigned download link for the published dataset and
// is empty when object storage is not configured.
type RunSummary struct {
	RunID           string
	FinalRows       int
	TablesRejected  int
	DocumentsFailed int
	DatasetPath     string
	DatasetURL      string
}

// EmailSender defines the contract for run-completion notifications.
type EmailSender interface {
	SendRunSummary(ctx context.Context, summary RunSummary) error
}
