package noop

import (
	"context"
	"log"

	"sparcsetl/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs run summaries to
// stdout instead of delivering them.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendRunSummary(_ context.Context, summary port.RunSummary) error {
	log.Printf("[NOOP EMAIL] run %s complete: %d rows, %d tables rejected, %d documents failed (dataset: %s)",
		summary.RunID, summary.FinalRows, summary.TablesRejected, summary.DocumentsFailed, summary.DatasetPath)
	return nil
}
