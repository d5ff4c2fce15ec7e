package port

import (
	"context"

	"github.com/google/uuid"

	"sparcsetl/internal/domain"
)

// RunRepository defines the contract for run history persistence.
type RunRepository interface {
	Create(ctx context.Context, run *domain.Run) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error)
	GetLatest(ctx context.Context) (*domain.Run, error)
	List(ctx context.Context, offset, limit int) ([]domain.Run, int, error)
}

// SubmissionRepository defines the contract for persisting dataset rows.
type SubmissionRepository interface {
	BulkInsert(ctx context.Context, rows []domain.FacilitySubmission) error
	ListByRun(ctx context.Context, runID uuid.UUID, offset, limit int) ([]domain.FacilitySubmission, int, error)
}
