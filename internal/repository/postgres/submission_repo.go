package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sparcsetl/internal/domain"
	"sparcsetl/internal/port"
)

// insertBatchSize bounds the number of rows per multi-row INSERT.
const insertBatchSize = 500

type submissionRepo struct {
	db *sqlx.DB
}

// NewSubmissionRepo creates a new PostgreSQL-backed SubmissionRepository.
func NewSubmissionRepo(db *sqlx.DB) port.SubmissionRepository {
	return &submissionRepo{db: db}
}

func (r *submissionRepo) BulkInsert(ctx context.Context, rows []domain.FacilitySubmission) error {
	query := `INSERT INTO facility_submissions
		(id, run_id, facility, audit_year, file_type, discharge_month, fields, created_at)
		VALUES
		(:id, :run_id, :facility, :audit_year, :file_type, :discharge_month, :fields, :created_at)`

	for start := 0; start < len(rows); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := r.db.NamedExecContext(ctx, query, rows[start:end]); err != nil {
			return fmt.Errorf("submissionRepo.BulkInsert batch at %d: %w", start, err)
		}
	}
	return nil
}

func (r *submissionRepo) ListByRun(ctx context.Context, runID uuid.UUID, offset, limit int) ([]domain.FacilitySubmission, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM facility_submissions WHERE run_id = $1", runID)
	if err != nil {
		return nil, 0, fmt.Errorf("submissionRepo.ListByRun count: %w", err)
	}

	var rows []domain.FacilitySubmission
	err = r.db.SelectContext(ctx, &rows,
		`SELECT * FROM facility_submissions
		 WHERE run_id = $1
		 ORDER BY created_at, id
		 LIMIT $2 OFFSET $3`, runID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("submissionRepo.ListByRun: %w", err)
	}
	return rows, total, nil
}
