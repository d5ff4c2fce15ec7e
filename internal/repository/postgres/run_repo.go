package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"sparcsetl/internal/domain"
	"sparcsetl/internal/port"
)

type runRepo struct {
	db *sqlx.DB
}

// NewRunRepo creates a new PostgreSQL-backed RunRepository.
func NewRunRepo(db *sqlx.DB) port.RunRepository {
	return &runRepo{db: db}
}

func (r *runRepo) Create(ctx context.Context, run *domain.Run) error {
	run.CreatedAt = time.Now().UTC()

	query := `INSERT INTO runs (id, started_at, finished_at, status, document_count, row_count, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.StartedAt, run.FinishedAt, run.Status,
		run.DocumentCount, run.RowCount, run.Report, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("runRepo.Create: %w", err)
	}
	return nil
}

func (r *runRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	var run domain.Run
	err := r.db.GetContext(ctx, &run, "SELECT * FROM runs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("runRepo.GetByID: %w", err)
	}
	return &run, nil
}

func (r *runRepo) GetLatest(ctx context.Context) (*domain.Run, error) {
	var run domain.Run
	err := r.db.GetContext(ctx, &run,
		"SELECT * FROM runs ORDER BY started_at DESC LIMIT 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("runRepo.GetLatest: %w", err)
	}
	return &run, nil
}

func (r *runRepo) List(ctx context.Context, offset, limit int) ([]domain.Run, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM runs")
	if err != nil {
		return nil, 0, fmt.Errorf("runRepo.List count: %w", err)
	}

	var runs []domain.Run
	err = r.db.SelectContext(ctx, &runs,
		"SELECT * FROM runs ORDER BY started_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("runRepo.List: %w", err)
	}
	return runs, total, nil
}
