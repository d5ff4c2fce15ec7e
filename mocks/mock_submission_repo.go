package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"sparcsetl/internal/domain"
)

// MockSubmissionRepo is a mock implementation of port.SubmissionRepository.
type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) BulkInsert(ctx context.Context, rows []domain.FacilitySubmission) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockSubmissionRepo) ListByRun(ctx context.Context, runID uuid.UUID, offset, limit int) ([]domain.FacilitySubmission, int, error) {
	args := m.Called(ctx, runID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.FacilitySubmission), args.Int(1), args.Error(2)
}
