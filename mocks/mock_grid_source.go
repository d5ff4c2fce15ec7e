package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sparcsetl/internal/domain"
)

// MockGridSource is a mock implementation of port.GridSource.
type MockGridSource struct {
	mock.Mock
}

func (m *MockGridSource) Extract(ctx context.Context, doc *domain.Document) ([]domain.CellGrid, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CellGrid), args.Error(1)
}
