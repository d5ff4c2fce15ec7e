package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sparcsetl/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendRunSummary(ctx context.Context, summary port.RunSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}
