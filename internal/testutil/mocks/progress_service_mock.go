package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/ezexam/internal/services"
)

// MockProgressService is a mock implementation of services.ProgressService
type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) Recompute(ctx context.Context, userID, lessonID int64) error {
	args := m.Called(ctx, userID, lessonID)
	return args.Error(0)
}

func (m *MockProgressService) ReconcileAll(ctx context.Context, opts services.ReconcileOptions) (*services.ReconcileReport, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ReconcileReport), args.Error(1)
}
