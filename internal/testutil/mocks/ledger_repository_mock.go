package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/ezexam/internal/models"
	"github.com/vytor/ezexam/internal/repository"
)

// MockAttemptLedger is a mock implementation of repository.AttemptLedger.
// Commit runs the callback against Writer when one is set.
type MockAttemptLedger struct {
	mock.Mock
	Writer repository.LedgerWriter
}

func (m *MockAttemptLedger) FindAttempt(ctx context.Context, userID int64, attemptID string) ([]models.Submission, error) {
	args := m.Called(ctx, userID, attemptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Submission), args.Error(1)
}

func (m *MockAttemptLedger) TotalXPAt(ctx context.Context, userID, submissionID int64) (int, error) {
	args := m.Called(ctx, userID, submissionID)
	return args.Int(0), args.Error(1)
}

func (m *MockAttemptLedger) Keys(ctx context.Context) ([]models.ProgressKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProgressKey), args.Error(1)
}

func (m *MockAttemptLedger) Commit(ctx context.Context, fn func(w repository.LedgerWriter) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	if m.Writer == nil {
		return nil
	}
	return fn(m.Writer)
}
