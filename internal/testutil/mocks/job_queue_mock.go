package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueRecompute(userID, lessonID int64) error {
	args := m.Called(userID, lessonID)
	return args.Error(0)
}
