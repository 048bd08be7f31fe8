package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/ezexam/internal/models"
)

// MockLessonRepository is a mock implementation of repository.LessonRepository
type MockLessonRepository struct {
	mock.Mock
}

func (m *MockLessonRepository) ListActive(ctx context.Context) ([]models.Lesson, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lesson), args.Error(1)
}

func (m *MockLessonRepository) Get(ctx context.Context, id int64) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *MockLessonRepository) GetByTitle(ctx context.Context, title string) (*models.Lesson, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *MockLessonRepository) Problems(ctx context.Context, lessonID int64) ([]models.Problem, error) {
	args := m.Called(ctx, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Problem), args.Error(1)
}

func (m *MockLessonRepository) ProblemsByID(ctx context.Context, ids []int64) ([]models.Problem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Problem), args.Error(1)
}

func (m *MockLessonRepository) CountProblems(ctx context.Context, lessonID int64) (int, error) {
	args := m.Called(ctx, lessonID)
	return args.Int(0), args.Error(1)
}

func (m *MockLessonRepository) CountActive(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockLessonRepository) Insert(ctx context.Context, lesson models.Lesson, problems []models.Problem) (int64, error) {
	args := m.Called(ctx, lesson, problems)
	return args.Get(0).(int64), args.Error(1)
}
