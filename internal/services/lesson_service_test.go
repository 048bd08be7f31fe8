package services_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vytor/ezexam/internal/errors"
	"github.com/vytor/ezexam/internal/models"
	"github.com/vytor/ezexam/internal/services"
	"github.com/vytor/ezexam/internal/testutil/mocks"
)

func TestLessonService_ListLessonsMergesProgress(t *testing.T) {
	lessons := &mocks.MockLessonRepository{}
	progress := &mocks.MockProgressRepository{}
	svc := services.NewLessonService(lessons, progress)

	lessons.On("ListActive", mock.Anything).Return([]models.Lesson{
		{ID: 1, Title: "Basic Arithmetic", OrderIndex: 1, IsActive: true},
		{ID: 2, Title: "Multiplication Mastery", OrderIndex: 2, IsActive: true},
	}, nil)
	progress.On("ListForUser", mock.Anything, int64(7)).Return([]models.Progress{
		{UserID: 7, LessonID: 2, IsCompleted: true, CompletionPercentage: 100},
	}, nil)

	out, err := svc.ListLessons(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, models.ProgressStatus{}, out[0].ProgressStatus)
	assert.Equal(t, models.ProgressStatus{IsCompleted: true, CompletionPercentage: 100}, out[1].ProgressStatus)

	lessons.AssertExpectations(t)
	progress.AssertExpectations(t)
}

func TestLessonService_ListLessonsStoreFailure(t *testing.T) {
	lessons := &mocks.MockLessonRepository{}
	svc := services.NewLessonService(lessons, &mocks.MockProgressRepository{})
	lessons.On("ListActive", mock.Anything).Return(nil, stderrors.New("db down"))

	_, err := svc.ListLessons(context.Background(), 1)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}

func TestLessonService_GetLessonHidesAnswers(t *testing.T) {
	lessons := &mocks.MockLessonRepository{}
	svc := services.NewLessonService(lessons, &mocks.MockProgressRepository{})

	lessons.On("Get", mock.Anything, int64(1)).Return(&models.Lesson{ID: 1, Title: "Basic Arithmetic", IsActive: true}, nil)
	lessons.On("Problems", mock.Anything, int64(1)).Return([]models.Problem{
		{ID: 10, LessonID: 1, Question: "2+2?", ProblemType: "options", XPValue: 10, OrderIndex: 1, Options: []models.Option{
			{ID: 100, ProblemID: 10, OptionText: "4", OrderIndex: 1, IsCorrect: true},
			{ID: 101, ProblemID: 10, OptionText: "5", OrderIndex: 2},
		}},
	}, nil)

	detail, err := svc.GetLesson(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, detail.Problems, 1)
	assert.Equal(t, []models.OptionView{
		{ID: 100, OptionText: "4", OrderIndex: 1},
		{ID: 101, OptionText: "5", OrderIndex: 2},
	}, detail.Problems[0].Options)

	body, err := json.Marshal(detail)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "is_correct")
	assert.Contains(t, string(body), `"problems"`)
}

func TestLessonService_GetLessonNotFound(t *testing.T) {
	lessons := &mocks.MockLessonRepository{}
	svc := services.NewLessonService(lessons, &mocks.MockProgressRepository{})

	lessons.On("Get", mock.Anything, int64(1)).Return(nil, nil)
	lessons.On("Get", mock.Anything, int64(2)).Return(&models.Lesson{ID: 2, IsActive: false}, nil)

	_, err := svc.GetLesson(context.Background(), 1)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	_, err = svc.GetLesson(context.Background(), 2)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	lessons.AssertNotCalled(t, "Problems", mock.Anything, mock.Anything)
}

func TestLessonService_SharedReadIgnoresCallerCancellation(t *testing.T) {
	lessons := &mocks.MockLessonRepository{}
	progress := &mocks.MockProgressRepository{}
	svc := services.NewLessonService(lessons, progress)

	live := mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })
	lessons.On("Get", live, int64(1)).Return(&models.Lesson{ID: 1, IsActive: true}, nil)
	lessons.On("Problems", live, int64(1)).Return([]models.Problem{}, nil)
	lessons.On("ListActive", live).Return([]models.Lesson{{ID: 1, IsActive: true}}, nil)
	progress.On("ListForUser", mock.Anything, int64(7)).Return(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	detail, err := svc.GetLesson(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detail.ID)

	list, err := svc.ListLessons(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	lessons.AssertExpectations(t)
}
