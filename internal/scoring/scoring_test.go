package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/ezexam/internal/errors"
	"github.com/vytor/ezexam/internal/models"
	"github.com/vytor/ezexam/internal/scoring"
)

const lessonID = 1

func catalog() []models.Problem {
	return []models.Problem{
		{
			ID: 10, LessonID: lessonID, XPValue: 10,
			Options: []models.Option{
				{ID: 100, ProblemID: 10, IsCorrect: false},
				{ID: 101, ProblemID: 10, IsCorrect: true},
			},
		},
		{
			ID: 20, LessonID: lessonID, XPValue: 15,
			Options: []models.Option{
				{ID: 200, ProblemID: 20, IsCorrect: true},
				{ID: 201, ProblemID: 20, IsCorrect: false},
			},
		},
	}
}

func TestScore_CorrectAndIncorrect(t *testing.T) {
	results, err := scoring.Score(lessonID, catalog(), []models.Answer{
		{ProblemID: 20, OptionID: 200},
		{ProblemID: 10, OptionID: 100},
	})
	require.NoError(t, err)

	assert.Equal(t, []models.AnswerResult{
		{ProblemID: 20, IsCorrect: true, XPEarned: 15},
		{ProblemID: 10, IsCorrect: false, XPEarned: 0},
	}, results)
	assert.Equal(t, 15, scoring.TotalXP(results))
}

func TestScore_AllCorrectSumsExactly(t *testing.T) {
	results, err := scoring.Score(lessonID, catalog(), []models.Answer{
		{ProblemID: 10, OptionID: 101},
		{ProblemID: 20, OptionID: 200},
	})
	require.NoError(t, err)
	assert.Equal(t, 25, scoring.TotalXP(results))
}

func TestScore_MultipleCorrectOptionsAreEachHonoured(t *testing.T) {
	problems := catalog()
	problems[0].Options[0].IsCorrect = true

	results, err := scoring.Score(lessonID, problems, []models.Answer{{ProblemID: 10, OptionID: 100}})
	require.NoError(t, err)
	assert.True(t, results[0].IsCorrect)
	assert.Equal(t, 10, results[0].XPEarned)
}

func TestScore_ReportsEveryInvalidProblem(t *testing.T) {
	_, err := scoring.Score(lessonID, catalog(), []models.Answer{
		{ProblemID: 10, OptionID: 101},
		{ProblemID: 99, OptionID: 1},
		{ProblemID: 98, OptionID: 2},
		{ProblemID: 99, OptionID: 3},
	})
	require.Error(t, err)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, []errors.InvalidReference{{Kind: "problem", IDs: []int64{99, 98}}}, appErr.Details)
}

func TestScore_OptionFromAnotherProblemIsInvalid(t *testing.T) {
	_, err := scoring.Score(lessonID, catalog(), []models.Answer{
		{ProblemID: 10, OptionID: 200},
		{ProblemID: 20, OptionID: 999},
		{ProblemID: 77, OptionID: 101},
	})
	require.Error(t, err)

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, []errors.InvalidReference{
		{Kind: "problem", IDs: []int64{77}},
		{Kind: "option", IDs: []int64{200, 999}},
	}, appErr.Details)
}

func TestScore_IgnoresProblemsFromOtherLessons(t *testing.T) {
	problems := append(catalog(), models.Problem{
		ID: 30, LessonID: 2, XPValue: 50,
		Options: []models.Option{{ID: 300, ProblemID: 30, IsCorrect: true}},
	})

	_, err := scoring.Score(lessonID, problems, []models.Answer{{ProblemID: 30, OptionID: 300}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}
