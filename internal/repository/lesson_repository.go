package repository

import (
	"context"

	"github.com/vytor/ezexam/internal/models"
)

// LessonRepository handles catalog data access
type LessonRepository interface {
	ListActive(ctx context.Context) ([]models.Lesson, error)
	Get(ctx context.Context, id int64) (*models.Lesson, error)
	GetByTitle(ctx context.Context, title string) (*models.Lesson, error)
	// Problems returns every problem of the lesson, ordered, with ordered options.
	Problems(ctx context.Context, lessonID int64) ([]models.Problem, error)
	// ProblemsByID loads the given problems with their options, whatever lesson
	// they belong to. Unknown ids are simply absent from the result.
	ProblemsByID(ctx context.Context, ids []int64) ([]models.Problem, error)
	CountProblems(ctx context.Context, lessonID int64) (int, error)
	CountActive(ctx context.Context) (int, error)
	// Insert stores a lesson with its problems and options in one transaction.
	Insert(ctx context.Context, lesson models.Lesson, problems []models.Problem) (int64, error)
}
