package repository

import (
	"context"

	"github.com/vytor/ezexam/internal/models"
)

// ApplyFunc builds the new progress row from the previous one (nil when
// absent) and the ledger counts for the lesson.
type ApplyFunc func(prev *models.Progress, correct, total int) models.Progress

// ProgressRepository handles per-lesson progress rows
type ProgressRepository interface {
	Get(ctx context.Context, userID, lessonID int64) (*models.Progress, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Progress, error)
	// Recompute counts the lesson's problems and the distinct problems the
	// user ever answered correctly, then stores apply's result. The read and
	// the write share one write transaction, so the last writer always saw
	// the latest ledger.
	Recompute(ctx context.Context, key models.ProgressKey, apply ApplyFunc) (*models.Progress, error)
	// CountCompletedActive counts completed rows whose lesson is still active.
	CountCompletedActive(ctx context.Context, userID int64) (int, error)
}
