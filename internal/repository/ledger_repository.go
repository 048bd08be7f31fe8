package repository

import (
	"context"
	"time"

	"github.com/vytor/ezexam/internal/models"
)

// AttemptLedger is the append-only record of scored answers.
type AttemptLedger interface {
	FindAttempt(ctx context.Context, userID int64, attemptID string) ([]models.Submission, error)
	// TotalXPAt is the user's stored total_xp minus the XP of every row
	// written after submissionID: the total right after that row's commit.
	// It reads both in one statement.
	TotalXPAt(ctx context.Context, userID, submissionID int64) (int, error)
	// Keys lists every (user, lesson) pair that has ledger rows.
	Keys(ctx context.Context) ([]models.ProgressKey, error)
	// Commit runs fn inside one write transaction. Nothing fn wrote survives
	// unless fn returns nil and the commit succeeds.
	Commit(ctx context.Context, fn func(w LedgerWriter) error) error
}

// LedgerWriter is the view of the store available inside Commit.
type LedgerWriter interface {
	FindAttempt(ctx context.Context, userID int64, attemptID string) ([]models.Submission, error)
	User(ctx context.Context, id int64) (*models.User, error)
	InsertSubmissions(ctx context.Context, subs []models.Submission) ([]models.Submission, error)
	UpdateUserStats(ctx context.Context, userID int64, xpDelta, streak int, lastActivity time.Time) (*models.User, error)
}
