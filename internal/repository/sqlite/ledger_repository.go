package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/vytor/ezexam/internal/logger"
	"github.com/vytor/ezexam/internal/models"
	"github.com/vytor/ezexam/internal/repository"
)

type attemptLedger struct {
	db *sql.DB
}

// NewAttemptLedger creates a new AttemptLedger implementation
func NewAttemptLedger(db *sql.DB) repository.AttemptLedger {
	return &attemptLedger{db: db}
}

func findAttempt(ctx context.Context, q queryer, userID int64, attemptID string) ([]models.Submission, error) {
	rows, err := q.QueryContext(ctx, `
SELECT id, user_id, problem_id, attempt_id, option_id, is_correct, xp_earned, submitted_at
FROM submissions
WHERE user_id = ? AND attempt_id = ?
ORDER BY id ASC
`, userID, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(&s.ID, &s.UserID, &s.ProblemID, &s.AttemptID, &s.OptionID, &s.IsCorrect, &s.XPEarned, &s.SubmittedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *attemptLedger) FindAttempt(ctx context.Context, userID int64, attemptID string) ([]models.Submission, error) {
	log := logger.FromContext(ctx).WithPrefix("ledger_repo")
	log.Debug("looking up attempt: user_id=%d, attempt_id=%s", userID, attemptID)

	subs, err := findAttempt(ctx, r.db, userID, attemptID)
	if err != nil {
		log.Error("failed to find attempt: %v", err)
		return nil, classify(err)
	}
	return subs, nil
}

func (r *attemptLedger) TotalXPAt(ctx context.Context, userID, submissionID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("ledger_repo")

	var total int
	err := r.db.QueryRowContext(ctx, `
SELECT u.total_xp - COALESCE((
    SELECT SUM(s.xp_earned) FROM submissions s WHERE s.user_id = u.id AND s.id > ?
), 0)
FROM users u WHERE u.id = ?
`, submissionID, userID).Scan(&total)
	if err != nil {
		log.Error("failed to compute xp at submission %d: %v", submissionID, err)
		return 0, classify(err)
	}
	return total, nil
}

func (r *attemptLedger) Keys(ctx context.Context) ([]models.ProgressKey, error) {
	log := logger.FromContext(ctx).WithPrefix("ledger_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT s.user_id, p.lesson_id
FROM submissions s
JOIN problems p ON p.id = s.problem_id
ORDER BY s.user_id, p.lesson_id
`)
	if err != nil {
		log.Error("failed to list ledger keys: %v", err)
		return nil, classify(err)
	}
	defer rows.Close()

	var keys []models.ProgressKey
	for rows.Next() {
		var k models.ProgressKey
		if err := rows.Scan(&k.UserID, &k.LessonID); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	log.Debug("found %d (user, lesson) pairs in ledger", len(keys))
	return keys, rows.Err()
}

func (r *attemptLedger) Commit(ctx context.Context, fn func(w repository.LedgerWriter) error) error {
	return tx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&ledgerWriter{tx: tx})
	})
}

type ledgerWriter struct {
	tx *sql.Tx
}

func (w *ledgerWriter) FindAttempt(ctx context.Context, userID int64, attemptID string) ([]models.Submission, error) {
	return findAttempt(ctx, w.tx, userID, attemptID)
}

func (w *ledgerWriter) User(ctx context.Context, id int64) (*models.User, error) {
	return getUser(ctx, w.tx, id)
}

func (w *ledgerWriter) InsertSubmissions(ctx context.Context, subs []models.Submission) ([]models.Submission, error) {
	log := logger.FromContext(ctx).WithPrefix("ledger_repo")

	stmt, err := w.tx.PrepareContext(ctx, `
INSERT INTO submissions (user_id, problem_id, attempt_id, option_id, is_correct, xp_earned, submitted_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return nil, classify(err)
	}
	defer stmt.Close()

	stored := make([]models.Submission, len(subs))
	for i, s := range subs {
		res, err := stmt.ExecContext(ctx, s.UserID, s.ProblemID, s.AttemptID, s.OptionID, s.IsCorrect, s.XPEarned, s.SubmittedAt.UTC())
		if err != nil {
			log.Debug("failed to insert submission: attempt_id=%s, problem_id=%d: %v", s.AttemptID, s.ProblemID, err)
			return nil, classify(err)
		}
		if s.ID, err = res.LastInsertId(); err != nil {
			return nil, err
		}
		stored[i] = s
	}
	log.Debug("inserted %d ledger rows", len(stored))
	return stored, nil
}

func (w *ledgerWriter) UpdateUserStats(ctx context.Context, userID int64, xpDelta, streak int, lastActivity time.Time) (*models.User, error) {
	var u models.User
	err := scanUser(w.tx.QueryRowContext(ctx, `
UPDATE users
SET total_xp = total_xp + ?,
    current_streak = ?,
    last_activity_date = ?,
    updated_at = ?
WHERE id = ?
RETURNING `+userColumns+`
`, xpDelta, streak, lastActivity.UTC(), time.Now().UTC(), userID), &u)
	if err != nil {
		return nil, classify(err)
	}
	return &u, nil
}
