package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/ezexam/internal/logger"
	"github.com/vytor/ezexam/internal/models"
	"github.com/vytor/ezexam/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

var progressColumns = []string{
	"id", "user_id", "lesson_id", "is_completed", "completion_percentage",
	"last_accessed_at", "completed_at", "created_at", "updated_at",
}

func scanProgress(row interface{ Scan(...any) error }, p *models.Progress) error {
	return row.Scan(&p.ID, &p.UserID, &p.LessonID, &p.IsCompleted, &p.CompletionPercentage,
		&p.LastAccessedAt, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt)
}

func (r *progressRepository) Get(ctx context.Context, userID, lessonID int64) (*models.Progress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: user_id=%d, lesson_id=%d", userID, lessonID)

	p, err := getProgress(ctx, r.db, models.ProgressKey{UserID: userID, LessonID: lessonID})
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	return p, nil
}

func (r *progressRepository) ListForUser(ctx context.Context, userID int64) ([]models.Progress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")

	stmt, args, err := sqlBuilder.Select(progressColumns...).
		From("user_progress").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("lesson_id").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Progress
	for rows.Next() {
		var p models.Progress
		if err := scanProgress(rows, &p); err != nil {
			log.Error("failed to scan progress row: %v", err)
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func getProgress(ctx context.Context, q queryer, key models.ProgressKey) (*models.Progress, error) {
	stmt, args, err := sqlBuilder.Select(progressColumns...).
		From("user_progress").
		Where(squirrel.Eq{"user_id": key.UserID, "lesson_id": key.LessonID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var p models.Progress
	err = scanProgress(q.QueryRowContext(ctx, stmt, args...), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *progressRepository) Recompute(ctx context.Context, key models.ProgressKey, apply repository.ApplyFunc) (*models.Progress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("recomputing progress: user_id=%d, lesson_id=%d", key.UserID, key.LessonID)

	var stored *models.Progress
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		var total, correct int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems WHERE lesson_id = ?`, key.LessonID).Scan(&total); err != nil {
			log.Error("failed to count problems: %v", err)
			return err
		}
		if err := tx.QueryRowContext(ctx, `
SELECT COUNT(DISTINCT s.problem_id)
FROM submissions s
JOIN problems p ON p.id = s.problem_id
WHERE s.user_id = ? AND p.lesson_id = ? AND s.is_correct = 1
`, key.UserID, key.LessonID).Scan(&correct); err != nil {
			log.Error("failed to count correct problems: %v", err)
			return err
		}

		prev, err := getProgress(ctx, tx, key)
		if err != nil {
			log.Error("failed to load progress: %v", err)
			return err
		}

		next := apply(prev, correct, total)
		if _, err := tx.ExecContext(ctx, `
INSERT INTO user_progress (user_id, lesson_id, is_completed, completion_percentage, last_accessed_at, completed_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, lesson_id) DO UPDATE SET
    is_completed = excluded.is_completed,
    completion_percentage = excluded.completion_percentage,
    last_accessed_at = excluded.last_accessed_at,
    completed_at = COALESCE(user_progress.completed_at, excluded.completed_at),
    updated_at = excluded.updated_at
`, key.UserID, key.LessonID, next.IsCompleted, next.CompletionPercentage,
			utcPtr(next.LastAccessedAt), utcPtr(next.CompletedAt), time.Now().UTC()); err != nil {
			log.Error("failed to upsert progress: %v", err)
			return err
		}

		stored, err = getProgress(ctx, tx, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug("progress stored: pct=%d, completed=%t", stored.CompletionPercentage, stored.IsCompleted)
	return stored, nil
}

func (r *progressRepository) CountCompletedActive(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")

	stmt, args, err := sqlBuilder.Select("COUNT(*)").
		From("user_progress up").
		Join("lessons l ON l.id = up.lesson_id").
		Where(squirrel.Eq{"up.user_id": userID, "up.is_completed": true, "l.is_active": true}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
		log.Error("failed to count completed lessons: %v", err)
		return 0, err
	}
	return count, nil
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
