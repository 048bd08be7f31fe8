package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vytor/ezexam/internal/logger"
	"github.com/vytor/ezexam/internal/models"
	"github.com/vytor/ezexam/internal/repository"
)

const userColumns = `id, username, email, total_xp, current_streak, last_activity_date, created_at, updated_at`

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }, u *models.User) error {
	return row.Scan(&u.ID, &u.Username, &u.Email, &u.TotalXP, &u.CurrentStreak, &u.LastActivityDate, &u.CreatedAt, &u.UpdatedAt)
}

// getUser is shared with the ledger writer, which reads inside its transaction.
func getUser(ctx context.Context, q queryer, id int64) (*models.User, error) {
	var u models.User
	err := scanUser(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%d", id)

	u, err := getUser(ctx, r.db, id)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	if u == nil {
		log.Debug("user not found: id=%d", id)
	}
	return u, nil
}

func (r *userRepository) Ensure(ctx context.Context, u models.User) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("ensuring user: username=%s", u.Username)

	var err error
	if u.ID > 0 {
		_, err = r.db.ExecContext(ctx, `
INSERT INTO users (id, username, email) VALUES (?, ?, ?)
ON CONFLICT DO NOTHING
`, u.ID, u.Username, u.Email)
	} else {
		_, err = r.db.ExecContext(ctx, `
INSERT INTO users (username, email) VALUES (?, ?)
ON CONFLICT DO NOTHING
`, u.Username, u.Email)
	}
	if err != nil {
		log.Error("failed to insert user: %v", err)
		return nil, err
	}

	var stored models.User
	err = scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, u.Username), &stored)
	if err != nil {
		log.Error("failed to load user %s: %v", u.Username, err)
		return nil, err
	}
	log.Debug("user ready: id=%d", stored.ID)
	return &stored, nil
}

func (r *userRepository) ListIDs(ctx context.Context) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *userRepository) RebuildStats(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("rebuilding stats from ledger: user_id=%d", userID)

	var total int
	err := r.db.QueryRowContext(ctx, `
UPDATE users
SET total_xp = (SELECT COALESCE(SUM(xp_earned), 0) FROM submissions WHERE user_id = users.id),
    updated_at = ?
WHERE id = ?
RETURNING total_xp
`, time.Now().UTC(), userID).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: id=%d", userID)
		return 0, nil
	}
	if err != nil {
		log.Error("failed to rebuild stats: %v", err)
		return 0, classify(err)
	}
	return total, nil
}
