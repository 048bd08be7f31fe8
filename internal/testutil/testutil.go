package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/ezexam/internal/db"
	"github.com/vytor/ezexam/internal/models"
	"github.com/vytor/ezexam/internal/repository/sqlite"
)

// NewTestDB creates a file-backed SQLite database in a temp dir with all
// migrations applied. A file is used instead of :memory: so that several
// connections share one database, as they do in production.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"), 4)
	require.NoError(t, err)
	return database.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Fixture is a seeded lesson. Correct[i] and Wrong[i] are option ids for
// Problems[i].
type Fixture struct {
	LessonID int64
	Problems []int64
	Correct  []int64
	Wrong    []int64
}

// CreateUser inserts a user and returns its id.
func CreateUser(t *testing.T, conn *sql.DB, username string) int64 {
	t.Helper()
	res, err := conn.ExecContext(context.Background(), `INSERT INTO users (username) VALUES (?)`, username)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// CreateLesson inserts an active lesson with one two-option problem per xp
// value.
func CreateLesson(t *testing.T, conn *sql.DB, title string, xp ...int) Fixture {
	t.Helper()
	ctx := context.Background()

	problems := make([]models.Problem, len(xp))
	for i, v := range xp {
		problems[i] = models.Problem{
			Question:   title + " question",
			XPValue:    v,
			OrderIndex: i + 1,
			Options: []models.Option{
				{OptionText: "right", OrderIndex: 1, IsCorrect: true},
				{OptionText: "wrong", OrderIndex: 2},
			},
		}
	}
	lessonID, err := sqlite.NewLessonRepository(conn).Insert(ctx, models.Lesson{Title: title, OrderIndex: 1, IsActive: true}, problems)
	require.NoError(t, err)

	stored, err := sqlite.NewLessonRepository(conn).Problems(ctx, lessonID)
	require.NoError(t, err)
	require.Len(t, stored, len(xp))

	f := Fixture{LessonID: lessonID}
	for _, p := range stored {
		f.Problems = append(f.Problems, p.ID)
		for _, o := range p.Options {
			if o.IsCorrect {
				f.Correct = append(f.Correct, o.ID)
			} else {
				f.Wrong = append(f.Wrong, o.ID)
			}
		}
	}
	return f
}
