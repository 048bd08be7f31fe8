package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/ezexam/internal/models"
	"github.com/vytor/ezexam/internal/repository"
	"github.com/vytor/ezexam/internal/repository/sqlite"
	"github.com/vytor/ezexam/internal/testutil"
)

type LedgerRepositorySuite struct {
	suite.Suite
	db     *sql.DB
	ledger repository.AttemptLedger
	users  repository.UserRepository
	userID int64
	lesson testutil.Fixture
}

func (s *LedgerRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.ledger = sqlite.NewAttemptLedger(s.db)
	s.users = sqlite.NewUserRepository(s.db)
	s.userID = testutil.CreateUser(s.T(), s.db, "learner")
	s.lesson = testutil.CreateLesson(s.T(), s.db, "Sums", 10, 15)
}

func (s *LedgerRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *LedgerRepositorySuite) row(attempt string, i int, correct bool) models.Submission {
	option, xp := s.lesson.Wrong[i], 0
	if correct {
		option, xp = s.lesson.Correct[i], []int{10, 15}[i]
	}
	return models.Submission{
		UserID:      s.userID,
		ProblemID:   s.lesson.Problems[i],
		AttemptID:   attempt,
		OptionID:    option,
		IsCorrect:   correct,
		XPEarned:    xp,
		SubmittedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *LedgerRepositorySuite) TestCommit_WritesRowsAndStats() {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	err := s.ledger.Commit(ctx, func(w repository.LedgerWriter) error {
		u, err := w.User(ctx, s.userID)
		s.Require().NoError(err)
		s.Require().NotNil(u)
		s.Assert().Equal(0, u.TotalXP)

		stored, err := w.InsertSubmissions(ctx, []models.Submission{s.row("a1", 0, true), s.row("a1", 1, true)})
		s.Require().NoError(err)
		s.Assert().NotZero(stored[0].ID)
		s.Assert().Greater(stored[1].ID, stored[0].ID)

		updated, err := w.UpdateUserStats(ctx, s.userID, 25, 1, now)
		s.Require().NoError(err)
		s.Assert().Equal(25, updated.TotalXP)
		s.Assert().Equal(1, updated.CurrentStreak)
		s.Require().NotNil(updated.LastActivityDate)
		s.Assert().True(now.Equal(*updated.LastActivityDate))
		return nil
	})
	s.Require().NoError(err)

	rows, err := s.ledger.FindAttempt(ctx, s.userID, "a1")
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Assert().Equal(s.lesson.Problems[0], rows[0].ProblemID)
	s.Assert().Equal(10, rows[0].XPEarned)

	xp, err := s.ledger.TotalXPAt(ctx, s.userID, rows[1].ID)
	s.Require().NoError(err)
	s.Assert().Equal(25, xp)
	xp, err = s.ledger.TotalXPAt(ctx, s.userID, rows[0].ID)
	s.Require().NoError(err)
	s.Assert().Equal(10, xp)
}

func (s *LedgerRepositorySuite) TestTotalXPAt_StartsFromStoredTotal() {
	ctx := context.Background()
	_, err := s.db.Exec(`UPDATE users SET total_xp = 100 WHERE id = ?`, s.userID)
	s.Require().NoError(err)

	var rows []models.Submission
	s.Require().NoError(s.ledger.Commit(ctx, func(w repository.LedgerWriter) error {
		var err error
		rows, err = w.InsertSubmissions(ctx, []models.Submission{s.row("a1", 0, true)})
		if err != nil {
			return err
		}
		_, err = w.UpdateUserStats(ctx, s.userID, rows[0].XPEarned, 1, time.Now())
		return err
	}))

	xp, err := s.ledger.TotalXPAt(ctx, s.userID, rows[0].ID)
	s.Require().NoError(err)
	s.Assert().Equal(100+rows[0].XPEarned, xp)
}

func (s *LedgerRepositorySuite) TestCommit_RollsBackOnError() {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.ledger.Commit(ctx, func(w repository.LedgerWriter) error {
		_, err := w.InsertSubmissions(ctx, []models.Submission{s.row("a1", 0, true)})
		s.Require().NoError(err)
		_, err = w.UpdateUserStats(ctx, s.userID, 10, 1, time.Now())
		s.Require().NoError(err)
		return boom
	})
	s.Assert().ErrorIs(err, boom)

	rows, err := s.ledger.FindAttempt(ctx, s.userID, "a1")
	s.Require().NoError(err)
	s.Assert().Empty(rows)
	u, err := s.users.Get(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(0, u.TotalXP)
	s.Assert().Nil(u.LastActivityDate)
}

func (s *LedgerRepositorySuite) TestInsertSubmissions_DuplicateIsClassified() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Commit(ctx, func(w repository.LedgerWriter) error {
		_, err := w.InsertSubmissions(ctx, []models.Submission{s.row("a1", 0, true)})
		return err
	}))

	err := s.ledger.Commit(ctx, func(w repository.LedgerWriter) error {
		_, err := w.InsertSubmissions(ctx, []models.Submission{s.row("a1", 0, false)})
		return err
	})
	s.Assert().ErrorIs(err, repository.ErrDuplicateAttempt)
}

func (s *LedgerRepositorySuite) TestKeysListsUserLessonPairs() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Commit(ctx, func(w repository.LedgerWriter) error {
		_, err := w.InsertSubmissions(ctx, []models.Submission{
			s.row("a1", 0, true),
			s.row("a2", 0, true),
			s.row("a3", 0, false),
			s.row("a3", 1, false),
		})
		return err
	}))

	keys, err := s.ledger.Keys(ctx)
	s.Require().NoError(err)
	s.Assert().Equal([]models.ProgressKey{{UserID: s.userID, LessonID: s.lesson.LessonID}}, keys)
}

func (s *LedgerRepositorySuite) TestRebuildStats() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Commit(ctx, func(w repository.LedgerWriter) error {
		_, err := w.InsertSubmissions(ctx, []models.Submission{s.row("a1", 0, true), s.row("a1", 1, true)})
		if err != nil {
			return err
		}
		_, err = w.UpdateUserStats(ctx, s.userID, 999, 3, time.Now())
		return err
	}))

	total, err := s.users.RebuildStats(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(25, total)

	u, err := s.users.Get(ctx, s.userID)
	s.Require().NoError(err)
	s.Assert().Equal(25, u.TotalXP)
	s.Assert().Equal(3, u.CurrentStreak)
}

func TestLedgerRepositorySuite(t *testing.T) {
	suite.Run(t, new(LedgerRepositorySuite))
}
