package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vytor/ezexam/internal/errors"
	"github.com/vytor/ezexam/internal/jobs"
	"github.com/vytor/ezexam/internal/logger"
	"github.com/vytor/ezexam/internal/models"
	"github.com/vytor/ezexam/internal/repository"
	"github.com/vytor/ezexam/internal/scoring"
	"github.com/vytor/ezexam/internal/streak"
)

const (
	maxAttemptIDLength = 100

	messageProcessed = "Submission processed successfully"
	messageReplayed  = "Submission already processed (idempotent response)"
)

// errReplay aborts the write transaction when the attempt turns out to be
// recorded already.
var errReplay = stderrors.New("attempt already recorded")

// SubmissionService scores answer batches and records them exactly once per
// (user, attempt).
type SubmissionService interface {
	Submit(ctx context.Context, userID, lessonID int64, req models.SubmissionRequest) (*models.SubmissionResponse, error)
}

type SubmissionOptions struct {
	// Location decides which calendar day an activity belongs to.
	Location *time.Location
	Now      func() time.Time
}

type submissionService struct {
	lessonRepo repository.LessonRepository
	userRepo   repository.UserRepository
	ledger     repository.AttemptLedger
	progress   ProgressService
	queue      jobs.JobQueue
	loc        *time.Location
	now        func() time.Time
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(
	lessonRepo repository.LessonRepository,
	userRepo repository.UserRepository,
	ledger repository.AttemptLedger,
	progress ProgressService,
	queue jobs.JobQueue,
	opts SubmissionOptions,
) SubmissionService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &submissionService{
		lessonRepo: lessonRepo,
		userRepo:   userRepo,
		ledger:     ledger,
		progress:   progress,
		queue:      queue,
		loc:        opts.Location,
		now:        opts.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, userID, lessonID int64, req models.SubmissionRequest) (*models.SubmissionResponse, error) {
	req.AttemptID = strings.TrimSpace(req.AttemptID)
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"lesson_id":  lessonID,
		"attempt_id": req.AttemptID,
	})
	ctx = logger.NewContext(ctx, log)
	log.Debug("processing submission with %d answers", len(req.Answers))

	lesson, err := s.lessonRepo.Get(ctx, lessonID)
	if err != nil {
		log.Error("failed to load lesson: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if lesson == nil || !lesson.IsActive {
		return nil, errors.NewNotFoundError("lesson", lessonID)
	}

	if err := validateSubmission(req); err != nil {
		log.Debug("submission rejected: %v", err)
		return nil, err
	}

	recorded, err := s.ledger.FindAttempt(ctx, userID, req.AttemptID)
	if err != nil {
		log.Error("failed to look up attempt: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if len(recorded) > 0 {
		return s.replay(ctx, userID, recorded)
	}

	problems, err := s.lessonRepo.ProblemsByID(ctx, problemIDs(req.Answers))
	if err != nil {
		log.Error("failed to load problems: %v", err)
		return nil, errors.NewInternalError(err)
	}
	results, err := scoring.Score(lessonID, problems, req.Answers)
	if err != nil {
		log.Debug("scoring rejected submission: %v", err)
		return nil, err
	}
	earned := scoring.TotalXP(results)

	now := s.now()
	var (
		user      *models.User
		increased bool
	)
	err = s.ledger.Commit(ctx, func(w repository.LedgerWriter) error {
		if rows, err := w.FindAttempt(ctx, userID, req.AttemptID); err != nil {
			return err
		} else if len(rows) > 0 {
			return errReplay
		}

		current, err := w.User(ctx, userID)
		if err != nil {
			return err
		}
		if current == nil {
			return errors.NewNotFoundError("user", userID)
		}

		var days int
		days, increased = streak.Update(current.CurrentStreak, current.LastActivityDate, now, s.loc)

		if _, err := w.InsertSubmissions(ctx, ledgerRows(userID, req, results, now)); err != nil {
			return err
		}
		user, err = w.UpdateUserStats(ctx, userID, earned, days, now)
		return err
	})
	switch {
	case stderrors.Is(err, errReplay), stderrors.Is(err, repository.ErrDuplicateAttempt):
		log.Info("attempt recorded concurrently, answering as replay")
		recorded, err := s.ledger.FindAttempt(ctx, userID, req.AttemptID)
		if err != nil || len(recorded) == 0 {
			log.Error("failed to load concurrently recorded attempt: %v", err)
			return nil, errors.NewInternalError(fmt.Errorf("load replayed attempt: %w", err))
		}
		return s.replay(ctx, userID, recorded)
	case stderrors.Is(err, repository.ErrTransient):
		log.Warn("store busy, nothing recorded: %v", err)
		return nil, errors.NewRetryableError(err)
	case err != nil:
		if appErr, ok := errors.As(err); ok {
			return nil, appErr
		}
		log.Error("failed to record submission: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("submission recorded: xp_earned=%d total_xp=%d streak=%d", earned, user.TotalXP, user.CurrentStreak)
	s.recompute(ctx, userID, lessonID)

	return &models.SubmissionResponse{
		Success:         true,
		Message:         messageProcessed,
		Results:         results,
		TotalXPEarned:   earned,
		NewTotalXP:      user.TotalXP,
		CurrentStreak:   user.CurrentStreak,
		StreakIncreased: increased,
	}, nil
}

// replay answers from the rows written by the original request. It never
// re-scores and never touches XP or streak.
func (s *submissionService) replay(ctx context.Context, userID int64, recorded []models.Submission) (*models.SubmissionResponse, error) {
	log := logger.FromContext(ctx)
	log.Debug("replaying recorded attempt with %d rows", len(recorded))

	results := make([]models.AnswerResult, len(recorded))
	var last int64
	for i, row := range recorded {
		results[i] = models.AnswerResult{ProblemID: row.ProblemID, IsCorrect: row.IsCorrect, XPEarned: row.XPEarned}
		if row.ID > last {
			last = row.ID
		}
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}
	totalAfter, err := s.ledger.TotalXPAt(ctx, userID, last)
	if err != nil {
		log.Error("failed to compute replayed total: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &models.SubmissionResponse{
		Success:         true,
		Message:         messageReplayed,
		Results:         results,
		TotalXPEarned:   scoring.TotalXP(results),
		NewTotalXP:      totalAfter,
		CurrentStreak:   user.CurrentStreak,
		StreakIncreased: false,
	}, nil
}

// recompute refreshes progress after the commit. Failures never reach the
// caller; a retry is queued instead and reconcile covers dropped retries.
func (s *submissionService) recompute(ctx context.Context, userID, lessonID int64) {
	log := logger.FromContext(ctx)
	err := s.progress.Recompute(ctx, userID, lessonID)
	if err == nil {
		return
	}
	log.Warn("progress recompute failed, scheduling retry: %v", err)
	if s.queue == nil {
		return
	}
	if qerr := s.queue.EnqueueRecompute(userID, lessonID); qerr != nil {
		log.Warn("progress retry dropped: %v", qerr)
	}
}

// validateSubmission reports every malformed field together.
func validateSubmission(req models.SubmissionRequest) error {
	fe := errors.FieldErrors{}
	switch n := utf8.RuneCountInString(req.AttemptID); {
	case n == 0:
		fe.Add("attempt_id", "is required")
	case n > maxAttemptIDLength:
		fe.Add("attempt_id", fmt.Sprintf("must be at most %d characters", maxAttemptIDLength))
	}
	if len(req.Answers) == 0 {
		fe.Add("answers", "must contain at least one answer")
	}
	seen := make(map[int64]bool, len(req.Answers))
	for i, a := range req.Answers {
		if a.ProblemID <= 0 {
			fe.Add(fmt.Sprintf("answers[%d].problem_id", i), "must be a positive id")
		} else if seen[a.ProblemID] {
			fe.Add(fmt.Sprintf("answers[%d].problem_id", i), "answered more than once in this attempt")
		}
		seen[a.ProblemID] = true
		if a.OptionID <= 0 {
			fe.Add(fmt.Sprintf("answers[%d].option_id", i), "must be a positive id")
		}
	}
	return fe.Err()
}

func problemIDs(answers []models.Answer) []int64 {
	ids := make([]int64, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.ProblemID)
	}
	return ids
}

func ledgerRows(userID int64, req models.SubmissionRequest, results []models.AnswerResult, now time.Time) []models.Submission {
	rows := make([]models.Submission, len(results))
	for i, r := range results {
		rows[i] = models.Submission{
			UserID:      userID,
			ProblemID:   r.ProblemID,
			AttemptID:   req.AttemptID,
			OptionID:    req.Answers[i].OptionID,
			IsCorrect:   r.IsCorrect,
			XPEarned:    r.XPEarned,
			SubmittedAt: now,
		}
	}
	return rows
}
