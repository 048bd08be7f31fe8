package services

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vytor/ezexam/internal/errors"
	"github.com/vytor/ezexam/internal/logger"
	"github.com/vytor/ezexam/internal/models"
	"github.com/vytor/ezexam/internal/progress"
	"github.com/vytor/ezexam/internal/repository"
)

// ProgressService maintains the per-lesson progress cache derived from the
// attempt ledger.
type ProgressService interface {
	// Recompute is idempotent: the same ledger state always yields the same
	// percentage and completion flag.
	Recompute(ctx context.Context, userID, lessonID int64) error
	ReconcileAll(ctx context.Context, opts ReconcileOptions) (*ReconcileReport, error)
}

type ReconcileOptions struct {
	// Concurrency bounds the recompute fan-out. Values below 1 mean 1.
	Concurrency int
	// RepairXP also resets every user's total_xp to the ledger sum.
	RepairXP bool
}

type ReconcileReport struct {
	Recomputed  int `json:"recomputed"`
	Failed      int `json:"failed"`
	UsersRepair int `json:"users_repaired"`
}

type progressService struct {
	progressRepo repository.ProgressRepository
	ledger       repository.AttemptLedger
	userRepo     repository.UserRepository
	now          func() time.Time
}

// NewProgressService creates a new ProgressService. now defaults to time.Now.
func NewProgressService(progressRepo repository.ProgressRepository, ledger repository.AttemptLedger, userRepo repository.UserRepository, now func() time.Time) ProgressService {
	if now == nil {
		now = time.Now
	}
	return &progressService{progressRepo: progressRepo, ledger: ledger, userRepo: userRepo, now: now}
}

func (s *progressService) Recompute(ctx context.Context, userID, lessonID int64) error {
	log := logger.FromContext(ctx)
	key := models.ProgressKey{UserID: userID, LessonID: lessonID}
	now := s.now()

	p, err := s.progressRepo.Recompute(ctx, key, func(prev *models.Progress, correct, total int) models.Progress {
		return progress.Apply(prev, key, correct, total, now)
	})
	if err != nil {
		log.Error("failed to recompute progress for user_id=%d lesson_id=%d: %v", userID, lessonID, err)
		return errors.NewInternalError(err)
	}
	log.Debug("progress recomputed: user_id=%d lesson_id=%d pct=%d", userID, lessonID, p.CompletionPercentage)
	return nil
}

func (s *progressService) ReconcileAll(ctx context.Context, opts ReconcileOptions) (*ReconcileReport, error) {
	log := logger.FromContext(ctx)
	log.Info("reconciling progress (repair_xp=%t)", opts.RepairXP)

	keys, err := s.ledger.Keys(ctx)
	if err != nil {
		log.Error("failed to list ledger keys: %v", err)
		return nil, errors.NewInternalError(err)
	}

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	var recomputed, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := s.Recompute(gctx, key.UserID, key.LessonID); err != nil {
				failed.Add(1)
				return nil
			}
			recomputed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.NewInternalError(err)
	}

	report := &ReconcileReport{Recomputed: int(recomputed.Load()), Failed: int(failed.Load())}

	if opts.RepairXP {
		ids, err := s.userRepo.ListIDs(ctx)
		if err != nil {
			log.Error("failed to list users: %v", err)
			return nil, errors.NewInternalError(err)
		}
		for _, id := range ids {
			total, err := s.userRepo.RebuildStats(ctx, id)
			if err != nil {
				log.Error("failed to rebuild stats for user_id=%d: %v", id, err)
				report.Failed++
				continue
			}
			log.Debug("user_id=%d total_xp=%d", id, total)
			report.UsersRepair++
		}
	}

	log.Info("reconcile done: recomputed=%d failed=%d users_repaired=%d", report.Recomputed, report.Failed, report.UsersRepair)
	return report, nil
}
