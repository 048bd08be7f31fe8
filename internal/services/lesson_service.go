package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/vytor/ezexam/internal/errors"
	"github.com/vytor/ezexam/internal/logger"
	"github.com/vytor/ezexam/internal/models"
	"github.com/vytor/ezexam/internal/repository"
)

// LessonService serves the read-only catalog projections
type LessonService interface {
	ListLessons(ctx context.Context, userID int64) ([]models.LessonWithProgress, error)
	GetLesson(ctx context.Context, lessonID int64) (*models.LessonDetail, error)
}

type lessonService struct {
	lessonRepo   repository.LessonRepository
	progressRepo repository.ProgressRepository
	// catalog collapses identical concurrent catalog reads. Results are
	// shared between callers and must not be mutated.
	catalog singleflight.Group
}

// NewLessonService creates a new LessonService
func NewLessonService(lessonRepo repository.LessonRepository, progressRepo repository.ProgressRepository) LessonService {
	return &lessonService{lessonRepo: lessonRepo, progressRepo: progressRepo}
}

func (s *lessonService) ListLessons(ctx context.Context, userID int64) ([]models.LessonWithProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing lessons for user_id=%d", userID)

	v, err, _ := s.catalog.Do("lessons:active", func() (any, error) {
		return s.lessonRepo.ListActive(context.WithoutCancel(ctx))
	})
	if err != nil {
		log.Error("failed to list lessons: %v", err)
		return nil, errors.NewInternalError(err)
	}
	lessons := v.([]models.Lesson)

	rows, err := s.progressRepo.ListForUser(ctx, userID)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	byLesson := make(map[int64]models.Progress, len(rows))
	for _, p := range rows {
		byLesson[p.LessonID] = p
	}

	out := make([]models.LessonWithProgress, 0, len(lessons))
	for _, l := range lessons {
		entry := models.LessonWithProgress{Lesson: l}
		if p, ok := byLesson[l.ID]; ok {
			entry.ProgressStatus = models.ProgressStatus{
				IsCompleted:          p.IsCompleted,
				CompletionPercentage: p.CompletionPercentage,
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *lessonService) GetLesson(ctx context.Context, lessonID int64) (*models.LessonDetail, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting lesson: id=%d", lessonID)

	v, err, _ := s.catalog.Do(fmt.Sprintf("lesson:%d", lessonID), func() (any, error) {
		// Shared with other callers, so one client going away must not fail them.
		ctx := context.WithoutCancel(ctx)
		lesson, err := s.lessonRepo.Get(ctx, lessonID)
		if err != nil || lesson == nil || !lesson.IsActive {
			return nil, err
		}
		problems, err := s.lessonRepo.Problems(ctx, lessonID)
		if err != nil {
			return nil, err
		}
		return newLessonDetail(*lesson, problems), nil
	})
	if err != nil {
		log.Error("failed to get lesson: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if v == nil {
		return nil, errors.NewNotFoundError("lesson", lessonID)
	}
	detail := v.(models.LessonDetail)
	return &detail, nil
}

// newLessonDetail drops every answer-revealing field.
func newLessonDetail(lesson models.Lesson, problems []models.Problem) models.LessonDetail {
	detail := models.LessonDetail{Lesson: lesson, Problems: make([]models.ProblemView, 0, len(problems))}
	for _, p := range problems {
		view := models.ProblemView{
			ID:          p.ID,
			Question:    p.Question,
			ProblemType: p.ProblemType,
			XPValue:     p.XPValue,
			OrderIndex:  p.OrderIndex,
			Options:     make([]models.OptionView, 0, len(p.Options)),
		}
		for _, o := range p.Options {
			view.Options = append(view.Options, models.OptionView{ID: o.ID, OptionText: o.OptionText, OrderIndex: o.OrderIndex})
		}
		detail.Problems = append(detail.Problems, view)
	}
	return detail
}
