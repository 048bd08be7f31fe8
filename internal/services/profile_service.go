package services

import (
	"context"
	"math"

	"github.com/vytor/ezexam/internal/errors"
	"github.com/vytor/ezexam/internal/logger"
	"github.com/vytor/ezexam/internal/models"
	"github.com/vytor/ezexam/internal/repository"
)

// ProfileService handles user lookups and the profile summary
type ProfileService interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)
}

type profileService struct {
	userRepo     repository.UserRepository
	lessonRepo   repository.LessonRepository
	progressRepo repository.ProgressRepository
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo repository.UserRepository, lessonRepo repository.LessonRepository, progressRepo repository.ProgressRepository) ProfileService {
	return &profileService{userRepo: userRepo, lessonRepo: lessonRepo, progressRepo: progressRepo}
}

func (s *profileService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}
	return user, nil
}

func (s *profileService) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("building profile: user_id=%d", userID)

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, err := s.lessonRepo.CountActive(ctx)
	if err != nil {
		log.Error("failed to count lessons: %v", err)
		return nil, errors.NewInternalError(err)
	}
	completed, err := s.progressRepo.CountCompletedActive(ctx, userID)
	if err != nil {
		log.Error("failed to count completed lessons: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return &models.Profile{
		UserID:             user.ID,
		Username:           user.Username,
		TotalXP:            user.TotalXP,
		CurrentStreak:      user.CurrentStreak,
		LastActivityDate:   user.LastActivityDate,
		ProgressPercentage: completionRatio(completed, total),
		LessonsCompleted:   completed,
		TotalLessons:       total,
	}, nil
}

// completionRatio is completed/total as a percentage rounded to 2 decimals.
func completionRatio(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}
