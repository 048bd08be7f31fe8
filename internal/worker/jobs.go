package worker

import (
	"context"
	"fmt"
)

// ProgressRecomputer is implemented by the progress service. Declared here
// so this package does not import services.
type ProgressRecomputer interface {
	Recompute(ctx context.Context, userID, lessonID int64) error
}

// RecomputeProgressJob retries a progress recompute that failed inline.
type RecomputeProgressJob struct {
	Progress ProgressRecomputer
	UserID   int64
	LessonID int64
}

func (j *RecomputeProgressJob) Name() string {
	return fmt.Sprintf("recompute_progress:%d:%d", j.UserID, j.LessonID)
}

func (j *RecomputeProgressJob) Run(ctx context.Context) error {
	return j.Progress.Recompute(ctx, j.UserID, j.LessonID)
}
