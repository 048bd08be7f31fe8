package jobs

import (
	"errors"
	"fmt"

	"github.com/vytor/ezexam/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	recomputePool *worker.Pool
	progress      worker.ProgressRecomputer
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(recomputePool *worker.Pool, progress worker.ProgressRecomputer) *WorkerQueue {
	return &WorkerQueue{recomputePool: recomputePool, progress: progress}
}

// EnqueueRecompute never blocks. A full queue is reported with its depth.
func (q *WorkerQueue) EnqueueRecompute(userID, lessonID int64) error {
	err := q.recomputePool.TrySubmit(&worker.RecomputeProgressJob{
		Progress: q.progress,
		UserID:   userID,
		LessonID: lessonID,
	})
	if errors.Is(err, worker.ErrQueueFull) {
		return fmt.Errorf("%w (%d retries pending)", err, q.recomputePool.QueueSize())
	}
	return err
}
