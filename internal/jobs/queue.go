package jobs

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	// EnqueueRecompute schedules a progress recompute without blocking.
	EnqueueRecompute(userID, lessonID int64) error
}
