package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/ezexam/internal/worker"
)

type countingJob struct {
	runs *atomic.Int32
	err  error
}

func (j countingJob) Name() string { return "counting" }

func (j countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return j.err
}

type panicJob struct{}

func (panicJob) Name() string              { return "panic" }
func (panicJob) Run(context.Context) error { panic("boom") }

func TestPool_RunsQueuedJobsBeforeStop(t *testing.T) {
	var runs atomic.Int32
	pool := worker.NewPool(2, 8)
	pool.Start(context.Background())

	for i := 0; i < 5; i++ {
		require.NoError(t, pool.TrySubmit(countingJob{runs: &runs}))
	}
	require.NoError(t, pool.TrySubmit(countingJob{runs: &runs, err: errors.New("fails")}))
	require.NoError(t, pool.TrySubmit(panicJob{}))
	pool.Stop()

	assert.Equal(t, int32(6), runs.Load())
	assert.ErrorIs(t, pool.TrySubmit(countingJob{runs: &runs}), worker.ErrStopped)
	pool.Stop()
}

func TestPool_TrySubmitReportsFullQueue(t *testing.T) {
	var runs atomic.Int32
	pool := worker.NewPool(1, 1)

	require.NoError(t, pool.TrySubmit(countingJob{runs: &runs}))
	assert.Equal(t, 1, pool.QueueSize())
	assert.ErrorIs(t, pool.TrySubmit(countingJob{runs: &runs}), worker.ErrQueueFull)

	pool.Start(context.Background())
	pool.Stop()
	assert.Equal(t, int32(1), runs.Load())
}

type fakeRecomputer struct {
	user, lesson int64
}

func (f *fakeRecomputer) Recompute(_ context.Context, userID, lessonID int64) error {
	f.user, f.lesson = userID, lessonID
	return nil
}

func TestRecomputeProgressJob(t *testing.T) {
	rec := &fakeRecomputer{}
	job := &worker.RecomputeProgressJob{Progress: rec, UserID: 3, LessonID: 9}

	assert.Equal(t, "recompute_progress:3:9", job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, int64(3), rec.user)
	assert.Equal(t, int64(9), rec.lesson)
}
