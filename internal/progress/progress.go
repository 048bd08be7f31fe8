// Package progress derives per-lesson completion from ledger counts.
package progress

import (
	"time"

	"github.com/vytor/ezexam/internal/models"
)

// Percentage is floor(correct/total*100), clamped to [0, 100]. An empty
// lesson is 0% complete.
func Percentage(correct, total int) int {
	if total <= 0 || correct <= 0 {
		return 0
	}
	if correct >= total {
		return 100
	}
	return correct * 100 / total
}

// Apply folds a fresh (correct, total) count into the previous progress row
// for key, or into a new row when prev is nil. CompletedAt is set the first
// time the lesson reaches 100% and is never moved or cleared afterwards.
func Apply(prev *models.Progress, key models.ProgressKey, correct, total int, now time.Time) models.Progress {
	var p models.Progress
	if prev != nil {
		p = *prev
	}
	p.UserID = key.UserID
	p.LessonID = key.LessonID

	p.CompletionPercentage = Percentage(correct, total)
	p.IsCompleted = p.CompletionPercentage == 100
	accessed := now
	p.LastAccessedAt = &accessed

	if p.IsCompleted && p.CompletedAt == nil {
		completed := now
		p.CompletedAt = &completed
	}
	return p
}
