package models

import "time"

// Progress is the cached per-(user, lesson) completion aggregate. The ledger
// is the source of truth; this row can always be recomputed from it.
type Progress struct {
	ID                   int64      `json:"id"`
	UserID               int64      `json:"user_id"`
	LessonID             int64      `json:"lesson_id"`
	IsCompleted          bool       `json:"is_completed"`
	CompletionPercentage int        `json:"completion_percentage"`
	LastAccessedAt       *time.Time `json:"last_accessed_at"`
	CompletedAt          *time.Time `json:"completed_at"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// ProgressKey identifies one progress row.
type ProgressKey struct {
	UserID   int64
	LessonID int64
}
