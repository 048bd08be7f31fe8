package models

import "time"

type Lesson struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	OrderIndex  int       `json:"order_index"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Problem belongs to exactly one lesson. Options are ordered by OrderIndex.
type Problem struct {
	ID          int64    `json:"id"`
	LessonID    int64    `json:"lesson_id"`
	Question    string   `json:"question"`
	ProblemType string   `json:"problem_type"`
	XPValue     int      `json:"xp_value"`
	OrderIndex  int      `json:"order_index"`
	Options     []Option `json:"options"`
}

// Option carries the correctness flag used for scoring. It must never be
// serialized to clients as-is; see OptionView.
type Option struct {
	ID         int64  `json:"id"`
	ProblemID  int64  `json:"problem_id"`
	OptionText string `json:"option_text"`
	OrderIndex int    `json:"order_index"`
	IsCorrect  bool   `json:"-"`
}

type ProgressStatus struct {
	IsCompleted          bool `json:"is_completed"`
	CompletionPercentage int  `json:"completion_percentage"`
}

type LessonWithProgress struct {
	Lesson
	ProgressStatus ProgressStatus `json:"progress_status"`
}

type OptionView struct {
	ID         int64  `json:"id"`
	OptionText string `json:"option_text"`
	OrderIndex int    `json:"order_index"`
}

type ProblemView struct {
	ID          int64        `json:"id"`
	Question    string       `json:"question"`
	ProblemType string       `json:"problem_type"`
	XPValue     int          `json:"xp_value"`
	OrderIndex  int          `json:"order_index"`
	Options     []OptionView `json:"options"`
}

// LessonDetail is the answer-free projection of a lesson.
type LessonDetail struct {
	Lesson
	Problems []ProblemView `json:"problems"`
}
