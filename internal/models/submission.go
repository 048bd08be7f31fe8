package models

import "time"

// Submission is one immutable ledger row: a scored answer within an attempt.
type Submission struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ProblemID   int64     `json:"problem_id"`
	AttemptID   string    `json:"attempt_id"`
	OptionID    int64     `json:"option_id"`
	IsCorrect   bool      `json:"is_correct"`
	XPEarned    int       `json:"xp_earned"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type Answer struct {
	ProblemID int64 `json:"problem_id"`
	OptionID  int64 `json:"option_id"`
}

type AnswerResult struct {
	ProblemID int64 `json:"problem_id"`
	IsCorrect bool  `json:"is_correct"`
	XPEarned  int   `json:"xp_earned"`
}

type SubmissionRequest struct {
	AttemptID string   `json:"attempt_id"`
	Answers   []Answer `json:"answers"`
}

type SingleSubmissionRequest struct {
	AttemptID string `json:"attempt_id"`
	Answer    Answer `json:"answer"`
}

// Batch turns a single-answer request into a batch of size one.
func (r SingleSubmissionRequest) Batch() SubmissionRequest {
	return SubmissionRequest{AttemptID: r.AttemptID, Answers: []Answer{r.Answer}}
}

type SubmissionResponse struct {
	Success         bool           `json:"success"`
	Message         string         `json:"message"`
	Results         []AnswerResult `json:"results"`
	TotalXPEarned   int            `json:"total_xp_earned"`
	NewTotalXP      int            `json:"new_total_xp"`
	CurrentStreak   int            `json:"current_streak"`
	StreakIncreased bool           `json:"streak_increased"`
}
