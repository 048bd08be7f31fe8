package models

import "time"

type User struct {
	ID               int64      `json:"id"`
	Username         string     `json:"username"`
	Email            *string    `json:"email"`
	TotalXP          int        `json:"total_xp"`
	CurrentStreak    int        `json:"current_streak"`
	LastActivityDate *time.Time `json:"last_activity_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type Profile struct {
	UserID             int64      `json:"user_id"`
	Username           string     `json:"username"`
	TotalXP            int        `json:"total_xp"`
	CurrentStreak      int        `json:"current_streak"`
	LastActivityDate   *time.Time `json:"last_activity_date"`
	ProgressPercentage float64    `json:"progress_percentage"` // across active lessons
	LessonsCompleted   int        `json:"lessons_completed"`
	TotalLessons       int        `json:"total_lessons"`
}
