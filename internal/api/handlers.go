package api

import (
	"context"

	"github.com/vytor/ezexam/internal/services"
)

// HealthChecker reports whether the store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Server struct {
	LessonService     services.LessonService
	SubmissionService services.SubmissionService
	ProfileService    services.ProfileService
	Health            HealthChecker

	// DemoUserID is used when a request carries no X-User-ID header.
	DemoUserID     int64
	AllowedOrigins []string
	Title          string
	Version        string
}
