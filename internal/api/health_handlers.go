package api

import (
	"net/http"

	"github.com/vytor/ezexam/internal/logger"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": s.Title,
		"version": s.Version,
	})
}

// handleHealth is a liveness probe and always answers 200.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": s.Title + " is running",
		"version": s.Version,
	})
}

// handleReady answers 503 while the database is unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.Health != nil {
		if err := s.Health.HealthCheck(r.Context()); err != nil {
			logger.FromContext(r.Context()).Warn("readiness check failed - database: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
