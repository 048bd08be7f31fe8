package api

import (
	"net/http"

	"github.com/vytor/ezexam/internal/logger"
	"github.com/vytor/ezexam/internal/models"
)

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	lessons, err := s.LessonService.ListLessons(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if lessons == nil {
		lessons = []models.LessonWithProgress{}
	}
	writeJSON(w, http.StatusOK, lessons)
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("fetching lesson detail: id=%d", id)

	detail, err := s.LessonService.GetLesson(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFromContext(r.Context())

	profile, err := s.ProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
