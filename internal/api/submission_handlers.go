package api

import (
	"net/http"

	"github.com/vytor/ezexam/internal/models"
)

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmissionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	s.submit(w, r, req)
}

// handleSubmitSingle accepts one answer and runs it as a batch of one.
func (s *Server) handleSubmitSingle(w http.ResponseWriter, r *http.Request) {
	var req models.SingleSubmissionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	s.submit(w, r, req.Batch())
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, req models.SubmissionRequest) {
	lessonID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	userID, _ := userIDFromContext(r.Context())

	resp, err := s.SubmissionService.Submit(r.Context(), userID, lessonID, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
