package api

import (
	"net/http"

	"github.com/vytor/ezexam/internal/errors"
	"github.com/vytor/ezexam/internal/logger"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	writeError(w, appErr)
}

// writeError never exposes the wrapped cause.
func writeError(w http.ResponseWriter, appErr *errors.AppError) {
	writeJSON(w, appErr.Status, map[string]errorBody{
		"error": {Code: appErr.Code, Message: appErr.Message, Details: appErr.Details},
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handleError(w, r, &errors.AppError{Code: errors.ErrCodeNotFound, Message: "route not found", Status: http.StatusNotFound})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	handleError(w, r, &errors.AppError{Code: errors.ErrCodeBadRequest, Message: "method not allowed", Status: http.StatusMethodNotAllowed})
}
