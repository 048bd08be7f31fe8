package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error codes
const (
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Details any    // Structured payload for the client (offending ids, field errors)
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusUnprocessableEntity,
		Details: map[string]string{field: reason},
	}
}

// FieldErrors collects request validation failures so they can be reported
// together instead of one at a time.
type FieldErrors map[string]string

func (f FieldErrors) Add(field, reason string) {
	if _, ok := f[field]; !ok {
		f[field] = reason
	}
}

// Err returns nil when no field failed.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	fields := make([]string, 0, len(f))
	for k := range f {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s", strings.Join(fields, ", ")),
		Status:  http.StatusUnprocessableEntity,
		Details: map[string]string(f),
	}
}

// InvalidReference lists ids that do not belong where the caller put them.
type InvalidReference struct {
	Kind string  `json:"kind"`
	IDs  []int64 `json:"ids"`
}

// NewInvalidReferenceError reports every offending id of the given kind
// ("problem" or "option") in one error.
func NewInvalidReferenceError(refs ...InvalidReference) *AppError {
	parts := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids := make([]string, len(ref.IDs))
		for i, id := range ref.IDs {
			ids[i] = fmt.Sprint(id)
		}
		parts = append(parts, fmt.Sprintf("invalid %s ids [%s]", ref.Kind, strings.Join(ids, ", ")))
	}
	return &AppError{
		Code:    ErrCodeValidation,
		Message: strings.Join(parts, "; "),
		Status:  http.StatusUnprocessableEntity,
		Details: refs,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewRetryableError is an internal error whose cause was a busy or locked
// store. Nothing was written, so the same request can be sent again.
func NewRetryableError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "temporarily unavailable, please retry",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err carries an AppError with the given code.
func IsCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
