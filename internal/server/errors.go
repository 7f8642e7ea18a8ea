package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// APIError is the error body returned by every endpoint.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// ErrorResponse wraps an APIError with the success flag.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *APIError `json:"error"`
}

func (e *ErrorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.Error.StatusCode)
	return nil
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newError(status int, code, msg string, details any) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: msg, Details: details}
}

func badRequest(err error) *APIError {
	return newError(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

func invalidInput(err error) *APIError {
	return newError(http.StatusBadRequest, "MALFORMED_INPUT", "Input could not be parsed", err.Error())
}

func validationFailed(field, msg string) *APIError {
	return newError(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed",
		[]FieldError{{Field: field, Message: msg}})
}

// validationErrors flattens validator output into field errors.
func validationErrors(err error) *APIError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return badRequest(err)
	}
	fields := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, FieldError{Field: fe.Field(), Message: "failed on " + fe.Tag()})
	}
	return newError(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", fields)
}

var (
	errTooLarge    = newError(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Upload exceeds the size limit", nil)
	errRateLimited = newError(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded", nil)
	errNotFound    = newError(http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
)

func internalError(err error) *APIError {
	return newError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", err.Error())
}

func writeError(w http.ResponseWriter, r *http.Request, e *APIError) {
	_ = render.Render(w, r, &ErrorResponse{Success: false, Error: e})
}
