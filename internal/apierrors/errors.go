package apierrors

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("missing required fields")
	ErrInvalidBody = errors.New("invalid request body")

	ErrBodyTooLarge = errors.New("request body too large")
)

// APIError is the JSON payload written for 4xx/5xx responses.
type APIError struct {
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string) *APIError {
	return &APIError{
		Message: message,
	}
}

func StatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// FromError maps err to the payload the client sees. Internal failures are
// never echoed back.
func FromError(err error) *APIError {
	switch {
	case errors.Is(err, ErrNotFound):
		return NewAPIError("Not found")
	case errors.Is(err, ErrValidation):
		return NewAPIError("Missing required fields")
	case errors.Is(err, ErrInvalidBody):
		return NewAPIError("Invalid request body")
	case errors.Is(err, ErrBodyTooLarge):
		return NewAPIError("Request body too large")
	default:
		return NewAPIError("Internal server error")
	}
}
