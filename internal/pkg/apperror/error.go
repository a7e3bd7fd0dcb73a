package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType identifies the category of error
type ErrorType string

const (
	TypeValidation   ErrorType = "validation_error"
	TypeUnauthorized ErrorType = "unauthorized"
	TypeInvalidToken ErrorType = "invalid_token"
	TypeForbidden    ErrorType = "forbidden"
	TypeNotFound     ErrorType = "not_found"
	TypeConflict     ErrorType = "conflict"
	TypeInternal     ErrorType = "internal_error"
	TypeUnavailable  ErrorType = "service_unavailable"
)

const typeBaseURL = "https://messagely.dev/errors/"

// AppError represents RFC 7807 Problem Details
type AppError struct {
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Status    int               `json:"status"`
	Detail    string            `json:"detail"`
	Instance  string            `json:"instance,omitempty"`
	Action    string            `json:"action,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	kind      ErrorType
	err       error // internal error for logging
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Title, e.err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return e.Title
}

func (e *AppError) Unwrap() error {
	return e.err
}

// Kind returns the error category
func (e *AppError) Kind() ErrorType {
	return e.kind
}

func (e *AppError) WithError(err error) *AppError {
	e.err = err
	return e
}

func (e *AppError) WithRequestID(id string) *AppError {
	e.RequestID = id
	return e
}

func (e *AppError) WithErrors(errs map[string]string) *AppError {
	e.Errors = errs
	return e
}

func (e *AppError) WithInstance(instance string) *AppError {
	e.Instance = instance
	return e
}

func newError(kind ErrorType, slug, title string, status int, detail, action string) *AppError {
	return &AppError{
		Type:   typeBaseURL + slug,
		Title:  title,
		Status: status,
		Detail: detail,
		Action: action,
		kind:   kind,
	}
}

func ValidationError(detail, action string) *AppError {
	return newError(TypeValidation, "validation", "Invalid request", http.StatusBadRequest, detail, action)
}

// UnauthorizedError covers bad credentials and bad or spent recovery codes
func UnauthorizedError(detail, action string) *AppError {
	return newError(TypeUnauthorized, "unauthorized", "Unauthorized", http.StatusUnauthorized, detail, action)
}

// InvalidTokenError is returned when a bearer token fails verification
func InvalidTokenError(detail string) *AppError {
	return newError(TypeInvalidToken, "invalid-token", "Invalid token", http.StatusUnauthorized, detail, "Log in again to obtain a new token")
}

func ForbiddenError(detail, action string) *AppError {
	return newError(TypeForbidden, "forbidden", "Forbidden", http.StatusForbidden, detail, action)
}

func NotFoundError(resource string) *AppError {
	return newError(TypeNotFound, "not-found", "Not found", http.StatusNotFound,
		fmt.Sprintf("%s not found", resource), "Check the identifier and try again")
}

func ConflictError(detail, action string) *AppError {
	return newError(TypeConflict, "conflict", "Conflict", http.StatusConflict, detail, action)
}

func InternalError(detail, action string) *AppError {
	return newError(TypeInternal, "internal", "Internal server error", http.StatusInternalServerError, detail, action)
}

func ServiceUnavailableError(detail, action string) *AppError {
	return newError(TypeUnavailable, "service-unavailable", "Service unavailable", http.StatusServiceUnavailable, detail, action)
}

// Is reports whether err carries an AppError of the given kind
func Is(err error, kind ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.kind == kind
	}
	return false
}
