// Package errors provides the typed error taxonomy of the spendbook API.
// Every service-layer failure is an *AppError so handlers can map it to an
// HTTP status without leaking internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches two AppErrors by code, so wrapped copies of a sentinel still
// satisfy errors.Is(err, ErrUserNotFound).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Kind classifies an error into the coarse taxonomy used by callers that do
// not care about the specific code.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation"
	KindPersistence  Kind = "persistence"
)

// KindOf returns the taxonomy bucket of an AppError based on its status.
func KindOf(err *AppError) Kind {
	switch err.StatusCode {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusBadRequest:
		return KindValidation
	default:
		return KindPersistence
	}
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Incorrect password", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken       = &AppError{Code: "INVALID_TOKEN", Message: "Identity token could not be verified", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "User already exists with this email", StatusCode: http.StatusConflict}
)

// Ledger errors.
var (
	ErrExpenseNotFound    = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Data not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategory  = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A record for this category was created concurrently", StatusCode: http.StatusConflict}
	ErrMemberDataNotFound = &AppError{Code: "DATA_NOT_FOUND", Message: "Data not found in the member's category", StatusCode: http.StatusNotFound}
)

// Group errors.
var (
	ErrGroupNotFound     = &AppError{Code: "GROUP_NOT_FOUND", Message: "Group not found", StatusCode: http.StatusNotFound}
	ErrDuplicateGroup    = &AppError{Code: "DUPLICATE_GROUP", Message: "Group name already exists", StatusCode: http.StatusConflict}
	ErrBadGroupPassword  = &AppError{Code: "BAD_GROUP_PASSWORD", Message: "Entered wrong group password", StatusCode: http.StatusUnauthorized}
	ErrMemberNotFound    = &AppError{Code: "MEMBER_NOT_FOUND", Message: "Member not found in the group", StatusCode: http.StatusNotFound}
	ErrBadMemberPassword = &AppError{Code: "BAD_MEMBER_PASSWORD", Message: "Entered wrong member password", StatusCode: http.StatusUnauthorized}
	ErrDuplicateMember   = &AppError{Code: "DUPLICATE_MEMBER", Message: "A member with this name joined concurrently", StatusCode: http.StatusConflict}
)
