package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	apperrors "spendbook/internal/errors"
)

func TestWrapKeepsSentinelIdentity(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := apperrors.Wrap(apperrors.ErrInternalServer, cause)

	if !stderrors.Is(err, apperrors.ErrInternalServer) {
		t.Error("wrapped error should match its sentinel")
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if stderrors.Is(err, apperrors.ErrUserNotFound) {
		t.Error("wrapped error must not match an unrelated sentinel")
	}
}

func TestWithMessage(t *testing.T) {
	err := apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")

	if err.Message != "category is required" {
		t.Errorf("expected custom message, got %q", err.Message)
	}
	if err.Code != "INVALID_INPUT" || err.StatusCode != 400 {
		t.Errorf("expected INVALID_INPUT/400, got %s/%d", err.Code, err.StatusCode)
	}
	if apperrors.ErrInvalidInput.Message != "Invalid input" {
		t.Error("WithMessage must not mutate the sentinel")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  *apperrors.AppError
		want apperrors.Kind
	}{
		{apperrors.ErrUserNotFound, apperrors.KindNotFound},
		{apperrors.ErrExpenseNotFound, apperrors.KindNotFound},
		{apperrors.ErrDuplicateCategory, apperrors.KindConflict},
		{apperrors.ErrDuplicateEmail, apperrors.KindConflict},
		{apperrors.ErrBadGroupPassword, apperrors.KindUnauthorized},
		{apperrors.ErrInvalidToken, apperrors.KindUnauthorized},
		{apperrors.ErrInvalidInput, apperrors.KindValidation},
		{apperrors.ErrInternalServer, apperrors.KindPersistence},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			if got := apperrors.KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf(%s) = %s, want %s", tt.err.Code, got, tt.want)
			}
		})
	}
}
