package services

import (
	"errors"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/storage"
)

// lookupErr maps a store lookup failure to notFound or an internal error.
func lookupErr(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, storage.ErrNotFound) {
		return notFound
	}
	return internalErr(err)
}

// internalErr passes AppErrors through and wraps everything else as
// INTERNAL_ERROR.
func internalErr(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
