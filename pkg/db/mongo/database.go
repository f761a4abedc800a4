package mongo

import (
	"context"
	"errors"

	apperrors "eventbook/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// DatabaseProvider hands repositories a database handle, connecting first
// when needed.
type DatabaseProvider interface {
	Database(ctx context.Context) (*mongo.Database, error)
}

// IsUnavailable reports whether err means the store could not be reached.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if apperrors.IsCode(err, apperrors.CodeUnavailable) {
		return true
	}
	return mongo.IsTimeout(err) ||
		mongo.IsNetworkError(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, ErrDisconnected)
}

// StoreError maps a repository failure to an AppError. Errors that already
// carry an AppError pass through; connectivity failures become Unavailable.
func StoreError(message string, err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if IsUnavailable(err) {
		return apperrors.Unavailable("Database", err)
	}
	return apperrors.Internal(message, err)
}
