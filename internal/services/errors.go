package services

import (
	"errors"
	"strings"

	"skillswap_backend/internal/repositories"
	"skillswap_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// handleUserError maps user lookups. notFound lets callers pick the domain-specific error.
func handleUserError(err error, notFound *apperrors.AppError) error {
	if errors.Is(err, repositories.ErrUserNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return passOrInternal(err)
}

// passOrInternal keeps AppErrors as they are and wraps anything else.
func passOrInternal(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.InternalError(err)
}

// requireFields returns a validation error listing blank fields.
func requireFields(fields map[string]string) error {
	missing := map[string]string{}
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing[name] = "This field is required"
		}
	}
	if len(missing) > 0 {
		return apperrors.ValidationError(missing)
	}
	return nil
}

func handleVideoError(err error) error {
	if errors.Is(err, repositories.ErrVideoNotFound) {
		return apperrors.ErrVideoNotFound
	}
	return passOrInternal(err)
}
