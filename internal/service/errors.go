package service

import (
	"errors"

	"github.com/prperemyshlev/videotube/internal/apperror"
	"github.com/prperemyshlev/videotube/internal/repository"
)

// notFoundOr maps repository.ErrNotFound to a NotFound error with message and
// anything else to an Internal error.
func notFoundOr(err error, message, internalMessage string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(message)
	}
	return apperror.Internal(internalMessage, err)
}
