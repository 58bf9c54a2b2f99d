package service

import (
	"github.com/prperemyshlev/videotube/internal/apperror"
	"github.com/prperemyshlev/videotube/internal/domain"
)

// AuthorizeOwner allows the operation only when callerID owns resource.
// Callers load the resource first and report a missing one as NotFound.
func AuthorizeOwner(resource domain.Owned, callerID string) error {
	if resource == nil {
		return apperror.Forbidden("You are not allowed to modify this resource")
	}

	owner := resource.OwnerID()
	if owner == "" || callerID == "" || owner != callerID {
		return apperror.Forbidden("You are not allowed to modify this resource")
	}

	return nil
}
