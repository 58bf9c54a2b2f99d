package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateUsername is returned when the username is already taken
	ErrDuplicateUsername = errors.New("user with this username already exists")

	// ErrDuplicateEmail is returned when trying to create a user with an existing email
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrStaleRefreshToken is returned when the stored refresh token no longer
	// matches the one a rotation started from
	ErrStaleRefreshToken = errors.New("refresh token was rotated or revoked")
)

const uniqueViolation = "23505"

// uniqueConstraint returns the violated constraint name, or "" if err is not
// a unique violation.
func uniqueConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint
	}
	return ""
}
