package access

import (
	"errors"
	"strings"
)

// Error taxonomy for access-control operations. Callers classify failures
// with errors.Is; the API layer maps each sentinel to an HTTP status.
var (
	// ErrUnauthorized means no acting user was supplied.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the acting user's resolved permission level is
	// insufficient for the requested mutation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means an inventory, user, share, or grant did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a duplicate share or grant, a self-share or
	// self-grant, or a transfer to the current owner.
	ErrConflict = errors.New("conflict")

	// ErrValidation means a malformed permission level or missing field.
	ErrValidation = errors.New("invalid input")
)

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. Duplicate shares and grants are rejected by unique indexes rather
// than application pre-checks alone, so a lost insert race surfaces here.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
