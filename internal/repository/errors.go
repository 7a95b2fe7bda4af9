// Package repository defines error types that are reused across multiple
// repositories.  Handlers translate these sentinel values into HTTP status
// codes.
package repository

import "errors"

// ErrConflict is returned when an operation cannot proceed because of
// existing state, such as a capture ticket that was already used.  Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
