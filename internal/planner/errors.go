package planner

import "errors"

var (
	// ErrValidation is returned when required fields are missing or malformed
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when an operation references an absent id
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when starting a session while one is active
	ErrConflict = errors.New("conflict")
	// ErrState is returned when stopping with no active session
	ErrState = errors.New("invalid state")
	// ErrImport is returned when an import document cannot be parsed
	ErrImport = errors.New("import failed")
)

// errUnchanged lets a mutation report that nothing happened
var errUnchanged = errors.New("unchanged")
