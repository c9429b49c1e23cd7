package engine

import "errors"

// Error taxonomy surfaced across the engine boundary. DuplicateEvent and
// NotFound are well-defined negative results; Storage means the unit of work
// was rolled back and the caller may retry.
var (
	ErrDuplicateEvent = errors.New("duplicate event")
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrStorage        = errors.New("storage failure")
)
