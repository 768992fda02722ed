package status

import "errors"

// Status-related errors
var (
	ErrEmptyOrder     = errors.New("status order cannot be empty")
	ErrNotPermutation = errors.New("status order must list every status of the project exactly once")
)
