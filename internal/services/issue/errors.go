package issue

import "errors"

// Issue-related errors
var (
	// Validation errors
	ErrEmptyUpdate     = errors.New("update changes nothing")
	ErrEmptyTitle      = errors.New("issue title cannot be empty")
	ErrTitleTooLong    = errors.New("issue title cannot exceed 255 characters")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidType     = errors.New("invalid issue type")
	ErrInvalidPosition = errors.New("invalid position: must be >= 0")

	// Business logic errors
	ErrUnknownStatus   = errors.New("status does not exist in the issue's project")
	ErrUnknownAssignee = errors.New("assignee does not exist")
	ErrVersionConflict = errors.New("issue was changed by someone else, reload and try again")
)
