package view

import "errors"

// View-related errors
var (
	ErrEmptyName          = errors.New("view name cannot be empty")
	ErrNameTooLong        = errors.New("view name cannot exceed 100 characters")
	ErrInvalidDisplayType = errors.New("invalid display type")
	ErrInvalidGrouping    = errors.New("invalid grouping field")
	ErrInvalidSortField   = errors.New("invalid sort field")
	ErrInvalidDirection   = errors.New("sort direction must be asc or desc")
	ErrInvalidFilter      = errors.New("invalid filter value")
	ErrMissingVersion     = errors.New("view version is required for updates")
	ErrVersionConflict    = errors.New("view was changed by someone else, reload and try again")
)
