package relation

import "errors"

// Relation-related errors
var (
	// Validation errors
	ErrInvalidRelationType = errors.New("unknown relation type")
	ErrMissingTarget       = errors.New("target issue is required")
	ErrNoRelations         = errors.New("at least one relation is required")
	ErrSelfRelation        = errors.New("an issue cannot be related to itself")
	ErrCrossWorkspace      = errors.New("issues in different workspaces cannot be related")

	// Business logic errors
	ErrTargetNotFound    = errors.New("target issue not found")
	ErrDuplicateRelation = errors.New("relation already exists")
	ErrParentExists      = errors.New("issue already has a parent")
	ErrCircularRelation  = errors.New("circular parent relation detected")
)
