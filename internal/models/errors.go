package models

import "errors"

// Domain errors shared by the store, the services and the API client
var (
	// ErrNotFound indicates the requested issue, view, status or relation does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a stale write or a duplicate record
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates a request that failed validation
	ErrInvalidInput = errors.New("invalid input")
)
