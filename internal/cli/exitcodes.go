package cli

import (
	"errors"
	"net/http"

	"github.com/Art-of-Technology/collab/internal/api"
	"github.com/Art-of-Technology/collab/internal/models"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, network errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags, invalid flag combinations,
	// or when the user needs to provide different arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Issue not found, view not found, workspace not found.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Malformed filter expressions or server responses.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Invalid relation types, self relations, invalid view settings,
	// or any case where the server rejects input.
	ExitValidation = 5

	// ExitConflict indicates a stale write or a duplicate record.
	ExitConflict = 6
)

// ExitError carries the exit code a failed command should end the process with
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// Exit wraps err with an exit code
func Exit(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCode returns the process exit code for err
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return classify(err)
}

// classify maps API and domain errors to exit codes
func classify(err error) int {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusNotFound:
			return ExitNotFound
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return ExitValidation
		case http.StatusConflict:
			return ExitConflict
		}
		return ExitError
	}
	switch {
	case errors.Is(err, models.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, models.ErrInvalidInput):
		return ExitValidation
	case errors.Is(err, models.ErrConflict):
		return ExitConflict
	}
	return ExitError
}
