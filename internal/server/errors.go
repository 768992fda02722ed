package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Art-of-Technology/collab/internal/models"
	issueservice "github.com/Art-of-Technology/collab/internal/services/issue"
	relationservice "github.com/Art-of-Technology/collab/internal/services/relation"
	statusservice "github.com/Art-of-Technology/collab/internal/services/status"
	viewservice "github.com/Art-of-Technology/collab/internal/services/view"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error string `json:"error"`
}

const internalErrorMessage = "internal server error"

var (
	notFoundErrors = []error{
		models.ErrNotFound,
		relationservice.ErrTargetNotFound,
	}
	conflictErrors = []error{
		models.ErrConflict,
		relationservice.ErrDuplicateRelation,
		issueservice.ErrVersionConflict,
		viewservice.ErrVersionConflict,
	}
	badRequestErrors = []error{
		models.ErrInvalidInput,
		relationservice.ErrInvalidRelationType,
		relationservice.ErrMissingTarget,
		relationservice.ErrNoRelations,
		relationservice.ErrSelfRelation,
		relationservice.ErrCrossWorkspace,
		relationservice.ErrParentExists,
		relationservice.ErrCircularRelation,
		issueservice.ErrEmptyUpdate,
		issueservice.ErrEmptyTitle,
		issueservice.ErrTitleTooLong,
		issueservice.ErrInvalidPriority,
		issueservice.ErrInvalidType,
		issueservice.ErrInvalidPosition,
		issueservice.ErrUnknownStatus,
		issueservice.ErrUnknownAssignee,
		viewservice.ErrEmptyName,
		viewservice.ErrNameTooLong,
		viewservice.ErrInvalidDisplayType,
		viewservice.ErrInvalidGrouping,
		viewservice.ErrInvalidSortField,
		viewservice.ErrInvalidDirection,
		viewservice.ErrInvalidFilter,
		viewservice.ErrMissingVersion,
		statusservice.ErrEmptyOrder,
		statusservice.ErrNotPermutation,
	}
)

// statusFor maps a service error to an HTTP status code. Conflicts are
// checked first since version conflicts wrap the store's conflict error.
func statusFor(err error) int {
	switch {
	case isAny(err, conflictErrors):
		return http.StatusConflict
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// handleError writes every failure as {"error": message}. Unmapped errors
// are logged and answered with a generic message.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := statusFor(err)
	msg := err.Error()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	} else if code == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
		msg = internalErrorMessage
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{Error: msg})
	}
	if err != nil {
		s.logger.Error("failed to write error response", "error", err)
	}
}
