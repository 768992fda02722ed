package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Art-of-Technology/collab/internal/models"
	relationservice "github.com/Art-of-Technology/collab/internal/services/relation"
	"github.com/labstack/echo/v4"
)

// ReorderRequest is the body of PATCH /api/projects/:id/statuses/reorder
type ReorderRequest struct {
	StatusIDs []string `json:"statusIds"`
}

// ============================================================================
// RELATIONS
// ============================================================================

func (s *Server) handleGetRelations(c echo.Context) error {
	rels, err := s.app.RelationService.GetRelations(c.Request().Context(), c.Param("ws"), c.Param("key"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rels)
}

func (s *Server) handleAddRelations(c echo.Context) error {
	var inputs []models.RelationInput
	if err := c.Bind(&inputs); err != nil {
		s.logger.Warn("invalid relation request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	rels, err := s.app.RelationService.AddRelations(c.Request().Context(), c.Param("ws"), c.Param("key"), inputs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rels)
}

func (s *Server) handleRemoveRelation(c echo.Context) error {
	err := s.app.RelationService.RemoveRelation(c.Request().Context(), c.Param("ws"), c.Param("key"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSearch(c echo.Context) error {
	req := relationservice.SearchRequest{
		Query:     c.QueryParam("q"),
		Types:     splitList(c.QueryParam("type")),
		ProjectID: c.QueryParam("project"),
		Workspace: c.QueryParam("workspace"),
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		req.Limit = limit
	}

	items, err := s.app.RelationService.Search(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ============================================================================
// ISSUES
// ============================================================================

func (s *Server) handleListIssues(c echo.Context) error {
	issues, err := s.app.IssueService.ListIssues(c.Request().Context(), c.Param("ws"), splitList(c.QueryParam("project")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, issues)
}

func (s *Server) handleGetIssue(c echo.Context) error {
	issue, err := s.app.IssueService.GetIssue(c.Request().Context(), c.Param("ws"), c.Param("key"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, issue)
}

func (s *Server) handleUpdateIssue(c echo.Context) error {
	var update models.IssueUpdate
	if err := c.Bind(&update); err != nil {
		s.logger.Warn("invalid issue update", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	version, err := parseIfMatch(c.Request().Header.Get("If-Match"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "If-Match must be an issue version")
	}
	update.ExpectedVersion = version

	issue, err := s.app.IssueService.UpdateIssue(c.Request().Context(), c.Param("id"), update)
	if err != nil {
		return err
	}
	c.Response().Header().Set("ETag", strconv.Quote(strconv.FormatInt(issue.Version, 10)))
	return c.JSON(http.StatusOK, issue)
}

// parseIfMatch reads a version from an If-Match header. Quoted and weak
// forms are accepted; an empty header means no precondition.
func parseIfMatch(header string) (int64, error) {
	v := strings.TrimSpace(header)
	if v == "" || v == "*" {
		return 0, nil
	}
	v = strings.TrimPrefix(v, "W/")
	v = strings.Trim(v, `"`)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// ============================================================================
// VIEWS
// ============================================================================

func (s *Server) handleListViews(c echo.Context) error {
	views, err := s.app.ViewService.ListViews(c.Request().Context(), c.Param("ws"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) handleGetView(c echo.Context) error {
	view, err := s.app.ViewService.GetView(c.Request().Context(), c.Param("ws"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (s *Server) handleCreateView(c echo.Context) error {
	var v models.View
	if err := c.Bind(&v); err != nil {
		s.logger.Warn("invalid view request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	created, err := s.app.ViewService.CreateView(c.Request().Context(), c.Param("ws"), v)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateView(c echo.Context) error {
	var v models.View
	if err := c.Bind(&v); err != nil {
		s.logger.Warn("invalid view request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	v.ID = c.Param("id")

	updated, err := s.app.ViewService.UpdateView(c.Request().Context(), c.Param("ws"), v)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// ============================================================================
// STATUSES
// ============================================================================

func (s *Server) handleListStatuses(c echo.Context) error {
	statuses, err := s.app.StatusService.ListStatuses(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statuses)
}

func (s *Server) handleReorderStatuses(c echo.Context) error {
	var req ReorderRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid reorder request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	statuses, err := s.app.StatusService.ReorderStatuses(c.Request().Context(), c.Param("id"), req.StatusIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statuses)
}

// splitList parses a comma separated query value, dropping blanks
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
