package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/querycache"
)

// ReorderRequest is the body of the column reorder endpoint
type ReorderRequest struct {
	StatusIDs []string `json:"statusIds"`
}

func statusesPath(projectID string) string {
	return "/api/projects/" + url.PathEscape(projectID) + "/statuses"
}

// ListStatuses returns a project's board columns in order
func (c *Client) ListStatuses(ctx context.Context, projectID string) ([]models.Status, error) {
	return querycache.Fetch(ctx, c.cache, querycache.Key{"statuses", projectID}, func(ctx context.Context) ([]models.Status, error) {
		var statuses []models.Status
		err := c.do(ctx, http.MethodGet, statusesPath(projectID), nil, nil, nil, &statuses)
		return statuses, err
	})
}

// ReorderStatuses persists the column order of a project
func (c *Client) ReorderStatuses(ctx context.Context, projectID string, statusIDs []string) error {
	err := c.do(ctx, http.MethodPatch, statusesPath(projectID)+"/reorder", nil, ReorderRequest{StatusIDs: statusIDs}, nil, nil)
	c.cache.Invalidate(querycache.Key{"statuses", projectID})
	return err
}
