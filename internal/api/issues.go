package api

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/querycache"
)

// ListIssues returns the workspace's issues, optionally limited to projects
func (c *Client) ListIssues(ctx context.Context, projectIDs ...string) ([]models.Issue, error) {
	ids := slices.Clone(projectIDs)
	slices.Sort(ids)
	key := querycache.Key{"issues", c.workspace, strings.Join(ids, ",")}

	return querycache.Fetch(ctx, c.cache, key, func(ctx context.Context) ([]models.Issue, error) {
		var q url.Values
		if len(ids) > 0 {
			q = url.Values{"project": {strings.Join(ids, ",")}}
		}
		var issues []models.Issue
		err := c.do(ctx, http.MethodGet, c.workspacePath("issues"), q, nil, nil, &issues)
		return issues, err
	})
}

// GetIssue fetches one issue by key
func (c *Client) GetIssue(ctx context.Context, issueKey string) (*models.Issue, error) {
	return querycache.Fetch(ctx, c.cache, querycache.Key{"issue", c.workspace, issueKey}, func(ctx context.Context) (*models.Issue, error) {
		var issue models.Issue
		if err := c.do(ctx, http.MethodGet, c.workspacePath("issues", issueKey), nil, nil, nil, &issue); err != nil {
			return nil, err
		}
		return &issue, nil
	})
}

// UpdateIssue applies a partial update. A non-zero ExpectedVersion is sent
// as If-Match and the server answers 409 when it is stale.
func (c *Client) UpdateIssue(ctx context.Context, issueID string, update models.IssueUpdate) (*models.Issue, error) {
	var header http.Header
	if update.ExpectedVersion > 0 {
		header = http.Header{"If-Match": {strconv.FormatInt(update.ExpectedVersion, 10)}}
	}

	var issue models.Issue
	err := c.do(ctx, http.MethodPut, "/api/issues/"+url.PathEscape(issueID), nil, update, header, &issue)

	c.cache.InvalidatePrefix(querycache.Key{"issues", c.workspace})
	c.cache.InvalidatePrefix(querycache.Key{"issue", c.workspace})
	c.cache.InvalidatePrefix(querycache.Key{"relations", c.workspace})
	c.cache.InvalidatePrefix(querycache.Key{"search"})
	if err != nil {
		return nil, err
	}
	return &issue, nil
}
