package api

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/querycache"
)

func (c *Client) relationsKey(issueKey string) querycache.Key {
	return querycache.Key{"relations", c.workspace, issueKey}
}

// GetRelations returns an issue's relations grouped by kind
func (c *Client) GetRelations(ctx context.Context, issueKey string) (models.IssueRelations, error) {
	return querycache.Fetch(ctx, c.cache, c.relationsKey(issueKey), func(ctx context.Context) (models.IssueRelations, error) {
		var rel models.IssueRelations
		err := c.do(ctx, http.MethodGet, c.workspacePath("issues", issueKey, "relations"), nil, nil, nil, &rel)
		return rel, err
	})
}

// AddRelations links issueKey to every target in one request
func (c *Client) AddRelations(ctx context.Context, issueKey string, inputs []models.RelationInput) (models.IssueRelations, error) {
	var rel models.IssueRelations
	err := c.do(ctx, http.MethodPost, c.workspacePath("issues", issueKey, "relations", "bulk"), nil, inputs, nil, &rel)
	// both ends of a relation change, so drop every relations entry
	c.cache.InvalidatePrefix(querycache.Key{"relations", c.workspace})
	c.cache.InvalidatePrefix(querycache.Key{"search"})
	return rel, err
}

// RemoveRelation deletes one relation record
func (c *Client) RemoveRelation(ctx context.Context, issueKey, relationID string) error {
	err := c.do(ctx, http.MethodDelete, c.workspacePath("issues", issueKey, "relations", relationID), nil, nil, nil, nil)
	c.cache.InvalidatePrefix(querycache.Key{"relations", c.workspace})
	c.cache.InvalidatePrefix(querycache.Key{"search"})
	return err
}

// SearchParams narrows an issue search. An empty Workspace searches across
// workspaces.
type SearchParams struct {
	Query     string
	Types     []string
	ProjectID string
	Workspace string
}

// SearchIssues runs the relation picker search
func (c *Client) SearchIssues(ctx context.Context, p SearchParams) ([]models.RelationItem, error) {
	types := slices.Clone(p.Types)
	slices.Sort(types)
	key := querycache.Key{"search", p.Workspace, p.ProjectID, strings.Join(types, ","), p.Query}

	return querycache.Fetch(ctx, c.cache, key, func(ctx context.Context) ([]models.RelationItem, error) {
		q := url.Values{}
		q.Set("q", p.Query)
		if len(types) > 0 {
			q.Set("type", strings.Join(types, ","))
		}
		if p.ProjectID != "" {
			q.Set("project", p.ProjectID)
		}
		if p.Workspace != "" {
			q.Set("workspace", p.Workspace)
		}
		var items []models.RelationItem
		err := c.do(ctx, http.MethodGet, "/api/issues/search", q, nil, nil, &items)
		return items, err
	})
}
