package api

import (
	"context"
	"net/http"

	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/querycache"
)

// ListViews returns the workspace's saved views
func (c *Client) ListViews(ctx context.Context) ([]models.View, error) {
	return querycache.Fetch(ctx, c.cache, querycache.Key{"views", c.workspace}, func(ctx context.Context) ([]models.View, error) {
		var views []models.View
		err := c.do(ctx, http.MethodGet, c.workspacePath("views"), nil, nil, nil, &views)
		return views, err
	})
}

// GetView fetches one view
func (c *Client) GetView(ctx context.Context, id string) (*models.View, error) {
	return querycache.Fetch(ctx, c.cache, querycache.Key{"view", c.workspace, id}, func(ctx context.Context) (*models.View, error) {
		var v models.View
		if err := c.do(ctx, http.MethodGet, c.workspacePath("views", id), nil, nil, nil, &v); err != nil {
			return nil, err
		}
		return &v, nil
	})
}

// CreateView saves a new view
func (c *Client) CreateView(ctx context.Context, v models.View) (*models.View, error) {
	var created models.View
	err := c.do(ctx, http.MethodPost, c.workspacePath("views"), nil, v, nil, &created)
	c.cache.Invalidate(querycache.Key{"views", c.workspace})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateView persists a view. The view's Version must match the server's.
func (c *Client) UpdateView(ctx context.Context, v models.View) (*models.View, error) {
	var updated models.View
	err := c.do(ctx, http.MethodPut, c.workspacePath("views", v.ID), nil, v, nil, &updated)
	c.cache.Invalidate(querycache.Key{"views", c.workspace})
	c.cache.Invalidate(querycache.Key{"view", c.workspace, v.ID})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
