package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Art-of-Technology/collab/internal/models"
)

// WorkspaceRepo handles workspaces and users.
type WorkspaceRepo struct {
	db *sql.DB
}

// CreateWorkspace inserts a workspace
func (r *WorkspaceRepo) CreateWorkspace(ctx context.Context, slug, name string) (*models.Workspace, error) {
	ws := &models.Workspace{ID: newID(), Slug: slug, Name: name}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspaces (id, slug, name, created_at) VALUES (?, ?, ?, ?)`,
		ws.ID, ws.Slug, ws.Name, now(),
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("workspace %q already exists: %w", slug, models.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert workspace '%s': %w", slug, err)
	}
	return ws, nil
}

// GetWorkspace finds a workspace by id or slug
func (r *WorkspaceRepo) GetWorkspace(ctx context.Context, idOrSlug string) (*models.Workspace, error) {
	ws := &models.Workspace{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, slug, name FROM workspaces WHERE id = ? OR slug = ?`,
		idOrSlug, idOrSlug,
	).Scan(&ws.ID, &ws.Slug, &ws.Name)
	if err != nil {
		return nil, notFound(err, "workspace "+idOrSlug)
	}
	return ws, nil
}

// ListWorkspaces returns all workspaces ordered by slug
func (r *WorkspaceRepo) ListWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, slug, name FROM workspaces ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to query workspaces: %w", err)
	}
	defer closeRows(rows)

	var out []models.Workspace
	for rows.Next() {
		var ws models.Workspace
		if err := rows.Scan(&ws.ID, &ws.Slug, &ws.Name); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

// CreateUser inserts a user
func (r *WorkspaceRepo) CreateUser(ctx context.Context, name, email, image string) (*models.User, error) {
	u := &models.User{ID: newID(), Name: name, Email: email, Image: image}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, image) VALUES (?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Image,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("user %q already exists: %w", email, models.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert user '%s': %w", email, err)
	}
	return u, nil
}

// GetUser finds a user by id
func (r *WorkspaceRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, image FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Image)
	if err != nil {
		return nil, notFound(err, "user "+id)
	}
	return u, nil
}
