package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Art-of-Technology/collab/internal/models"
)

// ViewRepo persists saved views. Filters, fields and project scope are
// stored as JSON documents.
type ViewRepo struct {
	db *sql.DB
}

const viewSelect = `SELECT id, workspace_id, name, display_type, grouping, sort_field, sort_direction,
	filters, fields, project_ids, version, created_at, updated_at FROM views`

func scanView(scan func(dest ...any) error) (models.View, error) {
	var (
		v                           models.View
		display                     string
		filters, fields, projectIDs string
	)
	err := scan(&v.ID, &v.WorkspaceID, &v.Name, &display, &v.Grouping, &v.Sorting.Field, &v.Sorting.Direction,
		&filters, &fields, &projectIDs, &v.Version, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return v, err
	}
	v.DisplayType = models.DisplayType(display)
	if err := json.Unmarshal([]byte(filters), &v.Filters); err != nil {
		return v, fmt.Errorf("failed to decode filters of view %s: %w", v.ID, err)
	}
	if err := json.Unmarshal([]byte(fields), &v.Fields); err != nil {
		return v, fmt.Errorf("failed to decode fields of view %s: %w", v.ID, err)
	}
	if err := json.Unmarshal([]byte(projectIDs), &v.ProjectIDs); err != nil {
		return v, fmt.Errorf("failed to decode projects of view %s: %w", v.ID, err)
	}
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	return v, nil
}

type viewDocs struct {
	filters, fields, projectIDs string
}

func encodeViewDocs(v models.View) (viewDocs, error) {
	filters, err := json.Marshal(v.Filters)
	if err != nil {
		return viewDocs{}, fmt.Errorf("failed to encode filters: %w", err)
	}
	fields := v.Fields
	if fields == nil {
		fields = []string{}
	}
	f, err := json.Marshal(fields)
	if err != nil {
		return viewDocs{}, fmt.Errorf("failed to encode fields: %w", err)
	}
	projects := v.ProjectIDs
	if projects == nil {
		projects = []string{}
	}
	p, err := json.Marshal(projects)
	if err != nil {
		return viewDocs{}, fmt.Errorf("failed to encode projects: %w", err)
	}
	return viewDocs{filters: string(filters), fields: string(f), projectIDs: string(p)}, nil
}

// CreateView inserts a view at version 1
func (r *ViewRepo) CreateView(ctx context.Context, v models.View) (*models.View, error) {
	docs, err := encodeViewDocs(v)
	if err != nil {
		return nil, err
	}
	v.ID = newID()
	v.Version = 1
	v.CreatedAt = now()
	v.UpdatedAt = v.CreatedAt

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO views (id, workspace_id, name, display_type, grouping, sort_field, sort_direction,
			filters, fields, project_ids, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.WorkspaceID, v.Name, string(v.DisplayType), v.Grouping, v.Sorting.Field, v.Sorting.Direction,
		docs.filters, docs.fields, docs.projectIDs, v.Version, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert view '%s': %w", v.Name, err)
	}
	return r.GetView(ctx, v.WorkspaceID, v.ID)
}

// GetView retrieves a view of a workspace
func (r *ViewRepo) GetView(ctx context.Context, workspaceID, id string) (*models.View, error) {
	row := r.db.QueryRowContext(ctx, viewSelect+` WHERE workspace_id = ? AND id = ?`, workspaceID, id)
	v, err := scanView(row.Scan)
	if err != nil {
		return nil, notFound(err, "view "+id)
	}
	return &v, nil
}

// ListViews returns a workspace's views ordered by name
func (r *ViewRepo) ListViews(ctx context.Context, workspaceID string) ([]models.View, error) {
	rows, err := r.db.QueryContext(ctx, viewSelect+` WHERE workspace_id = ? ORDER BY name, created_at`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query views: %w", err)
	}
	defer closeRows(rows)

	var out []models.View
	for rows.Next() {
		v, err := scanView(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpdateView overwrites a view if v.Version matches the stored version, and
// bumps it. A stale version fails with models.ErrConflict.
func (r *ViewRepo) UpdateView(ctx context.Context, v models.View) (*models.View, error) {
	docs, err := encodeViewDocs(v)
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE views SET name = ?, display_type = ?, grouping = ?, sort_field = ?, sort_direction = ?,
			filters = ?, fields = ?, project_ids = ?, version = version + 1, updated_at = ?
		 WHERE workspace_id = ? AND id = ? AND version = ?`,
		v.Name, string(v.DisplayType), v.Grouping, v.Sorting.Field, v.Sorting.Direction,
		docs.filters, docs.fields, docs.projectIDs, now(),
		v.WorkspaceID, v.ID, v.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update view %s: %w", v.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetView(ctx, v.WorkspaceID, v.ID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("view %s was changed since version %d: %w", v.ID, v.Version, models.ErrConflict)
	}
	return r.GetView(ctx, v.WorkspaceID, v.ID)
}
