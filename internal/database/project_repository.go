package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Art-of-Technology/collab/internal/models"
)

// DefaultStatuses are created with every project
var DefaultStatuses = []struct {
	Name  string
	Color string
}{
	{"Backlog", "#6B7280"},
	{"Todo", "#3B82F6"},
	{"In Progress", "#F59E0B"},
	{"Done", "#10B981"},
}

// ProjectRepo handles all project-related database operations.
type ProjectRepo struct {
	db *sql.DB
}

// CreateProject creates a project with its ticket counter and default statuses
func (r *ProjectRepo) CreateProject(ctx context.Context, workspaceID, name, keyPrefix string) (*models.Project, error) {
	p := &models.Project{
		ID:          newID(),
		WorkspaceID: workspaceID,
		Name:        name,
		KeyPrefix:   strings.ToUpper(keyPrefix),
		CreatedAt:   now(),
	}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO projects (id, workspace_id, name, key_prefix, created_at) VALUES (?, ?, ?, ?, ?)`,
			p.ID, p.WorkspaceID, p.Name, p.KeyPrefix, p.CreatedAt,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("key prefix %q is taken: %w", p.KeyPrefix, models.ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("failed to insert project '%s': %w", name, err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO project_counters (project_id, next_ticket_number) VALUES (?, 1)`, p.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize project counter for project %s: %w", p.ID, err)
		}

		for i, s := range DefaultStatuses {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO statuses (id, project_id, name, color, position, is_default) VALUES (?, ?, ?, ?, ?, ?)`,
				newID(), p.ID, s.Name, s.Color, i, i == 1,
			)
			if err != nil {
				return fmt.Errorf("failed to create default status '%s' for project %s: %w", s.Name, p.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProject retrieves a project by id
func (r *ProjectRepo) GetProject(ctx context.Context, id string) (*models.Project, error) {
	p := &models.Project{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, workspace_id, name, key_prefix, created_at FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.WorkspaceID, &p.Name, &p.KeyPrefix, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err, "project "+id)
	}
	return p, nil
}

// ListProjects returns a workspace's projects ordered by name
func (r *ProjectRepo) ListProjects(ctx context.Context, workspaceID string) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, workspace_id, name, key_prefix, created_at FROM projects WHERE workspace_id = ? ORDER BY name`,
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer closeRows(rows)

	var out []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.WorkspaceID, &p.Name, &p.KeyPrefix, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// nextIssueKey reserves the next ticket number of a project
func nextIssueKey(ctx context.Context, tx *sql.Tx, projectID string) (string, error) {
	var prefix string
	var number int
	err := tx.QueryRowContext(ctx,
		`SELECT p.key_prefix, c.next_ticket_number
		 FROM projects p JOIN project_counters c ON c.project_id = p.id
		 WHERE p.id = ?`, projectID,
	).Scan(&prefix, &number)
	if err != nil {
		return "", notFound(err, "project "+projectID)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE project_counters SET next_ticket_number = next_ticket_number + 1 WHERE project_id = ?`, projectID,
	)
	if err != nil {
		return "", fmt.Errorf("failed to bump ticket counter: %w", err)
	}
	return fmt.Sprintf("%s-%d", prefix, number), nil
}
