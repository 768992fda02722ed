package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Art-of-Technology/collab/internal/models"
)

// StatusRepo handles a project's board columns.
type StatusRepo struct {
	db *sql.DB
}

// CreateStatus appends a status to a project
func (r *StatusRepo) CreateStatus(ctx context.Context, projectID, name, color string) (*models.Status, error) {
	s := &models.Status{ID: newID(), ProjectID: projectID, Name: name, Color: color}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(position) + 1, 0) FROM statuses WHERE project_id = ?`, projectID,
		).Scan(&s.Order); err != nil {
			return fmt.Errorf("failed to find next status position: %w", err)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO statuses (id, project_id, name, color, position, is_default) VALUES (?, ?, ?, ?, ?, 0)`,
			s.ID, s.ProjectID, s.Name, s.Color, s.Order,
		)
		if err != nil {
			return fmt.Errorf("failed to insert status '%s': %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListStatuses returns a project's statuses in column order
func (r *StatusRepo) ListStatuses(ctx context.Context, projectID string) ([]models.Status, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, name, color, position, is_default
		 FROM statuses WHERE project_id = ? ORDER BY position, name`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses: %w", err)
	}
	defer closeRows(rows)

	var out []models.Status
	for rows.Next() {
		var s models.Status
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Color, &s.Order, &s.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReorderStatuses writes positions following ids. Callers validate that ids
// is a permutation of the project's statuses.
func (r *StatusRepo) ReorderStatuses(ctx context.Context, projectID string, ids []string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for i, id := range ids {
			res, err := tx.ExecContext(ctx,
				`UPDATE statuses SET position = ? WHERE id = ? AND project_id = ?`, i, id, projectID,
			)
			if err != nil {
				return fmt.Errorf("failed to move status %s: %w", id, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				return fmt.Errorf("status %s: %w", id, models.ErrNotFound)
			}
		}
		return nil
	})
}
