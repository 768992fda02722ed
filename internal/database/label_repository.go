package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Art-of-Technology/collab/internal/models"
)

// LabelRepo handles project labels and their assignment to issues.
type LabelRepo struct {
	db *sql.DB
}

// CreateLabel creates a label in a project
func (r *LabelRepo) CreateLabel(ctx context.Context, projectID, name, color string) (*models.Label, error) {
	l := &models.Label{ID: newID(), Name: name, Color: color}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO labels (id, project_id, name, color) VALUES (?, ?, ?, ?)`,
		l.ID, projectID, name, color,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("label %q already exists: %w", name, models.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert label '%s': %w", name, err)
	}
	return l, nil
}

// ListLabels returns a project's labels ordered by name
func (r *LabelRepo) ListLabels(ctx context.Context, projectID string) ([]models.Label, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color FROM labels WHERE project_id = ? ORDER BY name`, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer closeRows(rows)

	var out []models.Label
	for rows.Next() {
		var l models.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SetIssueLabels replaces the labels attached to an issue
func (r *LabelRepo) SetIssueLabels(ctx context.Context, issueID string, labelIDs []string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM issue_labels WHERE issue_id = ?`, issueID); err != nil {
			return fmt.Errorf("failed to clear labels of issue %s: %w", issueID, err)
		}
		for _, id := range labelIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO issue_labels (issue_id, label_id) VALUES (?, ?)`, issueID, id,
			); err != nil {
				return fmt.Errorf("failed to attach label %s: %w", id, err)
			}
		}
		return nil
	})
}
