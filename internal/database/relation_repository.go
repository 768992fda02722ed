package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Art-of-Technology/collab/internal/models"
)

// RelationRepo stores issue relations. Each relation is one canonical edge
// read from both ends: "source <type> target" is returned to the source as
// type and to the target as the inverse type.
type RelationRepo struct {
	db *sql.DB
}

// Edge is a stored relation
type Edge struct {
	ID       string
	SourceID string
	TargetID string
	Type     models.RelationKind
}

// canonicalKinds are the kinds edges are stored under
var canonicalKinds = map[models.RelationKind]bool{
	models.RelationChild:      true,
	models.RelationBlocks:     true,
	models.RelationRelatesTo:  true,
	models.RelationDuplicates: true,
}

// CanonicalEdge turns "issue <kind> target" into the stored edge
func CanonicalEdge(issueID, targetID string, kind models.RelationKind) Edge {
	if canonicalKinds[kind] {
		return Edge{SourceID: issueID, TargetID: targetID, Type: kind}
	}
	return Edge{SourceID: targetID, TargetID: issueID, Type: kind.Inverse()}
}

// ListRelationRecords returns the relation records of an issue as seen from it
func (r *RelationRepo) ListRelationRecords(ctx context.Context, issueID string) ([]models.RelationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source_id, target_id, relation_type FROM issue_relations
		 WHERE source_id = ? OR target_id = ?
		 ORDER BY created_at, id`,
		issueID, issueID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query relations of issue %s: %w", issueID, err)
	}
	edges, err := scanEdges(rows)
	if err != nil {
		return nil, err
	}

	issues := &IssueRepo{db: r.db}
	records := make([]models.RelationRecord, 0, len(edges))
	for _, e := range edges {
		kind, otherID := e.Type, e.TargetID
		if e.SourceID != issueID {
			kind, otherID = e.Type.Inverse(), e.SourceID
		}
		other, err := issues.GetIssueByID(ctx, otherID)
		if err != nil {
			return nil, err
		}
		records = append(records, models.RelationRecord{RelationType: kind, RelatedItem: relationItem(*other, e.ID)})
	}
	return records, nil
}

// CreateRelations stores edges atomically. A duplicate edge fails the whole
// batch with models.ErrConflict.
func (r *RelationRepo) CreateRelations(ctx context.Context, edges []Edge) ([]Edge, error) {
	out := make([]Edge, len(edges))
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		for i, e := range edges {
			e.ID = newID()
			_, err := tx.ExecContext(ctx,
				`INSERT INTO issue_relations (id, source_id, target_id, relation_type, created_at) VALUES (?, ?, ?, ?, ?)`,
				e.ID, e.SourceID, e.TargetID, string(e.Type), now(),
			)
			if isUniqueViolation(err) {
				return fmt.Errorf("relation %s %s %s already exists: %w", e.SourceID, e.Type, e.TargetID, models.ErrConflict)
			}
			if err != nil {
				return fmt.Errorf("failed to insert relation: %w", err)
			}
			out[i] = e
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetRelation returns an edge that touches issueID
func (r *RelationRepo) GetRelation(ctx context.Context, issueID, relationID string) (*Edge, error) {
	e := &Edge{}
	var kind string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, source_id, target_id, relation_type FROM issue_relations
		 WHERE id = ? AND (source_id = ? OR target_id = ?)`,
		relationID, issueID, issueID,
	).Scan(&e.ID, &e.SourceID, &e.TargetID, &kind)
	if err != nil {
		return nil, notFound(err, "relation "+relationID)
	}
	e.Type = models.RelationKind(kind)
	return e, nil
}

// DeleteRelation removes an edge that touches issueID
func (r *RelationRepo) DeleteRelation(ctx context.Context, issueID, relationID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM issue_relations WHERE id = ? AND (source_id = ? OR target_id = ?)`,
		relationID, issueID, issueID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete relation %s: %w", relationID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("relation %s: %w", relationID, models.ErrNotFound)
	}
	return nil
}

// ParentOf returns the id of an issue's parent, or "" when it has none
func (r *RelationRepo) ParentOf(ctx context.Context, issueID string) (string, error) {
	var parentID string
	err := r.db.QueryRowContext(ctx,
		`SELECT source_id FROM issue_relations WHERE target_id = ? AND relation_type = ?`,
		issueID, string(models.RelationChild),
	).Scan(&parentID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get parent of issue %s: %w", issueID, err)
	}
	return parentID, nil
}

func scanEdges(rows *sql.Rows) ([]Edge, error) {
	defer closeRows(rows)
	var out []Edge
	for rows.Next() {
		var e Edge
		var kind string
		if err := rows.Scan(&e.ID, &e.SourceID, &e.TargetID, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan relation: %w", err)
		}
		e.Type = models.RelationKind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}
