package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Art-of-Technology/collab/internal/models"
)

// ============================================================================
// Issue Operations
// ============================================================================

// IssueRepo handles issues, their labels and their activity.
type IssueRepo struct {
	db *sql.DB
}

// CreateIssueParams holds the fields of a new issue
type CreateIssueParams struct {
	ProjectID   string
	Title       string
	Description string
	Status      string
	Priority    string
	Type        string
	AssigneeID  string
	StartDate   *time.Time
	DueDate     *time.Time
	Position    int
	LabelIDs    []string
	ActorID     string
	CreatedAt   time.Time
}

const issueSelect = `SELECT i.id, i.issue_key, i.title, i.description, i.status, i.priority, i.type,
	i.assignee_id, u.name, u.image, i.project_id, p.name, i.workspace_id,
	i.start_date, i.due_date, i.position, i.version, i.created_at, i.updated_at
	FROM issues i
	JOIN projects p ON p.id = i.project_id
	LEFT JOIN users u ON u.id = i.assignee_id`

func scanIssue(scan func(dest ...any) error) (models.Issue, error) {
	var (
		issue                     models.Issue
		assigneeID, aName, aImage sql.NullString
		projectID, projectName    string
		start, due                sql.NullTime
	)
	err := scan(
		&issue.ID, &issue.Key, &issue.Title, &issue.Description, &issue.Status, &issue.Priority, &issue.Type,
		&assigneeID, &aName, &aImage, &projectID, &projectName, &issue.WorkspaceID,
		&start, &due, &issue.Position, &issue.Version, &issue.CreatedAt, &issue.UpdatedAt,
	)
	if err != nil {
		return issue, err
	}
	if assigneeID.Valid {
		issue.Assignee = &models.UserRef{ID: assigneeID.String, Name: aName.String, Image: aImage.String}
	}
	issue.Project = &models.ProjectRef{ID: projectID, Name: projectName}
	issue.StartDate = nullTimePtr(start)
	issue.DueDate = nullTimePtr(due)
	issue.CreatedAt = issue.CreatedAt.UTC()
	issue.UpdatedAt = issue.UpdatedAt.UTC()
	return issue, nil
}

// CreateIssue inserts an issue and assigns its key from the project counter
func (r *IssueRepo) CreateIssue(ctx context.Context, p CreateIssueParams) (*models.Issue, error) {
	id := newID()
	created := p.CreatedAt
	if created.IsZero() {
		created = now()
	}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		key, err := nextIssueKey(ctx, tx, p.ProjectID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO issues (id, issue_key, workspace_id, project_id, title, description, status, priority, type,
				assignee_id, start_date, due_date, position, version, created_at, updated_at)
			 SELECT ?, ?, workspace_id, id, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?
			 FROM projects WHERE id = ?`,
			id, key, p.Title, p.Description, p.Status, p.Priority, p.Type,
			stringArg(&p.AssigneeID), timeArg(p.StartDate), timeArg(p.DueDate), p.Position, created, created,
			p.ProjectID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert issue '%s': %w", p.Title, err)
		}

		for _, labelID := range p.LabelIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO issue_labels (issue_id, label_id) VALUES (?, ?)`, id, labelID,
			); err != nil {
				return fmt.Errorf("failed to attach label %s: %w", labelID, err)
			}
		}

		return insertActivity(ctx, tx, id, models.ActivityEntry{
			Action: models.ActionCreated, ActorID: p.ActorID, CreatedAt: created,
		})
	})
	if err != nil {
		return nil, err
	}
	return r.GetIssueByID(ctx, id)
}

// GetIssueByID retrieves an issue with labels and activity
func (r *IssueRepo) GetIssueByID(ctx context.Context, id string) (*models.Issue, error) {
	return r.getIssue(ctx, `WHERE i.id = ?`, id)
}

// GetIssueByKey retrieves an issue of a workspace by its key, case-insensitively
func (r *IssueRepo) GetIssueByKey(ctx context.Context, workspaceID, key string) (*models.Issue, error) {
	return r.getIssue(ctx, `WHERE i.workspace_id = ? AND i.issue_key = ?`, workspaceID, strings.ToUpper(key))
}

func (r *IssueRepo) getIssue(ctx context.Context, where string, args ...any) (*models.Issue, error) {
	row := r.db.QueryRowContext(ctx, issueSelect+" "+where, args...)
	issue, err := scanIssue(row.Scan)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("issue %v", args[len(args)-1]))
	}

	issues := []models.Issue{issue}
	if err := r.attachDetails(ctx, issues); err != nil {
		return nil, err
	}
	return &issues[0], nil
}

// ListIssues returns a workspace's issues, optionally limited to projects,
// ordered by project then position
func (r *IssueRepo) ListIssues(ctx context.Context, workspaceID string, projectIDs []string) ([]models.Issue, error) {
	query := issueSelect + ` WHERE i.workspace_id = ?`
	args := []any{workspaceID}
	if len(projectIDs) > 0 {
		query += ` AND i.project_id IN (` + placeholders(len(projectIDs)) + `)`
		args = append(args, stringArgs(projectIDs)...)
	}
	query += ` ORDER BY p.name, i.position, i.created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer closeRows(rows)

	var issues []models.Issue
	for rows.Next() {
		issue, err := scanIssue(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachDetails(ctx, issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// SearchParams narrows SearchIssues. Empty fields do not filter.
type SearchParams struct {
	WorkspaceID string
	ProjectID   string
	Text        string
	Limit       int
}

// SearchIssues matches text against issue titles and keys
func (r *IssueRepo) SearchIssues(ctx context.Context, p SearchParams) ([]models.RelationItem, error) {
	query := issueSelect + ` WHERE 1 = 1`
	var args []any
	if p.WorkspaceID != "" {
		query += ` AND i.workspace_id = ?`
		args = append(args, p.WorkspaceID)
	}
	if p.ProjectID != "" {
		query += ` AND i.project_id = ?`
		args = append(args, p.ProjectID)
	}
	if text := strings.TrimSpace(p.Text); text != "" {
		like := "%" + escapeLike(text) + "%"
		query += ` AND (i.title LIKE ? ESCAPE '\' OR i.issue_key LIKE ? ESCAPE '\')`
		args = append(args, like, like)
	}
	query += ` ORDER BY i.updated_at DESC`
	if p.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, p.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}
	defer closeRows(rows)

	var items []models.RelationItem
	for rows.Next() {
		issue, err := scanIssue(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		items = append(items, relationItem(issue, ""))
	}
	return items, rows.Err()
}

// UpdateIssue applies a partial update and bumps the version. A non-zero
// ExpectedVersion that does not match the stored version fails with
// models.ErrConflict. Status, assignee and priority changes are recorded in
// the activity history.
func (r *IssueRepo) UpdateIssue(ctx context.Context, id string, u models.IssueUpdate, actorID string) (*models.Issue, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var (
			version          int64
			status, priority string
			assignee         sql.NullString
		)
		err := tx.QueryRowContext(ctx,
			`SELECT version, status, priority, assignee_id FROM issues WHERE id = ?`, id,
		).Scan(&version, &status, &priority, &assignee)
		if err != nil {
			return notFound(err, "issue "+id)
		}
		if u.ExpectedVersion != 0 && u.ExpectedVersion != version {
			return fmt.Errorf("issue %s is at version %d, not %d: %w", id, version, u.ExpectedVersion, models.ErrConflict)
		}

		sets := []string{"version = version + 1", "updated_at = ?"}
		args := []any{now()}
		add := func(column string, value any) {
			sets = append(sets, column+" = ?")
			args = append(args, value)
		}
		if u.Title != nil {
			add("title", *u.Title)
		}
		if u.Description != nil {
			add("description", *u.Description)
		}
		if u.Status != nil {
			add("status", *u.Status)
		}
		if u.Priority != nil {
			add("priority", *u.Priority)
		}
		if u.Type != nil {
			add("type", *u.Type)
		}
		if u.AssigneeID != nil {
			add("assignee_id", stringArg(u.AssigneeID))
		}
		if u.DueDate != nil {
			add("due_date", timeArg(u.DueDate))
		}
		if u.Position != nil {
			add("position", *u.Position)
		}
		args = append(args, id, version)

		res, err := tx.ExecContext(ctx,
			`UPDATE issues SET `+strings.Join(sets, ", ")+` WHERE id = ? AND version = ?`, args...,
		)
		if err != nil {
			return fmt.Errorf("failed to update issue %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("issue %s changed during update: %w", id, models.ErrConflict)
		}

		for _, entry := range changeActivity(u, status, priority, assignee.String, actorID) {
			if err := insertActivity(ctx, tx, id, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetIssueByID(ctx, id)
}

func changeActivity(u models.IssueUpdate, status, priority, assigneeID, actorID string) []models.ActivityEntry {
	at := now()
	var out []models.ActivityEntry
	if u.Status != nil && *u.Status != status {
		out = append(out, models.ActivityEntry{Action: models.ActionStatusChanged, ActorID: actorID, Detail: status + " -> " + *u.Status, CreatedAt: at})
	}
	if u.Priority != nil && *u.Priority != priority {
		out = append(out, models.ActivityEntry{Action: models.ActionPriorityChanged, ActorID: actorID, Detail: priority + " -> " + *u.Priority, CreatedAt: at})
	}
	if u.AssigneeID != nil && *u.AssigneeID != assigneeID {
		out = append(out, models.ActivityEntry{Action: models.ActionAssigned, ActorID: actorID, Detail: *u.AssigneeID, CreatedAt: at})
	}
	if len(out) == 0 && !u.IsEmpty() {
		out = append(out, models.ActivityEntry{Action: models.ActionUpdated, ActorID: actorID, CreatedAt: at})
	}
	return out
}

// AddActivity records an entry in an issue's history
func (r *IssueRepo) AddActivity(ctx context.Context, issueID string, entry models.ActivityEntry) error {
	return insertActivity(ctx, r.db, issueID, entry)
}

func insertActivity(ctx context.Context, q querier, issueID string, entry models.ActivityEntry) error {
	at := entry.CreatedAt
	if at.IsZero() {
		at = now()
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO issue_activity (issue_id, action, actor_id, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		issueID, entry.Action, entry.ActorID, entry.Detail, at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s activity for issue %s: %w", entry.Action, issueID, err)
	}
	return nil
}

// attachDetails loads labels and activity for issues in two queries
func (r *IssueRepo) attachDetails(ctx context.Context, issues []models.Issue) error {
	if len(issues) == 0 {
		return nil
	}
	index := make(map[string]int, len(issues))
	ids := make([]string, len(issues))
	for i, issue := range issues {
		index[issue.ID] = i
		ids[i] = issue.ID
	}
	in := placeholders(len(ids))

	rows, err := r.db.QueryContext(ctx,
		`SELECT il.issue_id, l.id, l.name, l.color
		 FROM issue_labels il JOIN labels l ON l.id = il.label_id
		 WHERE il.issue_id IN (`+in+`) ORDER BY l.name`,
		stringArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to query issue labels: %w", err)
	}
	for rows.Next() {
		var issueID string
		var l models.Label
		if err := rows.Scan(&issueID, &l.ID, &l.Name, &l.Color); err != nil {
			closeRows(rows)
			return fmt.Errorf("failed to scan label: %w", err)
		}
		i := index[issueID]
		issues[i].Labels = append(issues[i].Labels, l)
	}
	closeRows(rows)
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT issue_id, action, actor_id, detail, created_at
		 FROM issue_activity WHERE issue_id IN (`+in+`) ORDER BY created_at, id`,
		stringArgs(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to query issue activity: %w", err)
	}
	defer closeRows(rows)
	for rows.Next() {
		var issueID string
		var a models.ActivityEntry
		if err := rows.Scan(&issueID, &a.Action, &a.ActorID, &a.Detail, &a.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan activity: %w", err)
		}
		a.CreatedAt = a.CreatedAt.UTC()
		i := index[issueID]
		issues[i].Activity = append(issues[i].Activity, a)
	}
	return rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func relationItem(issue models.Issue, relationID string) models.RelationItem {
	return models.RelationItem{
		ID:          issue.ID,
		RelationID:  relationID,
		Key:         issue.Key,
		Title:       issue.Title,
		Status:      issue.Status,
		Priority:    issue.Priority,
		Type:        issue.Type,
		Assignee:    issue.Assignee,
		Project:     issue.Project,
		WorkspaceID: issue.WorkspaceID,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
}
