package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS workspaces (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		image TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		name TEXT NOT NULL,
		key_prefix TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (workspace_id) REFERENCES workspaces(id) ON DELETE CASCADE,
		UNIQUE (workspace_id, key_prefix)
	)`,
	`CREATE TABLE IF NOT EXISTS project_counters (
		project_id TEXT PRIMARY KEY,
		next_ticket_number INTEGER NOT NULL DEFAULT 1,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS statuses (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		is_default INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS issues (
		id TEXT PRIMARY KEY,
		issue_key TEXT NOT NULL,
		workspace_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		priority TEXT NOT NULL,
		type TEXT NOT NULL,
		assignee_id TEXT,
		start_date DATETIME,
		due_date DATETIME,
		position INTEGER NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (workspace_id) REFERENCES workspaces(id) ON DELETE CASCADE,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		FOREIGN KEY (assignee_id) REFERENCES users(id) ON DELETE SET NULL,
		UNIQUE (workspace_id, issue_key)
	)`,
	`CREATE TABLE IF NOT EXISTS labels (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		name TEXT NOT NULL,
		color TEXT NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		UNIQUE (project_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS issue_labels (
		issue_id TEXT NOT NULL,
		label_id TEXT NOT NULL,
		PRIMARY KEY (issue_id, label_id),
		FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE,
		FOREIGN KEY (label_id) REFERENCES labels(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS issue_relations (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		relation_type TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (source_id) REFERENCES issues(id) ON DELETE CASCADE,
		FOREIGN KEY (target_id) REFERENCES issues(id) ON DELETE CASCADE,
		UNIQUE (source_id, target_id, relation_type)
	)`,
	`CREATE TABLE IF NOT EXISTS views (
		id TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		name TEXT NOT NULL,
		display_type TEXT NOT NULL,
		grouping TEXT NOT NULL DEFAULT '',
		sort_field TEXT NOT NULL DEFAULT '',
		sort_direction TEXT NOT NULL DEFAULT '',
		filters TEXT NOT NULL DEFAULT '{}',
		fields TEXT NOT NULL DEFAULT '[]',
		project_ids TEXT NOT NULL DEFAULT '[]',
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (workspace_id) REFERENCES workspaces(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS issue_activity (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		issue_id TEXT NOT NULL,
		action TEXT NOT NULL,
		actor_id TEXT NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_statuses_project ON statuses(project_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_relations_target ON issue_relations(target_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_issue ON issue_activity(issue_id, created_at)`,
}

// RunMigrations creates the schema. It is safe to run on every start.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
