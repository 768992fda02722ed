package database

import "database/sql"

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*WorkspaceRepo
	*ProjectRepo
	*StatusRepo
	*IssueRepo
	*LabelRepo
	*RelationRepo
	*ViewRepo

	conn *sql.DB
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		WorkspaceRepo: &WorkspaceRepo{db: db},
		ProjectRepo:   &ProjectRepo{db: db},
		StatusRepo:    &StatusRepo{db: db},
		IssueRepo:     &IssueRepo{db: db},
		LabelRepo:     &LabelRepo{db: db},
		RelationRepo:  &RelationRepo{db: db},
		ViewRepo:      &ViewRepo{db: db},
		conn:          db,
	}
}

// DB returns the underlying connection
func (r *Repository) DB() *sql.DB {
	return r.conn
}
