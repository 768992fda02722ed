package app

import (
	"log/slog"

	"github.com/Art-of-Technology/collab/internal/database"
	issueservice "github.com/Art-of-Technology/collab/internal/services/issue"
	relationservice "github.com/Art-of-Technology/collab/internal/services/relation"
	statusservice "github.com/Art-of-Technology/collab/internal/services/status"
	viewservice "github.com/Art-of-Technology/collab/internal/services/view"
)

// App holds all application services and provides dependency injection.
// This is the container the HTTP server and the CLI build on.
type App struct {
	// Repository layer (direct database access)
	repo *database.Repository

	logger *slog.Logger

	// Service layer (business logic)
	RelationService relationservice.Service
	IssueService    issueservice.Service
	ViewService     viewservice.Service
	StatusService   statusservice.Service
}

// New creates a new App with all services initialized.
func New(repo *database.Repository, opts ...Option) *App {
	cfg := appConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &App{
		repo:            repo,
		logger:          cfg.logger,
		RelationService: relationservice.NewService(repo),
		IssueService:    issueservice.NewService(repo),
		ViewService:     viewservice.NewService(repo),
		StatusService:   statusservice.NewService(repo),
	}
}

// Repo returns the underlying repository for seeding and maintenance
// commands that have no service of their own.
func (a *App) Repo() *database.Repository {
	return a.repo
}

// Logger returns the application logger
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Close releases the database connection
func (a *App) Close() error {
	if a.repo == nil || a.repo.DB() == nil {
		return nil
	}
	return a.repo.DB().Close()
}
