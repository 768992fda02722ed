package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Art-of-Technology/collab/internal/api"
	"github.com/Art-of-Technology/collab/internal/app"
	"github.com/Art-of-Technology/collab/internal/cli/styles"
	"github.com/Art-of-Technology/collab/internal/config"
	"github.com/Art-of-Technology/collab/internal/database"
)

// CLI represents the CLI application context. Client commands talk to the
// server through Client; serve and seed open the database directly.
type CLI struct {
	Config *config.Config
	Client *api.Client
}

// NewCLI builds a CLI from config. An empty workspace keeps the configured one.
func NewCLI(cfg *config.Config, workspace string) *CLI {
	if workspace == "" {
		workspace = cfg.API.Workspace
	}
	styles.Init(cfg.ColorScheme)
	client := api.New(cfg.API.URL, workspace,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(slog.Default()),
	)
	return &CLI{Config: cfg, Client: client}
}

// OpenApp initializes the database named by cfg and builds the application
// container over it
func OpenApp(ctx context.Context, cfg *config.Config) (*app.App, error) {
	path := cfg.Database.Path
	if path == "" {
		var err error
		path, err = database.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve database path: %w", err)
		}
	}

	db, err := database.InitDB(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return app.New(database.NewRepository(db), app.WithLogger(slog.Default())), nil
}
