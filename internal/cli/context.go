package cli

import (
	"context"

	"github.com/Art-of-Technology/collab/internal/app"
	"github.com/Art-of-Technology/collab/internal/config"
	"github.com/spf13/cobra"
)

type contextKey string

const (
	cliKey contextKey = "cli"
	appKey contextKey = "app"
)

// WithCLI returns a context carrying c. Commands executed with it use c
// instead of building their own.
func WithCLI(ctx context.Context, c *CLI) context.Context {
	return context.WithValue(ctx, cliKey, c)
}

// WithApp returns a context carrying an already opened application
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey, a)
}

// GetCLIFromContext returns the CLI carried by the command's context, or
// builds one from the user's config and the --workspace flag
func GetCLIFromContext(cmd *cobra.Command) (*CLI, error) {
	if c, ok := cmd.Context().Value(cliKey).(*CLI); ok && c != nil {
		return c, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewCLI(cfg, flagString(cmd, "workspace")), nil
}

// GetAppFromContext returns the application carried by the command's
// context, or opens the configured database. owned reports whether the
// caller must close the returned app.
func GetAppFromContext(cmd *cobra.Command) (a *app.App, owned bool, err error) {
	if a, ok := cmd.Context().Value(appKey).(*app.App); ok && a != nil {
		return a, false, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, false, err
	}
	if path := flagString(cmd, "db"); path != "" {
		cfg.Database.Path = path
	}
	a, err = OpenApp(cmd.Context(), cfg)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

func flagString(cmd *cobra.Command, name string) string {
	f := cmd.Flags().Lookup(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

// GetConfigFromContext returns the config of the CLI carried by the
// command's context, or loads the user's config
func GetConfigFromContext(cmd *cobra.Command) (*config.Config, error) {
	if c, ok := cmd.Context().Value(cliKey).(*CLI); ok && c != nil && c.Config != nil {
		return c.Config, nil
	}
	return config.Load()
}
