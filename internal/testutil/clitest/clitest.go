// Package clitest runs cli commands against an in-process server
package clitest

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/Art-of-Technology/collab/internal/api"
	"github.com/Art-of-Technology/collab/internal/app"
	"github.com/Art-of-Technology/collab/internal/cli"
	"github.com/Art-of-Technology/collab/internal/config"
	"github.com/Art-of-Technology/collab/internal/server"
	"github.com/Art-of-Technology/collab/internal/testutil"
	"github.com/spf13/cobra"
)

// Env is a fixture served over HTTP with a CLI pointed at it
type Env struct {
	*testutil.Fixture
	App *app.App
	CLI *cli.CLI
	URL string
}

// Setup starts a test server over a fresh fixture
func Setup(t *testing.T) *Env {
	t.Helper()
	f := testutil.SetupFixture(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := app.New(f.Repo, app.WithLogger(logger))

	s, err := server.New(a, logger, nil)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	cfg := config.Default()
	cfg.API.URL = ts.URL
	cfg.API.Workspace = f.Workspace.Slug

	return &Env{
		Fixture: f,
		App:     a,
		CLI:     &cli.CLI{Config: cfg, Client: api.New(ts.URL, f.Workspace.Slug, api.WithLogger(logger))},
		URL:     ts.URL,
	}
}

// Execute runs cmd with args using the env's CLI and captures stdout
func (e *Env) Execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	return testutil.RunCommand(t, cli.WithCLI(context.Background(), e.CLI), cmd, args...)
}

// ExecuteWithApp runs a command that opens the database directly
func (e *Env) ExecuteWithApp(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	return testutil.RunCommand(t, cli.WithApp(context.Background(), e.App), cmd, args...)
}
