// Package serve holds the commands that own the database: serve and seed
package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Art-of-Technology/collab/internal/cli"
	"github.com/Art-of-Technology/collab/internal/logging"
	"github.com/Art-of-Technology/collab/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		Long: `Run the REST API over the local database. Logs go to stderr.
The server stops gracefully on SIGINT or SIGTERM.

Examples:
  collab serve
  collab serve --addr :9000 --db ./collab.db`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default from config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := cli.GetConfigFromContext(cmd)
	if err != nil {
		return cli.Exit(cli.ExitError, fmt.Errorf("failed to load config: %w", err))
	}
	logging.InitStderr(cfg.Log.SlogLevel())

	addr := cfg.Server.Addr
	if a, _ := cmd.Flags().GetString("addr"); a != "" {
		addr = a
	}

	a, owned, err := cli.GetAppFromContext(cmd)
	if err != nil {
		return cli.Exit(cli.ExitError, err)
	}
	if owned {
		defer func() {
			if err := a.Close(); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}()
	}

	srv, err := server.New(a, logging.Logger, &server.Config{Addr: addr})
	if err != nil {
		return cli.Exit(cli.ExitError, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return cli.Exit(cli.ExitError, fmt.Errorf("server error: %w", err))
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return cli.Exit(cli.ExitError, fmt.Errorf("shutdown failed: %w", err))
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return cli.Exit(cli.ExitError, fmt.Errorf("server error: %w", err))
	}
	slog.Info("server stopped")
	return nil
}
