// Package board holds the command that opens the interactive kanban board
// e.g., collab board ...
package board

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/Art-of-Technology/collab/internal/api"
	kanban "github.com/Art-of-Technology/collab/internal/board"
	"github.com/Art-of-Technology/collab/internal/cli"
	"github.com/Art-of-Technology/collab/internal/config"
	"github.com/Art-of-Technology/collab/internal/logging"
	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/notifications"
	"github.com/Art-of-Technology/collab/internal/tui"
	"github.com/spf13/cobra"
)

// BoardCmd returns the board command
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open a project's kanban board",
		Long: `Open an interactive kanban board for one project. Pick up issues or
columns, move them and drop them; each drop is saved in the background and
failed saves are rolled back with an error toast.

Without --project the first project that has issues is opened.
Logs are written to ~/.collab/logs/collab.log.`,
		Args: cobra.NoArgs,
		RunE: runBoard,
	}

	cmd.Flags().String("project", "", "Project id or name")

	return cmd
}

func runBoard(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFromCmd(cmd)

	cliInstance, err := cli.GetCLIFromContext(cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	cfg := cliInstance.Config

	closer, err := logging.Init(cfg.Log.SlogLevel())
	if err != nil {
		slog.Warn("failed to open log file, logging to stderr", "error", err)
	} else {
		defer func() { _ = closer.Close() }()
	}

	projectFlag, _ := cmd.Flags().GetString("project")
	project, err := resolveProject(ctx, cliInstance.Client, projectFlag)
	if err != nil {
		return formatter.Fail(err)
	}

	center := notifications.NewCenter(notifications.WithLogger(slog.Default()))
	load := Loader(cliInstance.Client, project.ID, center, cfg)

	ctrl, err := load(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	model := tui.New(ctrl, load, center, cfg,
		tui.WithTitle(project.Name),
		tui.WithRelations(cliInstance.Client.GetRelations),
	)

	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if m, ok := final.(tui.Model); ok && m.Controller() != nil {
		m.Controller().Close()
	} else {
		ctrl.Close()
	}
	if err != nil {
		return formatter.Fail(fmt.Errorf("board exited: %w", err))
	}
	return nil
}

// Loader fetches a project's statuses and issues and builds a controller
// that persists drops through client
func Loader(client *api.Client, projectID string, notifier notifications.Notifier, cfg *config.Config) tui.Loader {
	return func(ctx context.Context) (*kanban.Controller, error) {
		statuses, err := client.ListStatuses(ctx, projectID)
		if err != nil {
			return nil, err
		}
		issues, err := client.ListIssues(ctx, projectID)
		if err != nil {
			return nil, err
		}

		b := kanban.FromStatuses(projectID, statuses, issues)
		return kanban.NewController(b, client, client, notifier,
			kanban.WithRollback(cfg.Board.Rollback()),
			kanban.WithReorderDebounce(cfg.Board.ReorderDebounce()),
			kanban.WithRequestTimeout(cfg.API.Timeout),
			kanban.WithControllerLogger(slog.Default()),
		), nil
	}
}

// resolveProject finds a project by id or name among the workspace's
// issues. An empty ref picks the first project found.
func resolveProject(ctx context.Context, client *api.Client, ref string) (models.ProjectRef, error) {
	issues, err := client.ListIssues(ctx)
	if err != nil {
		return models.ProjectRef{}, err
	}

	for _, issue := range issues {
		p := issue.Project
		if p == nil {
			continue
		}
		if ref == "" || p.ID == ref || strings.EqualFold(p.Name, ref) {
			return *p, nil
		}
	}

	if ref != "" {
		// a project without issues can still be opened by id
		if _, err := client.ListStatuses(ctx, ref); err == nil {
			return models.ProjectRef{ID: ref, Name: ref}, nil
		}
		return models.ProjectRef{}, fmt.Errorf("project %q: %w", ref, models.ErrNotFound)
	}
	return models.ProjectRef{}, fmt.Errorf("no project with issues in workspace %q: %w", client.Workspace(), models.ErrNotFound)
}
