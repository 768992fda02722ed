package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/Art-of-Technology/collab/internal/cli"
	"github.com/Art-of-Technology/collab/internal/cli/board"
	"github.com/Art-of-Technology/collab/internal/cli/issue"
	"github.com/Art-of-Technology/collab/internal/cli/serve"
	"github.com/Art-of-Technology/collab/internal/cli/view"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the collab command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "collab",
		Short: "Collab - issue relations, views and kanban boards",
		Long: `Collab tracks issues across projects: relate them, render them through
saved views and move them across a kanban board.

Run "collab serve" for the API and "collab seed" for demo data; every other
command talks to the API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("workspace", "", "Workspace slug (default from config)")
	rootCmd.PersistentFlags().String("db", "", "Database path for serve and seed")

	rootCmd.AddCommand(issue.IssueCmd())
	rootCmd.AddCommand(view.ViewCmd())
	rootCmd.AddCommand(board.BoardCmd())
	rootCmd.AddCommand(serve.ServeCmd())
	rootCmd.AddCommand(serve.SeedCmd())

	return rootCmd
}

// Execute runs the root command and returns the process exit code.
// Commands report their own failures; anything else is a cobra usage error.
func Execute() int {
	err := NewRootCmd().Execute()
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		return cli.ExitUsage
	}
	return cli.ExitCode(err)
}
