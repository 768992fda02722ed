package serve

import (
	"fmt"

	"github.com/Art-of-Technology/collab/internal/cli"
	"github.com/Art-of-Technology/collab/internal/database"
	"github.com/spf13/cobra"
)

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with a demo workspace",
		Long: `Create the "acme" demo workspace with two projects, issues, relations
and saved views. Running it again does nothing.`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

// seedOutput is the JSON shape of seed
type seedOutput struct {
	Workspace string `json:"workspace"`
}

func (o seedOutput) GetID() string { return o.Workspace }

func runSeed(cmd *cobra.Command, args []string) error {
	formatter := cli.FormatterFromCmd(cmd)

	a, owned, err := cli.GetAppFromContext(cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	if owned {
		defer func() { _ = a.Close() }()
	}

	if err := database.Seed(cmd.Context(), a.Repo()); err != nil {
		return formatter.Fail(fmt.Errorf("failed to seed database: %w", err))
	}

	if formatter.JSON || formatter.Quiet {
		return formatter.Success(seedOutput{Workspace: database.DemoWorkspace})
	}
	fmt.Printf("✓ Seeded workspace %q\n", database.DemoWorkspace)
	return nil
}
