package issue

import (
	"fmt"
	"strings"

	"github.com/Art-of-Technology/collab/internal/cli"
	"github.com/Art-of-Technology/collab/internal/cli/styles"
	"github.com/Art-of-Technology/collab/internal/relations"
	"github.com/spf13/cobra"
)

// RelationsCmd returns the issue relations subcommand
func RelationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relations <key>",
		Short: "List an issue's relations",
		Long: `List an issue's relations grouped by kind, with sub-issue progress.

Quiet mode prints one "kind relation-id issue-key" line per relation.`,
		Args: cobra.ExactArgs(1),
		RunE: runRelations,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runRelations(cmd *cobra.Command, args []string) error {
	formatter := cli.FormatterFromCmd(cmd)
	key := strings.ToUpper(args[0])

	cliInstance, err := cli.GetCLIFromContext(cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	rel, err := cliInstance.Client.GetRelations(cmd.Context(), key)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, r := range relations.Flatten(rel) {
			fmt.Printf("%s %s %s\n", r.RelationType, r.RelatedItem.RelationID, r.RelatedItem.Key)
		}
		return nil
	}
	if formatter.JSON {
		return formatter.Success(newRelationsOutput(key, rel))
	}

	fmt.Println(styles.TitleStyle.Render(key))
	fmt.Println(renderRelations(rel))
	return nil
}
