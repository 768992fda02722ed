package issue

import (
	"fmt"
	"strings"

	"github.com/Art-of-Technology/collab/internal/cli"
	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/relations"
	"github.com/spf13/cobra"
)

// UnlinkCmd returns the issue unlink subcommand
func UnlinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlink <key> <relation-id|related-key>",
		Short: "Remove a relation from an issue",
		Long: `Remove one relation. The relation can be named by its id or by the
key of the related issue; pass --type when the same issue is related
in more than one way.

Examples:
  collab issue unlink WEB-1 WEB-2
  collab issue unlink WEB-1 WEB-2 --type blocks`,
		Args: cobra.ExactArgs(2),
		RunE: runUnlink,
	}

	cmd.Flags().String("type", "", "Relation type to disambiguate a related key")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runUnlink(cmd *cobra.Command, args []string) error {
	formatter := cli.FormatterFromCmd(cmd)
	key := strings.ToUpper(args[0])
	ref := strings.TrimSpace(args[1])
	kindFlag, _ := cmd.Flags().GetString("type")
	kind := models.RelationKind(strings.ToLower(kindFlag))

	cliInstance, err := cli.GetCLIFromContext(cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	rel, err := cliInstance.Client.GetRelations(cmd.Context(), key)
	if err != nil {
		return formatter.Fail(err)
	}

	matches := matchRelations(relations.Flatten(rel), ref, kind)
	switch len(matches) {
	case 0:
		return formatter.Fail(fmt.Errorf("%s has no relation %q: %w", key, ref, models.ErrNotFound))
	case 1:
	default:
		return formatter.Usage(
			fmt.Sprintf("%s is related to %s in %d ways", key, strings.ToUpper(ref), len(matches)),
			"Pass --type to choose one")
	}

	target := matches[0]
	if err := cliInstance.Client.RemoveRelation(cmd.Context(), key, target.RelatedItem.RelationID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Println(target.RelatedItem.RelationID)
		return nil
	}
	if formatter.JSON {
		return formatter.Success(target)
	}
	fmt.Printf("✓ removed %s %s %s\n", key, target.RelationType, target.RelatedItem.Key)
	return nil
}

// matchRelations finds records named by relation id or by related issue key
func matchRelations(records []models.RelationRecord, ref string, kind models.RelationKind) []models.RelationRecord {
	var out []models.RelationRecord
	for _, r := range records {
		if kind != "" && r.RelationType != kind {
			continue
		}
		if r.RelatedItem.RelationID == ref || strings.EqualFold(r.RelatedItem.Key, ref) {
			out = append(out, r)
		}
	}
	return out
}
