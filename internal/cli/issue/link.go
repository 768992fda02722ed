package issue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/huh/v2"
	"github.com/Art-of-Technology/collab/internal/api"
	"github.com/Art-of-Technology/collab/internal/cli"
	"github.com/Art-of-Technology/collab/internal/cli/styles"
	"github.com/Art-of-Technology/collab/internal/config"
	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/relations"
	"github.com/Art-of-Technology/collab/internal/tui/huhforms"
	"github.com/spf13/cobra"
)

// linkPicker asks for whatever `issue link -i` was not given on the command line
type linkPicker interface {
	PickKind(ctx context.Context, key string) (models.RelationKind, error)
	PickTargets(ctx context.Context, key string, kind models.RelationKind, candidates []models.RelationItem) ([]string, error)
}

// newLinkPicker is swapped in tests
var newLinkPicker = func(cfg *config.Config) linkPicker {
	return formPicker{theme: huhforms.Theme(cfg.ColorScheme)}
}

type formPicker struct {
	theme huh.Theme
}

func (p formPicker) PickKind(ctx context.Context, key string) (models.RelationKind, error) {
	kind := models.RelationRelatesTo
	err := huhforms.CreateRelationKindForm(key, &kind).WithTheme(p.theme).RunWithContext(ctx)
	return kind, err
}

func (p formPicker) PickTargets(ctx context.Context, key string, kind models.RelationKind, candidates []models.RelationItem) ([]string, error) {
	var keys []string
	err := huhforms.CreateRelationTargetsForm(key, kind, candidates, &keys).WithTheme(p.theme).RunWithContext(ctx)
	return keys, err
}

// LinkCmd returns the issue link subcommand
func LinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <key>",
		Short: "Relate an issue to one or more issues",
		Long: `Create relations from an issue to target issues in one request.
Either every relation is created or none is.

Relation types: parent, child, blocks, blocked_by, relates_to, duplicates, duplicated_by

With --interactive, a missing --type or --to is picked from a prompt. The
target list skips the issue itself and everything already related to it.

Examples:
  collab issue link WEB-1 --type child --to WEB-2 --to WEB-3
  collab issue link WEB-4 --type blocked_by --to API-1
  collab issue link WEB-1 -i
  collab issue link WEB-1 -i --type blocks`,
		Args: cobra.ExactArgs(1),
		RunE: runLink,
	}

	cmd.Flags().String("type", "", "Relation type, seen from <key>")
	cmd.Flags().StringSlice("to", nil, "Target issue key or id (repeatable)")
	cmd.Flags().BoolP("interactive", "i", false, "Pick the type and targets from a prompt")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runLink(cmd *cobra.Command, args []string) error {
	formatter := cli.FormatterFromCmd(cmd)
	ctx := cmd.Context()
	key := strings.ToUpper(args[0])

	kindFlag, _ := cmd.Flags().GetString("type")
	targets, _ := cmd.Flags().GetStringSlice("to")
	interactive, _ := cmd.Flags().GetBool("interactive")

	if !interactive {
		if kindFlag == "" {
			return formatter.Usage("--type is required", "Use one of: "+kindList()+", or pass -i to pick one")
		}
		if len(targets) == 0 {
			return formatter.Usage("at least one --to target is required", "collab issue link WEB-1 --type child --to WEB-2")
		}
	}

	var kind models.RelationKind
	if kindFlag != "" {
		kind = models.RelationKind(strings.ToLower(strings.TrimSpace(kindFlag)))
		if !kind.Valid() {
			return formatter.Usage(fmt.Sprintf("unknown relation type %q", kindFlag), "Use one of: "+kindList())
		}
	}

	cliInstance, err := cli.GetCLIFromContext(cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	if interactive {
		picker := newLinkPicker(cliInstance.Config)

		if kind == "" {
			kind, err = picker.PickKind(ctx, key)
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println(styles.SubtitleStyle.Render("Nothing linked"))
				return nil
			}
			if err != nil {
				return formatter.Fail(err)
			}
		}

		if len(targets) == 0 {
			candidates, err := linkCandidates(ctx, cliInstance.Client, key)
			if err != nil {
				return formatter.Fail(err)
			}
			if len(candidates) == 0 {
				fmt.Println(styles.SubtitleStyle.Render("No issues left to link"))
				return nil
			}
			targets, err = picker.PickTargets(ctx, key, kind, candidates)
			if err != nil && !errors.Is(err, huh.ErrUserAborted) {
				return formatter.Fail(err)
			}
			if len(targets) == 0 {
				fmt.Println(styles.SubtitleStyle.Render("Nothing linked"))
				return nil
			}
		}
	}

	inputs := make([]models.RelationInput, 0, len(targets))
	for _, t := range targets {
		inputs = append(inputs, models.RelationInput{TargetIssueID: strings.TrimSpace(t), RelationType: kind})
	}

	rel, err := cliInstance.Client.AddRelations(ctx, key, inputs)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Println(relations.Count(rel))
		return nil
	}
	if formatter.JSON {
		return formatter.Success(newRelationsOutput(key, rel))
	}

	label := relations.Config(kind).Label
	for _, t := range targets {
		fmt.Printf("✓ %s %s %s\n", key, strings.ToLower(label), strings.ToUpper(t))
	}
	return nil
}

// linkCandidates lists issues in the current workspace that key could be
// related to: neither key itself nor anything already related to it
func linkCandidates(ctx context.Context, client *api.Client, key string) ([]models.RelationItem, error) {
	items, err := client.SearchIssues(ctx, api.SearchParams{Workspace: client.Workspace()})
	if err != nil {
		return nil, err
	}
	rel, err := client.GetRelations(ctx, key)
	if err != nil {
		return nil, err
	}
	exclude := relations.RelatedIDs(rel)
	return excludeKey(relations.FilterCandidates(items, relations.PickerQuery{Exclude: exclude}), key), nil
}

func kindList() string {
	names := make([]string, len(models.RelationKinds))
	for i, k := range models.RelationKinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
