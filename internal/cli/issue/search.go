package issue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Art-of-Technology/collab/internal/api"
	"github.com/Art-of-Technology/collab/internal/cli"
	"github.com/Art-of-Technology/collab/internal/cli/styles"
	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/relations"
	"github.com/spf13/cobra"
)

var errNoQuery = errors.New("search needs a query, --type or --project")

// SearchCmd returns the issue search subcommand
func SearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Find issues to relate",
		Long: `Search issues by title or key. The type filter accepts issue types and
the "issue" category, which covers everything except epics and milestones.

Examples:
  collab issue search login --type issue
  collab issue search --type epic --all
  collab issue search pay --for WEB-1   # hide issues already related to WEB-1`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringSlice("type", nil, "Issue types or \"issue\" (repeatable)")
	cmd.Flags().String("project", "", "Limit to a project id")
	cmd.Flags().Bool("all", false, "Search every workspace")
	cmd.Flags().String("for", "", "Exclude the given issue and everything already related to it")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	formatter := cli.FormatterFromCmd(cmd)
	ctx := cmd.Context()

	var query string
	if len(args) > 0 {
		query = args[0]
	}
	types, _ := cmd.Flags().GetStringSlice("type")
	project, _ := cmd.Flags().GetString("project")
	all, _ := cmd.Flags().GetBool("all")
	forKey, _ := cmd.Flags().GetString("for")

	if strings.TrimSpace(query) == "" && len(types) == 0 && project == "" {
		return formatter.Usage(errNoQuery.Error(), "collab issue search <text>")
	}

	cliInstance, err := cli.GetCLIFromContext(cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	params := api.SearchParams{Query: query, Types: types, ProjectID: project}
	if !all {
		params.Workspace = cliInstance.Client.Workspace()
	}
	items, err := cliInstance.Client.SearchIssues(ctx, params)
	if err != nil {
		return formatter.Fail(err)
	}

	if forKey != "" {
		forKey = strings.ToUpper(forKey)
		rel, err := cliInstance.Client.GetRelations(ctx, forKey)
		if err != nil {
			return formatter.Fail(err)
		}
		exclude := relations.RelatedIDs(rel)
		items = excludeKey(relations.FilterCandidates(items, relations.PickerQuery{Exclude: exclude}), forKey)
	}

	if formatter.Quiet {
		for _, it := range items {
			fmt.Println(it.Key)
		}
		return nil
	}
	if formatter.JSON {
		return formatter.Success(items)
	}

	if len(items) == 0 {
		fmt.Println(styles.SubtitleStyle.Render("No matching issues"))
		return nil
	}
	for _, it := range items {
		fmt.Printf("%-10s %-10s %-14s %s\n", it.Key, it.Type, it.Status, it.Title)
	}
	return nil
}

func excludeKey(items []models.RelationItem, key string) []models.RelationItem {
	out := items[:0]
	for _, it := range items {
		if !strings.EqualFold(it.Key, key) {
			out = append(out, it)
		}
	}
	return out
}
