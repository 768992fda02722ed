package view

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Art-of-Technology/collab/internal/api"
	"github.com/Art-of-Technology/collab/internal/cli"
	"github.com/Art-of-Technology/collab/internal/cli/styles"
	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/views"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ShowCmd returns the view show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Render a saved view",
		Long: `Fetch the workspace's issues and render them through a saved view:
filters first, then grouping (kanban, grouped lists) or sorting.

Examples:
  collab view show 1f0c...
  collab view show 1f0c... --tab active --search login`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cmd.Flags().String("tab", string(views.TabAll), "Issue tab: all, active or backlog")
	cmd.Flags().String("search", "", "Free text search over title, key and description")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFromCmd(cmd)

	tab, _ := cmd.Flags().GetString("tab")
	search, _ := cmd.Flags().GetString("search")
	switch views.Tab(tab) {
	case views.TabAll, views.TabActive, views.TabBacklog:
	default:
		return formatter.Usage(fmt.Sprintf("unknown tab %q", tab), "Use one of: all, active, backlog")
	}

	cliInstance, err := cli.GetCLIFromContext(cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	client := cliInstance.Client

	v, err := client.GetView(ctx, args[0])
	if err != nil {
		return formatter.Fail(err)
	}
	issues, err := client.ListIssues(ctx, v.ProjectIDs...)
	if err != nil {
		return formatter.Fail(err)
	}
	statuses, err := fetchStatuses(ctx, client, projectsOf(*v, issues))
	if err != nil {
		return formatter.Fail(err)
	}

	result := views.Render(issues, *v, views.RenderOptions{
		Tab:      views.Tab(tab),
		Search:   search,
		Statuses: statuses,
	})

	if formatter.Quiet {
		for _, issue := range flatten(result) {
			fmt.Println(issue.Key)
		}
		return nil
	}
	if formatter.JSON {
		return formatter.Success(result)
	}

	fmt.Println(styles.TitleStyle.Render(v.Name) + " " + styles.SubtitleStyle.Render(fmt.Sprintf("%s, %d issues", v.DisplayType, result.Total)))
	fmt.Println(renderResult(result))
	return nil
}

// projectsOf returns the projects a view covers: its own list, or every
// project among the fetched issues
func projectsOf(v models.View, issues []models.Issue) []string {
	if len(v.ProjectIDs) > 0 {
		return v.ProjectIDs
	}
	var ids []string
	for _, issue := range issues {
		if id := issue.ProjectID(); id != "" && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// fetchStatuses loads every project's statuses concurrently, keeping
// project order
func fetchStatuses(ctx context.Context, client *api.Client, projectIDs []string) ([]models.Status, error) {
	perProject := make([][]models.Status, len(projectIDs))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range projectIDs {
		g.Go(func() error {
			statuses, err := client.ListStatuses(ctx, id)
			if err != nil {
				return err
			}
			perProject[i] = statuses
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(perProject...), nil
}

func flatten(r views.Result) []models.Issue {
	if !r.Grouped() {
		return r.Issues
	}
	var out []models.Issue
	for _, g := range r.Groups {
		out = append(out, g.Issues...)
	}
	return out
}

func renderResult(r views.Result) string {
	if r.Total == 0 && !r.Grouped() {
		return styles.SubtitleStyle.Render("No issues match")
	}

	var b strings.Builder
	if r.Grouped() {
		for _, g := range r.Groups {
			b.WriteString(styles.SectionStyle.Render(fmt.Sprintf("%s (%d)", g.Label, len(g.Issues))))
			b.WriteString("\n")
			for _, issue := range g.Issues {
				b.WriteString("  " + issueLine(issue) + "\n")
			}
		}
		return strings.TrimRight(b.String(), "\n")
	}

	for _, issue := range r.Issues {
		b.WriteString(issueLine(issue) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func issueLine(issue models.Issue) string {
	line := fmt.Sprintf("%-9s %s %s",
		issue.Key,
		styles.BoldColoredText(fmt.Sprintf("%-6s", issue.Priority), styles.PriorityColor(issue.Priority)),
		issue.Title)
	if issue.Assignee != nil {
		line += " " + styles.SubtitleStyle.Render("@"+issue.Assignee.Name)
	}
	if issue.DueDate != nil {
		line += " " + styles.SubtitleStyle.Render("due "+issue.DueDate.Format("Jan 2"))
	}
	return line
}
