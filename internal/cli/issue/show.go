package issue

import (
	"fmt"
	"strings"

	"github.com/Art-of-Technology/collab/internal/cli"
	"github.com/Art-of-Technology/collab/internal/cli/styles"
	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/tui/components"
	"github.com/spf13/cobra"
)

// ShowCmd returns the issue show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Show issue details",
		Long: `Display an issue with its markdown description, metadata, relations
and sub-issue progress.

Examples:
  collab issue show WEB-1
  collab issue show WEB-1 --json`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

// showOutput is the JSON shape of issue show
type showOutput struct {
	Issue *models.Issue `json:"issue"`
	relationsOutput
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFromCmd(cmd)
	key := strings.ToUpper(args[0])

	cliInstance, err := cli.GetCLIFromContext(cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	issue, err := cliInstance.Client.GetIssue(ctx, key)
	if err != nil {
		return formatter.Fail(err)
	}
	rel, err := cliInstance.Client.GetRelations(ctx, key)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Println(issue.Key)
		return nil
	}
	if formatter.JSON {
		return formatter.Success(showOutput{Issue: issue, relationsOutput: newRelationsOutput(issue.Key, rel)})
	}

	fmt.Println(renderIssue(issue, rel))
	return nil
}

func renderIssue(issue *models.Issue, rel models.IssueRelations) string {
	var content strings.Builder

	content.WriteString(styles.TitleStyle.Render(issue.Key + ": " + issue.Title))
	content.WriteString("\n\n")

	content.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s\n",
		styles.LabelStyle.Render("Type:"),
		styles.ValueStyle.Render(issue.Type),
		styles.LabelStyle.Render("Priority:"),
		styles.BoldColoredText(issue.Priority, styles.PriorityColor(issue.Priority)),
		styles.LabelStyle.Render("Status:"),
		styles.ValueStyle.Render(issue.Status),
	))

	assignee := "Unassigned"
	if issue.Assignee != nil {
		assignee = issue.Assignee.Name
	}
	content.WriteString(fmt.Sprintf("%s %s\n", styles.LabelStyle.Render("Assignee:"), styles.ValueStyle.Render(assignee)))

	if issue.Project != nil {
		content.WriteString(fmt.Sprintf("%s %s\n", styles.LabelStyle.Render("Project:"), styles.ValueStyle.Render(issue.Project.Name)))
	}
	if issue.DueDate != nil {
		content.WriteString(fmt.Sprintf("%s %s\n", styles.LabelStyle.Render("Due:"), styles.ValueStyle.Render(issue.DueDate.Format("Jan 2, 2006"))))
	}
	if !issue.UpdatedAt.IsZero() {
		content.WriteString(fmt.Sprintf("%s %s\n",
			styles.LabelStyle.Render("Updated:"),
			styles.SubtitleStyle.Render(issue.UpdatedAt.Format("Jan 2, 2006 3:04 PM")),
		))
	}

	if len(issue.Labels) > 0 {
		chips := make([]string, 0, len(issue.Labels))
		for _, l := range issue.Labels {
			chips = append(chips, styles.RenderLabelChip(l))
		}
		content.WriteString(styles.LabelStyle.Render("Labels:") + " " + strings.Join(chips, " ") + "\n")
	}

	content.WriteString(styles.SectionStyle.Render("Description"))
	content.WriteString("\n")
	content.WriteString(components.RenderDescription(components.DescriptionProps{
		Description: issue.Description,
		Width:       styles.CardWidth - 6,
	}))
	content.WriteString("\n")

	content.WriteString(styles.SectionStyle.Render("Relations"))
	content.WriteString("\n")
	content.WriteString(renderRelations(rel))

	return styles.RenderCard(content.String())
}
