// Package issue holds the cli commands that read and link issues
// e.g., collab issue ...
package issue

import (
	"fmt"
	"strings"

	"github.com/Art-of-Technology/collab/internal/cli/styles"
	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/relations"
	"github.com/spf13/cobra"
)

// IssueCmd returns the issue parent command
func IssueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Inspect issues and manage their relations",
	}

	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(RelationsCmd())
	cmd.AddCommand(LinkCmd())
	cmd.AddCommand(UnlinkCmd())
	cmd.AddCommand(SearchCmd())

	return cmd
}

// relationsOutput is the JSON shape of an issue's relations
type relationsOutput struct {
	IssueKey     string                `json:"issueKey"`
	Relations    models.IssueRelations `json:"relations"`
	Progress     relations.Progress    `json:"subIssueProgress"`
	HasRelations bool                  `json:"hasRelations"`
}

func newRelationsOutput(key string, rel models.IssueRelations) relationsOutput {
	return relationsOutput{
		IssueKey:     key,
		Relations:    rel,
		Progress:     relations.CalculateSubIssueProgress(rel.Children),
		HasRelations: relations.HasAnyRelations(rel),
	}
}

// renderRelations writes one section per non-empty bucket in display order,
// followed by the sub-issue progress when the issue has children
func renderRelations(rel models.IssueRelations) string {
	if !relations.HasAnyRelations(rel) {
		return styles.SubtitleStyle.Render("No relations")
	}

	var b strings.Builder
	for _, cfg := range relations.Configs() {
		items := relations.Bucket(rel, cfg.Kind)
		if len(items) == 0 {
			continue
		}
		b.WriteString(styles.SectionStyle.Render(fmt.Sprintf("%s (%d)", cfg.Label, len(items))))
		b.WriteString("\n")
		for _, item := range items {
			b.WriteString("  " + styles.RenderRelationItem(item, cfg.Color) + "\n")
		}
	}

	if len(rel.Children) > 0 {
		b.WriteString("\n")
		b.WriteString(renderProgress(relations.CalculateSubIssueProgress(rel.Children)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

const progressBarWidth = 20

// renderProgress draws "Sub-issues [████░░░░] 1/3 (33%)"
func renderProgress(p relations.Progress) string {
	filled := p.Percentage * progressBarWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)
	return fmt.Sprintf("%s [%s] %d/%d (%d%%)",
		styles.LabelStyle.Render("Sub-issues"), bar, p.Completed, p.Total, p.Percentage)
}
