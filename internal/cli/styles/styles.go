package styles

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/Art-of-Technology/collab/internal/config/colors"
	"github.com/Art-of-Technology/collab/internal/models"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 80

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Type:", "Priority:"
	ValueStyle    lipgloss.Style // For field values
	SectionStyle  lipgloss.Style // For section headers like "Description", "Children"

	scheme colors.ColorScheme
)

func init() {
	Init(*colors.Default())
}

// Init initializes all CLI styles with the given color scheme
func Init(c colors.ColorScheme) {
	scheme = c

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(c.Accent)).
		Padding(1, 2).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(c.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(c.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Normal))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Accent)).
		Bold(true).
		MarginTop(1)
}

// ═══════════════════════════════════════════════════════════════════
// HELPER FUNCTIONS
// ═══════════════════════════════════════════════════════════════════

// ColoredText renders text with a hex color
func ColoredText(text, hexColor string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexColor)).
		Render(text)
}

// BoldColoredText renders bold text with a hex color
func BoldColoredText(text, hexColor string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(hexColor)).
		Render(text)
}

// PriorityColor returns the scheme color for a priority
func PriorityColor(priority string) string {
	switch priority {
	case models.PriorityUrgent:
		return scheme.Urgent
	case models.PriorityHigh:
		return scheme.High
	case models.PriorityMedium:
		return scheme.Medium
	default:
		return scheme.Low
	}
}

// RenderLabelChip renders a label as "[name]" with the label's color
func RenderLabelChip(label models.Label) string {
	return BoldColoredText("["+label.Name+"]", label.Color)
}

// RenderRelationItem renders a related issue with a colored bullet
// Format: "• WEB-12 - Title (Status)"
func RenderRelationItem(item models.RelationItem, color string) string {
	ref := fmt.Sprintf("%s - %s", item.Key, item.Title)
	return ColoredText("• "+ref, color) + " " + SubtitleStyle.Render("("+item.Status+")")
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}
