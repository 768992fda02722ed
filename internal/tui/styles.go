package tui

import (
	"charm.land/lipgloss/v2"
	"github.com/Art-of-Technology/collab/internal/config/colors"
	"github.com/Art-of-Technology/collab/internal/models"
)

const (
	columnWidth = 30
	cardWidth   = columnWidth - 4
)

// Styles are the board styles derived from a color scheme
type Styles struct {
	Column         lipgloss.Style
	SelectedColumn lipgloss.Style
	DraggedColumn  lipgloss.Style
	ColumnTitle    lipgloss.Style
	Card           lipgloss.Style
	SelectedCard   lipgloss.Style
	DraggedCard    lipgloss.Style
	Title          lipgloss.Style
	Subtle         lipgloss.Style
	Detail         lipgloss.Style
	scheme         colors.ColorScheme
}

// NewStyles builds styles from c. Missing colors come from its preset.
func NewStyles(c colors.ColorScheme) Styles {
	c.ApplyDefaults()

	column := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(c.ColumnBorder)).
		Width(columnWidth).
		Padding(0, 1)

	card := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(c.CardBorder)).
		Foreground(lipgloss.Color(c.Normal)).
		Width(cardWidth)

	return Styles{
		Column:         column,
		SelectedColumn: column.BorderForeground(lipgloss.Color(c.SelectedBorder)),
		DraggedColumn:  column.BorderForeground(lipgloss.Color(c.DraggingBorder)).BorderStyle(lipgloss.DoubleBorder()),
		ColumnTitle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Accent)),
		Card:           card,
		SelectedCard:   card.BorderForeground(lipgloss.Color(c.SelectedBorder)),
		DraggedCard:    card.BorderForeground(lipgloss.Color(c.DraggingBorder)).BorderStyle(lipgloss.ThickBorder()),
		Title:          lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Title)),
		Subtle:         lipgloss.NewStyle().Foreground(lipgloss.Color(c.Subtle)),
		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.Accent)).
			Padding(0, 1),
		scheme: c,
	}
}

// Priority renders a priority badge in the scheme's color for it
func (s Styles) Priority(priority string) string {
	var color string
	switch priority {
	case models.PriorityUrgent:
		color = s.scheme.Urgent
	case models.PriorityHigh:
		color = s.scheme.High
	case models.PriorityMedium:
		color = s.scheme.Medium
	default:
		color = s.scheme.Low
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(priority)
}
