package notifications

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Render renders a toast banner based on severity level
func Render(severity Severity, message string) string {
	style := severity.style()

	headerText := style.icon + " " + style.title
	maxWidth := max(lipgloss.Width(headerText), lipgloss.Width(message))

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(style.foreground)).
		Bold(true).
		Width(maxWidth)

	header := headerStyle.Render(headerText)

	messageContent := lipgloss.NewStyle().
		Foreground(lipgloss.Color(style.foreground)).
		Width(maxWidth).
		Render(message)

	content := lipgloss.JoinVertical(lipgloss.Left, header, messageContent)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(style.borderForeground)).
		Padding(0, 1).
		Render(content)
}

// RenderInline renders a compact single-line toast (for status bars)
func RenderInline(severity Severity, message string) string {
	style := severity.style()

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(style.foreground)).
		Background(lipgloss.Color(style.background)).
		Padding(0, 1).
		Render(style.icon + " " + message)
}

// RenderStack renders toasts stacked vertically, newest last
func RenderStack(toasts []Toast) string {
	if len(toasts) == 0 {
		return ""
	}
	banners := make([]string, 0, len(toasts))
	for _, t := range toasts {
		banners = append(banners, Render(t.Level, t.Message))
	}
	return strings.Join(banners, "\n")
}
