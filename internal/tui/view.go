package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Art-of-Technology/collab/internal/board"
	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/notifications"
	"github.com/Art-of-Technology/collab/internal/relations"
	"github.com/Art-of-Technology/collab/internal/tui/components"
)

// View renders the board on the alternate screen
func (m Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.Content = m.render()
	return view
}

// render draws the board, the detail pane, toasts and help
func (m Model) render() string {
	if m.ctrl == nil {
		return "Loading..."
	}

	cols, phase := m.ctrl.Snapshot()
	drag := m.ctrl.Dragging()

	header := m.styles.Title.Render(m.title)
	if phase != board.PhaseIdle {
		header += " " + m.styles.Subtle.Render(phase.String())
	}
	if m.loading {
		header += " " + m.styles.Subtle.Render("refreshing...")
	}
	if m.quitting {
		header += " " + m.styles.Subtle.Render("saving...")
	}

	body := m.renderColumns(cols, drag)
	if m.detail {
		if issue, ok := m.selectedIssue(); ok {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", m.renderDetail(issue))
		}
	}

	sections := []string{header, body}
	if stack := notifications.RenderStack(m.toasts.Active()); stack != "" {
		sections = append(sections, stack)
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderColumns(cols []board.Column, drag *board.Drag) string {
	if len(cols) == 0 {
		return m.styles.Subtle.Render("This project has no columns")
	}

	rendered := make([]string, len(cols))
	for i, col := range cols {
		rendered[i] = m.renderColumn(i, col, drag)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderColumn(index int, col board.Column, drag *board.Drag) string {
	selected := index == m.column
	draggingIssue := drag != nil && drag.Kind == board.DragIssue

	var b strings.Builder
	b.WriteString(m.styles.ColumnTitle.Render(fmt.Sprintf("%s (%d)", col.Name, len(col.Issues))))
	b.WriteString("\n")

	for i, issue := range col.Issues {
		if selected && draggingIssue && i == m.row {
			b.WriteString(m.styles.Subtle.Render("── drop here ──") + "\n")
		}
		style := m.styles.Card
		switch {
		case drag != nil && drag.IssueID == issue.ID:
			style = m.styles.DraggedCard
		case selected && !draggingIssue && i == m.row:
			style = m.styles.SelectedCard
		}
		b.WriteString(style.Render(m.renderCard(issue)) + "\n")
	}
	if selected && draggingIssue && m.row >= len(col.Issues) {
		b.WriteString(m.styles.Subtle.Render("── drop here ──") + "\n")
	}
	if len(col.Issues) == 0 && !(selected && draggingIssue) {
		b.WriteString(m.styles.Subtle.Render("No issues"))
	}

	style := m.styles.Column
	switch {
	case drag != nil && drag.Kind == board.DragColumn && drag.ColumnID == col.ID:
		style = m.styles.DraggedColumn
	case selected:
		style = m.styles.SelectedColumn
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderCard(issue models.Issue) string {
	line := issue.Key + " " + m.styles.Priority(issue.Priority)
	out := line + "\n" + issue.Title
	if issue.Assignee != nil {
		out += "\n" + m.styles.Subtle.Render("@"+issue.Assignee.Name)
	}
	return out
}

func (m Model) renderDetail(issue models.Issue) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(issue.Key+": "+issue.Title) + "\n")
	b.WriteString(fmt.Sprintf("%s  %s  %s\n", issue.Type, m.styles.Priority(issue.Priority), issue.Status))
	if issue.Assignee != nil {
		b.WriteString("Assignee: " + issue.Assignee.Name + "\n")
	}
	b.WriteString("\n")
	b.WriteString(components.RenderDescription(components.DescriptionProps{
		Description: issue.Description,
		Width:       columnWidth * 2,
	}))

	if m.detailRel != nil {
		b.WriteString("\n\n")
		b.WriteString(m.renderRelations(*m.detailRel))
	}
	return m.styles.Detail.Width(columnWidth*2 + 4).Render(b.String())
}

func (m Model) renderRelations(rel models.IssueRelations) string {
	if !relations.HasAnyRelations(rel) {
		return m.styles.Subtle.Render("No relations")
	}

	var lines []string
	for _, cfg := range relations.Configs() {
		items := relations.Bucket(rel, cfg.Kind)
		if len(items) == 0 {
			continue
		}
		keys := make([]string, len(items))
		for i, it := range items {
			keys[i] = it.Key
		}
		label := lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Color)).Render(cfg.Label + ":")
		lines = append(lines, label+" "+strings.Join(keys, ", "))
	}
	if len(rel.Children) > 0 {
		p := relations.CalculateSubIssueProgress(rel.Children)
		lines = append(lines, fmt.Sprintf("Progress: %d/%d (%d%%)", p.Completed, p.Total, p.Percentage))
	}
	return strings.Join(lines, "\n")
}
