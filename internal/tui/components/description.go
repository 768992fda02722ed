// Package components holds rendering pieces shared by the board and the CLI
package components

import (
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
)

// minWrap keeps glamour from wrapping every word on narrow panes
const minWrap = 20

// DescriptionProps configures RenderDescription
type DescriptionProps struct {
	Description string
	Width       int
	// Placeholder replaces an empty description; "No description" when unset
	Placeholder string
}

// term renderers are slow to build, one per wrap width is kept
var renderers sync.Map // int -> *glamour.TermRenderer

func markdownRenderer(width int) (*glamour.TermRenderer, error) {
	width = max(width, minWrap)
	if r, ok := renderers.Load(width); ok {
		return r.(*glamour.TermRenderer), nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	actual, _ := renderers.LoadOrStore(width, r)
	return actual.(*glamour.TermRenderer), nil
}

var placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)

// RenderDescription renders an issue description as markdown. The raw text
// is returned when rendering fails.
func RenderDescription(props DescriptionProps) string {
	if strings.TrimSpace(props.Description) == "" {
		placeholder := props.Placeholder
		if placeholder == "" {
			placeholder = "No description"
		}
		return placeholderStyle.Render(placeholder)
	}

	r, err := markdownRenderer(props.Width)
	if err != nil {
		return props.Description
	}
	out, err := r.Render(props.Description)
	if err != nil {
		return props.Description
	}
	return strings.TrimSpace(out)
}
