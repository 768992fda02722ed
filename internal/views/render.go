package views

import (
	"slices"

	"github.com/Art-of-Technology/collab/internal/models"
)

// GroupNone disables grouping in list views
const GroupNone = "none"

// RenderOptions carries the per-session state that is not part of a saved view
type RenderOptions struct {
	Tab      Tab
	Search   string
	Sidebar  SidebarFilters
	Statuses []models.Status
}

// Result is what a view displays. Grouped modes fill Groups, flat modes fill Issues.
type Result struct {
	Mode   models.DisplayType `json:"mode"`
	Groups []Group            `json:"groups,omitempty"`
	Issues []models.Issue     `json:"issues,omitempty"`
	Total  int                `json:"total"`
}

// Grouped reports whether the result is split into groups
func (r Result) Grouped() bool {
	return r.Groups != nil
}

// QueryFor builds the pipeline query for a saved view plus session options
func QueryFor(view models.View, opts RenderOptions) Query {
	return Query{
		ProjectIDs: view.ProjectIDs,
		Tab:        opts.Tab,
		Search:     opts.Search,
		Fields:     view.Filters,
		Sidebar:    opts.Sidebar,
	}
}

// Render filters issues and then groups or sorts them according to the
// view's display type. Grouping and sorting never apply together:
// kanban groups into columns ordered by position, list groups when a grouping
// is set and sorts otherwise, table only sorts, timeline sorts by schedule.
func Render(issues []models.Issue, view models.View, opts RenderOptions) Result {
	filtered := Filter(issues, QueryFor(view, opts))
	res := Result{Mode: view.DisplayType, Total: len(filtered)}

	switch view.DisplayType {
	case models.DisplayKanban:
		field := view.Grouping
		if !IsGroupable(field) {
			field = FieldStatus
		}
		byPosition := Sort(filtered, models.Sorting{Field: FieldPosition, Direction: Asc})
		res.Groups = GroupBy(byPosition, field, GroupOptions{Statuses: opts.Statuses, IncludeEmpty: true})

	case models.DisplayTimeline:
		res.Issues = sortTimeline(filtered)

	case models.DisplayTable:
		res.Issues = Sort(filtered, view.Sorting)

	default:
		if IsGroupable(view.Grouping) {
			res.Groups = GroupBy(filtered, view.Grouping, GroupOptions{Statuses: opts.Statuses})
			break
		}
		res.Issues = Sort(filtered, view.Sorting)
	}
	return res
}

func sortTimeline(issues []models.Issue) []models.Issue {
	out := slices.Clone(issues)
	slices.SortStableFunc(out, func(a, b models.Issue) int {
		if c, _ := compareMissingDates(a, b, FieldStartDate); c != 0 {
			return c
		}
		if c := Compare(a, b, FieldStartDate); c != 0 {
			return c
		}
		if c, _ := compareMissingDates(a, b, FieldDueDate); c != 0 {
			return c
		}
		return Compare(a, b, FieldDueDate)
	})
	return out
}
