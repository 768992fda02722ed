// Package views implements the filter, sort and group pipeline that turns a
// workspace's issues into what a list, kanban, table or timeline view shows.
package views

import (
	"strings"
	"time"

	"github.com/Art-of-Technology/collab/internal/models"
)

// Tab is the issue-type tab selected above a view
type Tab string

const (
	TabAll     Tab = "all"
	TabActive  Tab = "active"
	TabBacklog Tab = "backlog"
)

// Unassigned is the assignee filter value that matches issues with no assignee
const Unassigned = "unassigned"

// SidebarFilters are the quick filters from the view sidebar. They have the
// same "value in selected set" shape as field filters.
type SidebarFilters struct {
	Assignee []string
	Label    []string
	Priority []string
	Project  []string
}

// Query is everything the pipeline narrows issues by
type Query struct {
	ProjectIDs []string
	Tab        Tab
	Search     string
	Fields     models.ViewFilters
	Sidebar    SidebarFilters
}

// Predicate reports whether an issue passes one stage of the pipeline
type Predicate func(models.Issue) bool

// Stages returns the pipeline stages in the order they are applied
func (q Query) Stages() []Predicate {
	return []Predicate{
		inProjects(q.ProjectIDs),
		inTab(q.Tab),
		matchesSearch(q.Search),
		matchesFields(q.Fields),
		matchesSidebar(q.Sidebar),
	}
}

// Filter runs issues through every stage. It never mutates the input and is
// idempotent: Filter(Filter(x)) equals Filter(x).
func Filter(issues []models.Issue, q Query) []models.Issue {
	stages := q.Stages()
	out := make([]models.Issue, 0, len(issues))
	for _, issue := range issues {
		if passes(issue, stages) {
			out = append(out, issue)
		}
	}
	return out
}

func passes(issue models.Issue, stages []Predicate) bool {
	for _, stage := range stages {
		if !stage(issue) {
			return false
		}
	}
	return true
}

// ============================================================================
// STAGES
// ============================================================================

func inProjects(projectIDs []string) Predicate {
	return func(i models.Issue) bool {
		return inSet(projectIDs, i.ProjectID())
	}
}

func inTab(tab Tab) Predicate {
	return func(i models.Issue) bool {
		status := normalize(i.Status)
		switch tab {
		case TabBacklog:
			return strings.Contains(status, "backlog")
		case TabActive:
			return !strings.Contains(status, "backlog") && !isClosedStatus(status)
		default:
			return true
		}
	}
}

func matchesSearch(search string) Predicate {
	needle := normalize(search)
	return func(i models.Issue) bool {
		if needle == "" {
			return true
		}
		return strings.Contains(strings.ToLower(i.Title), needle) ||
			strings.Contains(strings.ToLower(i.Key), needle) ||
			strings.Contains(strings.ToLower(i.Description), needle)
	}
}

func matchesFields(f models.ViewFilters) Predicate {
	return func(i models.Issue) bool {
		return inSetFold(f.Status, i.Status) &&
			inSetFold(f.Priority, i.Priority) &&
			inSetFold(f.Type, i.Type) &&
			assigneeIn(f.Assignee, i) &&
			labelsIn(f.Label, i) &&
			inSet(f.Project, i.ProjectID()) &&
			inDateRange(f.DateRange, i) &&
			matchesActionHistory(f.ActionHistory, i)
	}
}

func matchesSidebar(s SidebarFilters) Predicate {
	return func(i models.Issue) bool {
		return assigneeIn(s.Assignee, i) &&
			labelsIn(s.Label, i) &&
			inSetFold(s.Priority, i.Priority) &&
			inSet(s.Project, i.ProjectID())
	}
}

// ============================================================================
// FIELD PREDICATES
// ============================================================================

// inSet is the "value in selected set" predicate. An empty set selects everything.
func inSet(selected []string, value string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == value {
			return true
		}
	}
	return false
}

func inSetFold(selected []string, value string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if strings.EqualFold(s, value) {
			return true
		}
	}
	return false
}

func assigneeIn(selected []string, i models.Issue) bool {
	if len(selected) == 0 {
		return true
	}
	id := i.AssigneeID()
	for _, s := range selected {
		if s == id || (id == "" && strings.EqualFold(s, Unassigned)) {
			return true
		}
	}
	return false
}

func labelsIn(selected []string, i models.Issue) bool {
	if len(selected) == 0 {
		return true
	}
	for _, l := range i.Labels {
		if inSet(selected, l.ID) || inSetFold(selected, l.Name) {
			return true
		}
	}
	return false
}

// Date fields understood by date ranges and sorting
const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldDueDate   = "dueDate"
	FieldStartDate = "startDate"
)

func dateField(i models.Issue, field string) *time.Time {
	switch field {
	case FieldCreatedAt:
		return &i.CreatedAt
	case FieldUpdatedAt:
		return &i.UpdatedAt
	case FieldDueDate:
		return i.DueDate
	case FieldStartDate:
		return i.StartDate
	}
	return nil
}

func inDateRange(r *models.DateRange, i models.Issue) bool {
	if r == nil || (r.From == nil && r.To == nil) {
		return true
	}
	field := r.Field
	if field == "" {
		field = FieldCreatedAt
	}
	d := dateField(i, field)
	if d == nil {
		return false
	}
	if r.From != nil && d.Before(*r.From) {
		return false
	}
	if r.To != nil && d.After(*r.To) {
		return false
	}
	return true
}

func matchesActionHistory(f *models.ActionHistoryFilter, i models.Issue) bool {
	if f == nil || (len(f.Actions) == 0 && len(f.Actors) == 0 && f.Since == nil) {
		return true
	}
	for _, entry := range i.Activity {
		if !inSetFold(f.Actions, entry.Action) || !inSet(f.Actors, entry.ActorID) {
			continue
		}
		if f.Since != nil && entry.CreatedAt.Before(*f.Since) {
			continue
		}
		return true
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func isClosedStatus(normalized string) bool {
	switch normalized {
	case "done", "completed", "cancelled", "canceled":
		return true
	}
	return false
}
