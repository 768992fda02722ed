package views

import (
	"slices"

	"github.com/Art-of-Technology/collab/internal/models"
)

// Draft is the working copy of a view. Edits go to the temp copy and are
// diffed against the persisted version to drive "unsaved changes" UI.
type Draft struct {
	saved models.View
	temp  models.View
}

// NewDraft starts a working copy of v
func NewDraft(v models.View) *Draft {
	return &Draft{saved: cloneView(v), temp: cloneView(v)}
}

// Saved returns the persisted version
func (d *Draft) Saved() models.View { return cloneView(d.saved) }

// Current returns the working copy
func (d *Draft) Current() models.View { return cloneView(d.temp) }

// SetDisplayType switches the rendering mode
func (d *Draft) SetDisplayType(t models.DisplayType) { d.temp.DisplayType = t }

// SetGrouping sets the grouping field; GroupNone or "" clears it
func (d *Draft) SetGrouping(field string) {
	if field == GroupNone {
		field = ""
	}
	d.temp.Grouping = field
}

// SetSorting sets the sort field and direction
func (d *Draft) SetSorting(s models.Sorting) { d.temp.Sorting = s }

// SetFilters replaces the field filters
func (d *Draft) SetFilters(f models.ViewFilters) { d.temp.Filters = cloneFilters(f) }

// SetProjects replaces the project scope
func (d *Draft) SetProjects(ids []string) { d.temp.ProjectIDs = slices.Clone(ids) }

// ToggleField shows a hidden field or hides a visible one
func (d *Draft) ToggleField(field string) {
	if i := slices.Index(d.temp.Fields, field); i >= 0 {
		d.temp.Fields = slices.Delete(slices.Clone(d.temp.Fields), i, i+1)
		return
	}
	d.temp.Fields = append(slices.Clone(d.temp.Fields), field)
}

// Reset discards unsaved edits
func (d *Draft) Reset() { d.temp = cloneView(d.saved) }

// Commit rebases the draft on a freshly saved view
func (d *Draft) Commit(saved models.View) {
	d.saved = cloneView(saved)
	d.temp = cloneView(saved)
}

// Dirty reports whether the working copy differs from the persisted version
func (d *Draft) Dirty() bool {
	return len(d.Changes()) > 0
}

// Changes names the settings that differ from the persisted version.
// Filter values and field lists are compared as sets.
func (d *Draft) Changes() []string {
	a, b := d.saved, d.temp
	var changed []string

	if a.DisplayType != b.DisplayType {
		changed = append(changed, "displayType")
	}
	if a.Grouping != b.Grouping {
		changed = append(changed, "grouping")
	}
	if a.Sorting != b.Sorting {
		changed = append(changed, "sorting")
	}
	if !sameFilters(a.Filters, b.Filters) {
		changed = append(changed, "filters")
	}
	if !sameSet(a.Fields, b.Fields) {
		changed = append(changed, "fields")
	}
	if !sameSet(a.ProjectIDs, b.ProjectIDs) {
		changed = append(changed, "projects")
	}
	return changed
}

func sameFilters(a, b models.ViewFilters) bool {
	return sameSet(a.Status, b.Status) &&
		sameSet(a.Priority, b.Priority) &&
		sameSet(a.Type, b.Type) &&
		sameSet(a.Assignee, b.Assignee) &&
		sameSet(a.Label, b.Label) &&
		sameSet(a.Project, b.Project) &&
		sameDateRange(a.DateRange, b.DateRange) &&
		sameActionHistory(a.ActionHistory, b.ActionHistory)
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

func sameDateRange(a, b *models.DateRange) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Field == b.Field && sameTime(a.From, b.From) && sameTime(a.To, b.To)
}

func sameActionHistory(a, b *models.ActionHistoryFilter) bool {
	if a == nil || b == nil {
		return a == b
	}
	return sameSet(a.Actions, b.Actions) && sameSet(a.Actors, b.Actors) && sameTime(a.Since, b.Since)
}

func sameTime[T interface{ Equal(T) bool }](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return (*a).Equal(*b)
}

func cloneView(v models.View) models.View {
	v.Filters = cloneFilters(v.Filters)
	v.Fields = slices.Clone(v.Fields)
	v.ProjectIDs = slices.Clone(v.ProjectIDs)
	return v
}

func cloneFilters(f models.ViewFilters) models.ViewFilters {
	f.Status = slices.Clone(f.Status)
	f.Priority = slices.Clone(f.Priority)
	f.Type = slices.Clone(f.Type)
	f.Assignee = slices.Clone(f.Assignee)
	f.Label = slices.Clone(f.Label)
	f.Project = slices.Clone(f.Project)
	if f.DateRange != nil {
		r := *f.DateRange
		f.DateRange = &r
	}
	if f.ActionHistory != nil {
		h := *f.ActionHistory
		h.Actions = slices.Clone(h.Actions)
		h.Actors = slices.Clone(h.Actors)
		f.ActionHistory = &h
	}
	return f
}
