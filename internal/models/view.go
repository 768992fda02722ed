package models

import "time"

// DisplayType is the rendering mode of a view
type DisplayType string

const (
	DisplayList     DisplayType = "LIST"
	DisplayKanban   DisplayType = "KANBAN"
	DisplayTable    DisplayType = "TABLE"
	DisplayTimeline DisplayType = "TIMELINE"
)

// Valid reports whether d is a known display type
func (d DisplayType) Valid() bool {
	switch d {
	case DisplayList, DisplayKanban, DisplayTable, DisplayTimeline:
		return true
	}
	return false
}

// Sorting is the sort configuration of a view
type Sorting struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// DateRange restricts a date field to an inclusive window. Nil bounds are open.
type DateRange struct {
	Field string     `json:"field"`
	From  *time.Time `json:"from,omitempty"`
	To    *time.Time `json:"to,omitempty"`
}

// ActionHistoryFilter matches issues whose activity contains an entry
// satisfying every non-empty constraint
type ActionHistoryFilter struct {
	Actions []string   `json:"actions,omitempty"`
	Actors  []string   `json:"actors,omitempty"`
	Since   *time.Time `json:"since,omitempty"`
}

// ViewFilters is the persisted filter set of a view
type ViewFilters struct {
	Status        []string             `json:"status,omitempty"`
	Priority      []string             `json:"priority,omitempty"`
	Type          []string             `json:"type,omitempty"`
	Assignee      []string             `json:"assignee,omitempty"`
	Label         []string             `json:"label,omitempty"`
	Project       []string             `json:"project,omitempty"`
	DateRange     *DateRange           `json:"dateRange,omitempty"`
	ActionHistory *ActionHistoryFilter `json:"actionHistory,omitempty"`
}

// View is a saved configuration of filters, grouping, sorting and visible fields
type View struct {
	ID          string      `json:"id"`
	WorkspaceID string      `json:"workspaceId"`
	Name        string      `json:"name"`
	DisplayType DisplayType `json:"displayType"`
	Grouping    string      `json:"grouping,omitempty"`
	Sorting     Sorting     `json:"sorting"`
	Filters     ViewFilters `json:"filters"`
	Fields      []string    `json:"fields,omitempty"`
	ProjectIDs  []string    `json:"projectIds,omitempty"`
	Version     int64       `json:"version"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
