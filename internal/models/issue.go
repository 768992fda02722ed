package models

import "time"

// UserRef is the compact user shape embedded in issues and relation items
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// ProjectRef is the compact project shape embedded in issues and relation items
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Label is a workspace label that can be attached to issues
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ActivityEntry is one row of an issue's action history
type ActivityEntry struct {
	Action    string    `json:"action"`
	ActorID   string    `json:"actorId,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Issue is the tracked work item. The server owns it; clients only forward
// partial updates.
type Issue struct {
	ID          string          `json:"id"`
	Key         string          `json:"issueKey"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	Type        string          `json:"type"`
	Assignee    *UserRef        `json:"assignee,omitempty"`
	Labels      []Label         `json:"labels,omitempty"`
	Project     *ProjectRef     `json:"project,omitempty"`
	WorkspaceID string          `json:"workspaceId"`
	StartDate   *time.Time      `json:"startDate,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Position    int             `json:"position"`
	Version     int64           `json:"version"`
	Activity    []ActivityEntry `json:"activity,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProjectID returns the issue's project id or "" when it has none
func (i Issue) ProjectID() string {
	if i.Project == nil {
		return ""
	}
	return i.Project.ID
}

// AssigneeID returns the assignee id or "" when unassigned
func (i Issue) AssigneeID() string {
	if i.Assignee == nil {
		return ""
	}
	return i.Assignee.ID
}

// IssueUpdate is a partial update. Nil fields are left untouched.
// ExpectedVersion, when non-zero, makes the write conditional.
type IssueUpdate struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Status          *string    `json:"status,omitempty"`
	Priority        *string    `json:"priority,omitempty"`
	Type            *string    `json:"type,omitempty"`
	AssigneeID      *string    `json:"assigneeId,omitempty"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
	Position        *int       `json:"position,omitempty"`
	ExpectedVersion int64      `json:"-"`
}

// IsEmpty reports whether the update changes nothing
func (u IssueUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.Type == nil && u.AssigneeID == nil &&
		u.DueDate == nil && u.Position == nil
}
