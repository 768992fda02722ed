package models

// ============================================================================
// PRIORITY CONSTANTS
// ============================================================================

// Priority values as sent by the API
const (
	PriorityUrgent = "URGENT"
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

// ============================================================================
// ISSUE TYPE CONSTANTS
// ============================================================================

// Issue type values as sent by the API
const (
	IssueTypeEpic      = "EPIC"
	IssueTypeStory     = "STORY"
	IssueTypeTask      = "TASK"
	IssueTypeBug       = "BUG"
	IssueTypeMilestone = "MILESTONE"
	IssueTypeSubtask   = "SUBTASK"
)

// IssueTypes lists issue types in display order
var IssueTypes = []string{
	IssueTypeEpic,
	IssueTypeStory,
	IssueTypeTask,
	IssueTypeBug,
	IssueTypeMilestone,
	IssueTypeSubtask,
}

// ============================================================================
// ACTIVITY ACTIONS
// ============================================================================

// Actions recorded in an issue's activity history
const (
	ActionCreated         = "created"
	ActionStatusChanged   = "status_changed"
	ActionAssigned        = "assigned"
	ActionPriorityChanged = "priority_changed"
	ActionUpdated         = "updated"
	ActionRelationAdded   = "relation_added"
	ActionRelationRemoved = "relation_removed"
)

// ============================================================================
// POSITION CONSTANTS
// ============================================================================

// DefaultIssuePosition is the position given to issues appended to a column
const DefaultIssuePosition = 9999
