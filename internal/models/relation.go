package models

import "time"

// RelationKind names a relation from the perspective of the issue being viewed
type RelationKind string

const (
	RelationParent       RelationKind = "parent"
	RelationChild        RelationKind = "child"
	RelationBlocks       RelationKind = "blocks"
	RelationBlockedBy    RelationKind = "blocked_by"
	RelationRelatesTo    RelationKind = "relates_to"
	RelationDuplicates   RelationKind = "duplicates"
	RelationDuplicatedBy RelationKind = "duplicated_by"
)

// RelationKinds lists every kind in display order
var RelationKinds = []RelationKind{
	RelationParent,
	RelationChild,
	RelationBlocks,
	RelationBlockedBy,
	RelationRelatesTo,
	RelationDuplicates,
	RelationDuplicatedBy,
}

// Valid reports whether k is one of the known relation kinds
func (k RelationKind) Valid() bool {
	switch k {
	case RelationParent, RelationChild, RelationBlocks, RelationBlockedBy,
		RelationRelatesTo, RelationDuplicates, RelationDuplicatedBy:
		return true
	}
	return false
}

// Inverse returns the kind seen from the other end of the relation
func (k RelationKind) Inverse() RelationKind {
	switch k {
	case RelationParent:
		return RelationChild
	case RelationChild:
		return RelationParent
	case RelationBlocks:
		return RelationBlockedBy
	case RelationBlockedBy:
		return RelationBlocks
	case RelationDuplicates:
		return RelationDuplicatedBy
	case RelationDuplicatedBy:
		return RelationDuplicates
	default:
		return k
	}
}

// RelationItem is a denormalized snapshot of a related issue
type RelationItem struct {
	ID          string      `json:"id"`
	RelationID  string      `json:"relationId,omitempty"`
	Key         string      `json:"issueKey"`
	Title       string      `json:"title"`
	Status      string      `json:"status"`
	Priority    string      `json:"priority"`
	Type        string      `json:"type"`
	Assignee    *UserRef    `json:"assignee,omitempty"`
	Project     *ProjectRef `json:"project,omitempty"`
	WorkspaceID string      `json:"workspaceId"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// RelationRecord is the flat form the API uses for a single relation
type RelationRecord struct {
	RelationType RelationKind `json:"relationType"`
	RelatedItem  RelationItem `json:"relatedItem"`
}

// IssueRelations groups one issue's relations by kind
type IssueRelations struct {
	Parent       *RelationItem  `json:"parent,omitempty"`
	Children     []RelationItem `json:"children"`
	Blocks       []RelationItem `json:"blocks"`
	BlockedBy    []RelationItem `json:"blockedBy"`
	RelatesTo    []RelationItem `json:"relatesTo"`
	Duplicates   []RelationItem `json:"duplicates"`
	DuplicatedBy []RelationItem `json:"duplicatedBy"`
}

// RelationInput is one entry of a bulk add request
type RelationInput struct {
	TargetIssueID string       `json:"targetIssueId"`
	RelationType  RelationKind `json:"relationType"`
}

// RelationConfig is static display metadata for a relation kind
type RelationConfig struct {
	Kind        RelationKind `json:"kind"`
	Label       string       `json:"label"`
	Icon        string       `json:"icon"`
	Color       string       `json:"color"`
	Description string       `json:"description"`
}
