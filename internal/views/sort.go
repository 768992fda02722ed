package views

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Art-of-Technology/collab/internal/models"
)

// Sort and group fields that are not dates
const (
	FieldPriority = "priority"
	FieldStatus   = "status"
	FieldTitle    = "title"
	FieldKey      = "key"
	FieldType     = "type"
	FieldAssignee = "assignee"
	FieldProject  = "project"
	FieldPosition = "position"
)

// Sort directions
const (
	Asc  = "asc"
	Desc = "desc"
)

// SortableFields lists the fields issues can be sorted by
var SortableFields = []string{
	FieldPriority, FieldStatus, FieldTitle, FieldKey, FieldType, FieldAssignee, FieldProject,
	FieldPosition, FieldCreatedAt, FieldUpdatedAt, FieldDueDate, FieldStartDate,
}

// IsSortable reports whether field is a supported sort field
func IsSortable(field string) bool {
	return slices.Contains(SortableFields, field)
}

var priorityRank = map[string]int{
	models.PriorityUrgent: 4,
	models.PriorityHigh:   3,
	models.PriorityMedium: 2,
	models.PriorityLow:    1,
}

// PriorityRank maps a priority to its rank. Unknown priorities rank 0.
func PriorityRank(priority string) int {
	return priorityRank[strings.ToUpper(strings.TrimSpace(priority))]
}

// DefaultDirection is the direction used when a sorting leaves it blank.
// Priority and audit timestamps read best highest/newest first.
func DefaultDirection(field string) string {
	switch field {
	case FieldPriority, FieldCreatedAt, FieldUpdatedAt:
		return Desc
	}
	return Asc
}

// Sort returns a stably sorted copy of issues. Equal values keep their
// relative order; issues missing a date always sort after dated ones.
func Sort(issues []models.Issue, s models.Sorting) []models.Issue {
	out := slices.Clone(issues)
	if s.Field == "" {
		return out
	}

	dir := strings.ToLower(s.Direction)
	if dir != Asc && dir != Desc {
		dir = DefaultDirection(s.Field)
	}

	slices.SortStableFunc(out, func(a, b models.Issue) int {
		if c, ok := compareMissingDates(a, b, s.Field); ok {
			return c
		}
		c := Compare(a, b, s.Field)
		if dir == Desc {
			return -c
		}
		return c
	})
	return out
}

// Compare orders a before b ascending by field. It returns 0 for equal values.
func Compare(a, b models.Issue, field string) int {
	switch field {
	case FieldPriority:
		return cmp.Compare(PriorityRank(a.Priority), PriorityRank(b.Priority))
	case FieldCreatedAt, FieldUpdatedAt, FieldDueDate, FieldStartDate:
		return compareTimes(dateField(a, field), dateField(b, field))
	case FieldKey:
		return compareKeys(a.Key, b.Key)
	case FieldPosition:
		return cmp.Compare(a.Position, b.Position)
	case FieldTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case FieldStatus:
		return strings.Compare(normalize(a.Status), normalize(b.Status))
	case FieldType:
		return strings.Compare(a.Type, b.Type)
	case FieldAssignee:
		return strings.Compare(assigneeName(a), assigneeName(b))
	case FieldProject:
		return strings.Compare(projectName(a), projectName(b))
	}
	return 0
}

// compareMissingDates puts undated issues last regardless of direction
func compareMissingDates(a, b models.Issue, field string) (int, bool) {
	switch field {
	case FieldDueDate, FieldStartDate:
	default:
		return 0, false
	}
	da, db := dateField(a, field), dateField(b, field)
	switch {
	case da == nil && db == nil:
		return 0, true
	case da == nil:
		return 1, true
	case db == nil:
		return -1, true
	}
	return 0, false
}

func compareTimes(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}

// compareKeys orders "WEB-2" before "WEB-10"; keys without a numeric suffix
// fall back to plain string order
func compareKeys(a, b string) int {
	pa, na, okA := splitKey(a)
	pb, nb, okB := splitKey(b)
	if !okA || !okB {
		return strings.Compare(a, b)
	}
	if c := strings.Compare(pa, pb); c != 0 {
		return c
	}
	return cmp.Compare(na, nb)
}

func splitKey(key string) (string, int, bool) {
	i := strings.LastIndex(key, "-")
	if i < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return "", 0, false
	}
	return key[:i], n, true
}

func assigneeName(i models.Issue) string {
	if i.Assignee == nil {
		return ""
	}
	return strings.ToLower(i.Assignee.Name)
}

func projectName(i models.Issue) string {
	if i.Project == nil {
		return ""
	}
	return strings.ToLower(i.Project.Name)
}
