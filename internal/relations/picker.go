package relations

import (
	"strings"

	"github.com/Art-of-Technology/collab/internal/models"
)

// PickerQuery narrows candidate issues in the "add relation" picker
type PickerQuery struct {
	Text    string
	Types   []string // issue types or the "issue" category, matched case-insensitively
	Exclude map[string]bool
}

// FilterCandidates applies the picker query to candidates. The type filter is
// applied before the text match, so a candidate of an excluded type never
// matches however well its text does.
func FilterCandidates(candidates []models.RelationItem, q PickerQuery) []models.RelationItem {
	text := strings.ToLower(strings.TrimSpace(q.Text))

	out := make([]models.RelationItem, 0, len(candidates))
	for _, c := range candidates {
		if q.Exclude[c.ID] {
			continue
		}
		if len(q.Types) > 0 && !matchesAnyType(q.Types, c.Type) {
			continue
		}
		if text != "" &&
			!strings.Contains(strings.ToLower(c.Title), text) &&
			!strings.Contains(strings.ToLower(c.Key), text) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// TypeIssue is the picker category covering every work item that is not an
// epic or a milestone
const TypeIssue = "issue"

func matchesAnyType(filters []string, itemType string) bool {
	for _, f := range filters {
		if strings.EqualFold(f, itemType) {
			return true
		}
		if strings.EqualFold(f, TypeIssue) && isPlainIssue(itemType) {
			return true
		}
	}
	return false
}

func isPlainIssue(itemType string) bool {
	switch strings.ToUpper(itemType) {
	case models.IssueTypeEpic, models.IssueTypeMilestone:
		return false
	}
	return true
}
