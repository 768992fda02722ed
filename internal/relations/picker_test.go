package relations

import (
	"testing"

	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCandidates_TypeFilterWinsOverText(t *testing.T) {
	candidates := []models.RelationItem{
		{ID: "1", Key: "WEB-1", Title: "Fix bug", Type: models.IssueTypeTask},
		{ID: "2", Key: "WEB-2", Title: "Bug epic", Type: models.IssueTypeEpic},
	}

	got := FilterCandidates(candidates, PickerQuery{Text: "bug", Types: []string{TypeIssue}})

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestFilterCandidates(t *testing.T) {
	candidates := []models.RelationItem{
		{ID: "1", Key: "WEB-1", Title: "Login page", Type: models.IssueTypeStory},
		{ID: "2", Key: "WEB-2", Title: "Checkout", Type: models.IssueTypeBug},
		{ID: "3", Key: "API-7", Title: "Launch", Type: models.IssueTypeMilestone},
	}

	tests := []struct {
		name  string
		query PickerQuery
		want  []string
	}{
		{"no query", PickerQuery{}, []string{"1", "2", "3"}},
		{"key match", PickerQuery{Text: "api-"}, []string{"3"}},
		{"title match is case-insensitive", PickerQuery{Text: "LOGIN"}, []string{"1"}},
		{"exact type", PickerQuery{Types: []string{"bug"}}, []string{"2"}},
		{"issue category skips milestones", PickerQuery{Types: []string{"issue"}}, []string{"1", "2"}},
		{"exclusions", PickerQuery{Exclude: map[string]bool{"1": true}}, []string{"2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, c := range FilterCandidates(candidates, tt.query) {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
