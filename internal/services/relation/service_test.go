package relation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func setup(t *testing.T) (*testutil.Fixture, Service) {
	t.Helper()
	f := testutil.SetupFixture(t)
	return f, NewService(f.Repo)
}

func add(t *testing.T, svc Service, key string, inputs ...models.RelationInput) (models.IssueRelations, error) {
	t.Helper()
	return svc.AddRelations(context.Background(), "acme", key, inputs)
}

func rel(target string, kind models.RelationKind) models.RelationInput {
	return models.RelationInput{TargetIssueID: target, RelationType: kind}
}

// ============================================================================
// TESTS
// ============================================================================

func TestAddRelations_BothEndsSeeTheRelation(t *testing.T) {
	f, svc := setup(t)
	epic := f.CreateTestIssue(t, "Epic", "In Progress", models.IssueTypeEpic)
	child := f.CreateTestIssue(t, "Child", "Todo", models.IssueTypeTask)
	blocker := f.CreateTestIssue(t, "Blocker", "Todo", models.IssueTypeBug)

	got, err := add(t, svc, epic.Key, rel(child.ID, models.RelationChild), rel(blocker.Key, models.RelationBlockedBy))
	require.NoError(t, err)
	require.Len(t, got.Children, 1)
	assert.Equal(t, child.Key, got.Children[0].Key)
	assert.NotEmpty(t, got.Children[0].RelationID)
	require.Len(t, got.BlockedBy, 1)
	assert.Equal(t, blocker.Key, got.BlockedBy[0].Key)

	fromChild, err := svc.GetRelations(context.Background(), "acme", child.Key)
	require.NoError(t, err)
	require.NotNil(t, fromChild.Parent)
	assert.Equal(t, epic.ID, fromChild.Parent.ID)

	fromBlocker, err := svc.GetRelations(context.Background(), "acme", blocker.Key)
	require.NoError(t, err)
	require.Len(t, fromBlocker.Blocks, 1)
	assert.Equal(t, epic.Key, fromBlocker.Blocks[0].Key)

	issue, err := f.Repo.GetIssueByID(context.Background(), epic.ID)
	require.NoError(t, err)
	var actions []string
	for _, a := range issue.Activity {
		actions = append(actions, a.Action)
	}
	assert.Contains(t, actions, models.ActionRelationAdded)
}

func TestAddRelations_Validation(t *testing.T) {
	f, svc := setup(t)
	a := f.CreateTestIssue(t, "A", "Todo", models.IssueTypeTask)
	b := f.CreateTestIssue(t, "B", "Todo", models.IssueTypeTask)

	tests := []struct {
		name  string
		input []models.RelationInput
		want  error
	}{
		{"empty batch", nil, ErrNoRelations},
		{"unknown kind", []models.RelationInput{rel(b.ID, "mentions")}, ErrInvalidRelationType},
		{"missing target", []models.RelationInput{rel("", models.RelationBlocks)}, ErrMissingTarget},
		{"self relation", []models.RelationInput{rel(a.ID, models.RelationRelatesTo)}, ErrSelfRelation},
		{"unknown target", []models.RelationInput{rel("WEB-999", models.RelationBlocks)}, ErrTargetNotFound},
		{"duplicate in batch", []models.RelationInput{rel(b.ID, models.RelationBlocks), rel(b.Key, models.RelationBlocks)}, ErrDuplicateRelation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := add(t, svc, a.Key, tt.input...)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// a failed batch stores nothing
	got, err := svc.GetRelations(context.Background(), "acme", a.Key)
	require.NoError(t, err)
	assert.Empty(t, got.Blocks)
}

func TestAddRelations_RelatesToIsSymmetric(t *testing.T) {
	f, svc := setup(t)
	a := f.CreateTestIssue(t, "A", "Todo", models.IssueTypeTask)
	b := f.CreateTestIssue(t, "B", "Todo", models.IssueTypeTask)

	_, err := add(t, svc, a.Key, rel(b.ID, models.RelationRelatesTo))
	require.NoError(t, err)

	_, err = add(t, svc, b.Key, rel(a.ID, models.RelationRelatesTo))
	assert.ErrorIs(t, err, ErrDuplicateRelation)
}

func TestAddRelations_SingleParent(t *testing.T) {
	f, svc := setup(t)
	p1 := f.CreateTestIssue(t, "P1", "Todo", models.IssueTypeEpic)
	p2 := f.CreateTestIssue(t, "P2", "Todo", models.IssueTypeEpic)
	child := f.CreateTestIssue(t, "C", "Todo", models.IssueTypeTask)

	_, err := add(t, svc, child.Key, rel(p1.ID, models.RelationParent))
	require.NoError(t, err)

	_, err = add(t, svc, child.Key, rel(p2.ID, models.RelationParent))
	assert.ErrorIs(t, err, ErrParentExists)

	_, err = add(t, svc, p2.Key, rel(child.ID, models.RelationChild))
	assert.ErrorIs(t, err, ErrParentExists)
}

func TestAddRelations_RejectsParentCycle(t *testing.T) {
	f, svc := setup(t)
	a := f.CreateTestIssue(t, "A", "Todo", models.IssueTypeEpic)
	b := f.CreateTestIssue(t, "B", "Todo", models.IssueTypeStory)
	c := f.CreateTestIssue(t, "C", "Todo", models.IssueTypeTask)

	_, err := add(t, svc, a.Key, rel(b.ID, models.RelationChild))
	require.NoError(t, err)
	_, err = add(t, svc, b.Key, rel(c.ID, models.RelationChild))
	require.NoError(t, err)

	// c -> a would close a -> b -> c -> a
	_, err = add(t, svc, c.Key, rel(a.ID, models.RelationChild))
	assert.ErrorIs(t, err, ErrCircularRelation)
}

func TestRemoveRelation(t *testing.T) {
	f, svc := setup(t)
	a := f.CreateTestIssue(t, "A", "Todo", models.IssueTypeTask)
	b := f.CreateTestIssue(t, "B", "Todo", models.IssueTypeTask)

	got, err := add(t, svc, a.Key, rel(b.ID, models.RelationDuplicates))
	require.NoError(t, err)
	require.Len(t, got.Duplicates, 1)
	relationID := got.Duplicates[0].RelationID

	// removable from the other end too
	require.NoError(t, svc.RemoveRelation(context.Background(), "acme", b.Key, relationID))

	after, err := svc.GetRelations(context.Background(), "acme", a.Key)
	require.NoError(t, err)
	assert.Empty(t, after.Duplicates)

	err = svc.RemoveRelation(context.Background(), "acme", a.Key, relationID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestSearch_TypeFilterBeforeText(t *testing.T) {
	f, svc := setup(t)
	f.CreateTestIssue(t, "Fix bug", "Todo", models.IssueTypeBug)
	f.CreateTestIssue(t, "Bug epic", "Todo", models.IssueTypeEpic)
	f.CreateTestIssue(t, "Unrelated", "Todo", models.IssueTypeTask)

	items, err := svc.Search(context.Background(), SearchRequest{Query: "bug", Types: []string{"issue"}, Workspace: "acme"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Fix bug", items[0].Title)

	all, err := svc.Search(context.Background(), SearchRequest{Query: "bug"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetRelations_UnknownIssue(t *testing.T) {
	_, svc := setup(t)

	_, err := svc.GetRelations(context.Background(), "acme", "WEB-404")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.GetRelations(context.Background(), "nope", "WEB-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
