package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Art-of-Technology/collab/internal/models"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := InitDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db)
}

func setupProject(t *testing.T, repo *Repository) (*models.Workspace, *models.Project) {
	t.Helper()
	ctx := context.Background()
	ws, err := repo.CreateWorkspace(ctx, "acme", "Acme")
	require.NoError(t, err)
	p, err := repo.CreateProject(ctx, ws.ID, "Website", "web")
	require.NoError(t, err)
	return ws, p
}

func createIssue(t *testing.T, repo *Repository, projectID, title string) *models.Issue {
	t.Helper()
	issue, err := repo.CreateIssue(context.Background(), CreateIssueParams{
		ProjectID: projectID, Title: title, Status: "Todo",
		Priority: models.PriorityLow, Type: models.IssueTypeTask,
	})
	require.NoError(t, err)
	return issue
}

// ============================================================================
// TESTS
// ============================================================================

func TestMigrationsAreIdempotent(t *testing.T) {
	db, err := InitDB(context.Background(), ":memory:")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, RunMigrations(context.Background(), db))
}

func TestCreateIssue_KeysFollowProjectCounter(t *testing.T) {
	repo := setupTestRepo(t)
	ws, p := setupProject(t, repo)

	first := createIssue(t, repo, p.ID, "First")
	second := createIssue(t, repo, p.ID, "Second")

	assert.Equal(t, "WEB-1", first.Key)
	assert.Equal(t, "WEB-2", second.Key)
	assert.Equal(t, ws.ID, first.WorkspaceID)
	assert.Equal(t, "Website", first.Project.Name)
	assert.Equal(t, int64(1), first.Version)
	require.Len(t, first.Activity, 1)
	assert.Equal(t, models.ActionCreated, first.Activity[0].Action)
}

func TestCreateIssue_DatesAndLabels(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	_, p := setupProject(t, repo)

	label, err := repo.CreateLabel(ctx, p.ID, "bug", "#f00")
	require.NoError(t, err)
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	issue, err := repo.CreateIssue(ctx, CreateIssueParams{
		ProjectID: p.ID, Title: "Dated", Status: "Todo", Priority: models.PriorityHigh,
		Type: models.IssueTypeBug, DueDate: &due, LabelIDs: []string{label.ID},
	})
	require.NoError(t, err)

	require.NotNil(t, issue.DueDate)
	assert.True(t, due.Equal(*issue.DueDate))
	assert.Nil(t, issue.StartDate)
	require.Len(t, issue.Labels, 1)
	assert.Equal(t, "bug", issue.Labels[0].Name)
}

func TestUpdateIssue_VersionCheck(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	_, p := setupProject(t, repo)
	issue := createIssue(t, repo, p.ID, "Versioned")

	status := "Done"
	updated, err := repo.UpdateIssue(ctx, issue.ID, models.IssueUpdate{Status: &status, ExpectedVersion: 1}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, "Done", updated.Status)

	_, err = repo.UpdateIssue(ctx, issue.ID, models.IssueUpdate{Status: &status, ExpectedVersion: 1}, "")
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = repo.UpdateIssue(ctx, "missing", models.IssueUpdate{Status: &status}, "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRelations_ReadFromBothEnds(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	_, p := setupProject(t, repo)
	parent := createIssue(t, repo, p.ID, "Parent")
	child := createIssue(t, repo, p.ID, "Child")

	edge := CanonicalEdge(child.ID, parent.ID, models.RelationParent)
	assert.Equal(t, Edge{SourceID: parent.ID, TargetID: child.ID, Type: models.RelationChild}, edge)

	created, err := repo.CreateRelations(ctx, []Edge{edge})
	require.NoError(t, err)
	require.Len(t, created, 1)

	fromParent, err := repo.ListRelationRecords(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, fromParent, 1)
	assert.Equal(t, models.RelationChild, fromParent[0].RelationType)
	assert.Equal(t, child.Key, fromParent[0].RelatedItem.Key)
	assert.Equal(t, created[0].ID, fromParent[0].RelatedItem.RelationID)

	fromChild, err := repo.ListRelationRecords(ctx, child.ID)
	require.NoError(t, err)
	require.Len(t, fromChild, 1)
	assert.Equal(t, models.RelationParent, fromChild[0].RelationType)

	parentID, err := repo.ParentOf(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, parent.ID, parentID)

	_, err = repo.CreateRelations(ctx, []Edge{edge})
	assert.ErrorIs(t, err, models.ErrConflict)

	require.NoError(t, repo.DeleteRelation(ctx, child.ID, created[0].ID))
	assert.ErrorIs(t, repo.DeleteRelation(ctx, child.ID, created[0].ID), models.ErrNotFound)
}

func TestViews_RoundTripAndVersion(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	ws, p := setupProject(t, repo)

	v, err := repo.CreateView(ctx, models.View{
		WorkspaceID: ws.ID, Name: "Board", DisplayType: models.DisplayKanban, Grouping: "status",
		Filters:    models.ViewFilters{Status: []string{"Todo"}, ActionHistory: &models.ActionHistoryFilter{Actions: []string{"assigned"}}},
		ProjectIDs: []string{p.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Todo"}, v.Filters.Status)
	require.NotNil(t, v.Filters.ActionHistory)
	assert.Equal(t, []string{"assigned"}, v.Filters.ActionHistory.Actions)
	assert.Empty(t, v.Fields)

	v.Name = "Renamed"
	updated, err := repo.UpdateView(ctx, *v)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, int64(2), updated.Version)

	_, err = repo.UpdateView(ctx, *v)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestStatuses_Reorder(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	_, p := setupProject(t, repo)

	statuses, err := repo.ListStatuses(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, statuses, len(DefaultStatuses))

	review, err := repo.CreateStatus(ctx, p.ID, "Review", "#000")
	require.NoError(t, err)
	assert.Equal(t, len(DefaultStatuses), review.Order)

	ids := []string{review.ID}
	for _, s := range statuses {
		ids = append(ids, s.ID)
	}
	require.NoError(t, repo.ReorderStatuses(ctx, p.ID, ids))

	after, err := repo.ListStatuses(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Review", after[0].Name)

	assert.ErrorIs(t, repo.ReorderStatuses(ctx, p.ID, []string{"ghost"}), models.ErrNotFound)
}

func TestSearchIssues(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	ws, p := setupProject(t, repo)
	createIssue(t, repo, p.ID, "Fix 100% of bugs")
	createIssue(t, repo, p.ID, "Write docs")

	items, err := repo.SearchIssues(ctx, SearchParams{WorkspaceID: ws.ID, Text: "100%"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "WEB-1", items[0].Key)

	byKey, err := repo.SearchIssues(ctx, SearchParams{Text: "web-2"})
	require.NoError(t, err)
	require.Len(t, byKey, 1)
	assert.Equal(t, "Write docs", byKey[0].Title)
}

func TestSeed_IsIdempotent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, repo))
	require.NoError(t, Seed(ctx, repo))

	ws, err := repo.GetWorkspace(ctx, DemoWorkspace)
	require.NoError(t, err)
	issues, err := repo.ListIssues(ctx, ws.ID, nil)
	require.NoError(t, err)
	assert.Len(t, issues, 7)

	list, err := repo.ListViews(ctx, ws.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
