package views

import (
	"testing"
	"time"

	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST FIXTURES
// ============================================================================

var (
	web   = &models.ProjectRef{ID: "p-web", Name: "Web"}
	api   = &models.ProjectRef{ID: "p-api", Name: "API"}
	alice = &models.UserRef{ID: "u-alice", Name: "Alice"}
	bob   = &models.UserRef{ID: "u-bob", Name: "Bob"}
	bug   = models.Label{ID: "l-bug", Name: "bug"}
	ux    = models.Label{ID: "l-ux", Name: "ux"}
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 12, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func fixtures() []models.Issue {
	return []models.Issue{
		{ID: "1", Key: "WEB-1", Title: "Login page", Status: "Todo", Priority: models.PriorityHigh, Type: models.IssueTypeStory, Assignee: alice, Project: web, Labels: []models.Label{ux}, Position: 2, CreatedAt: day(1), DueDate: ptr(day(20))},
		{ID: "2", Key: "WEB-2", Title: "Fix crash on save", Description: "NPE in editor", Status: "In Progress", Priority: models.PriorityUrgent, Type: models.IssueTypeBug, Assignee: bob, Project: web, Labels: []models.Label{bug}, Position: 1, CreatedAt: day(2)},
		{ID: "3", Key: "API-10", Title: "Rate limits", Status: "Backlog", Priority: models.PriorityLow, Type: models.IssueTypeTask, Project: api, Position: 1, CreatedAt: day(3), StartDate: ptr(day(5))},
		{ID: "4", Key: "API-2", Title: "Auth epic", Status: "Done", Priority: "", Type: models.IssueTypeEpic, Assignee: alice, Project: api, Position: 3, CreatedAt: day(4), DueDate: ptr(day(10)),
			Activity: []models.ActivityEntry{{Action: models.ActionStatusChanged, ActorID: "u-bob", CreatedAt: day(6)}}},
		{ID: "5", Key: "WEB-3", Title: "Dark mode", Status: "Todo", Priority: models.PriorityMedium, Type: models.IssueTypeStory, Project: web, Labels: []models.Label{ux, bug}, Position: 1, CreatedAt: day(5), StartDate: ptr(day(2))},
	}
}

func ids(issues []models.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.ID)
	}
	return out
}

// ============================================================================
// FILTER TESTS
// ============================================================================

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"empty query keeps everything", Query{}, []string{"1", "2", "3", "4", "5"}},
		{"project scope", Query{ProjectIDs: []string{"p-api"}}, []string{"3", "4"}},
		{"backlog tab", Query{Tab: TabBacklog}, []string{"3"}},
		{"active tab", Query{Tab: TabActive}, []string{"1", "2", "5"}},
		{"search title", Query{Search: "CRASH"}, []string{"2"}},
		{"search key", Query{Search: "api-1"}, []string{"3"}},
		{"search description", Query{Search: "npe"}, []string{"2"}},
		{"status OR within field", Query{Fields: models.ViewFilters{Status: []string{"todo", "done"}}}, []string{"1", "4", "5"}},
		{"AND across fields", Query{Fields: models.ViewFilters{Status: []string{"todo"}, Priority: []string{"HIGH"}}}, []string{"1"}},
		{"type", Query{Fields: models.ViewFilters{Type: []string{"epic"}}}, []string{"4"}},
		{"unassigned", Query{Fields: models.ViewFilters{Assignee: []string{Unassigned}}}, []string{"3", "5"}},
		{"assignee or unassigned", Query{Fields: models.ViewFilters{Assignee: []string{"u-bob", Unassigned}}}, []string{"2", "3", "5"}},
		{"label by name", Query{Fields: models.ViewFilters{Label: []string{"bug"}}}, []string{"2", "5"}},
		{"label by id", Query{Fields: models.ViewFilters{Label: []string{"l-ux"}}}, []string{"1", "5"}},
		{"project field", Query{Fields: models.ViewFilters{Project: []string{"p-web"}}}, []string{"1", "2", "5"}},
		{"date range", Query{Fields: models.ViewFilters{DateRange: &models.DateRange{Field: FieldCreatedAt, From: ptr(day(2)), To: ptr(day(4))}}}, []string{"2", "3", "4"}},
		{"date range skips undated", Query{Fields: models.ViewFilters{DateRange: &models.DateRange{Field: FieldDueDate, To: ptr(day(15))}}}, []string{"4"}},
		{"action history", Query{Fields: models.ViewFilters{ActionHistory: &models.ActionHistoryFilter{Actions: []string{models.ActionStatusChanged}, Actors: []string{"u-bob"}}}}, []string{"4"}},
		{"action history since", Query{Fields: models.ViewFilters{ActionHistory: &models.ActionHistoryFilter{Since: ptr(day(7))}}}, []string{}},
		{"sidebar assignee", Query{Sidebar: SidebarFilters{Assignee: []string{"u-alice"}}}, []string{"1", "4"}},
		{"sidebar and field combine", Query{Fields: models.ViewFilters{Label: []string{"ux"}}, Sidebar: SidebarFilters{Priority: []string{"medium"}}}, []string{"5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(fixtures(), tt.query)))
		})
	}
}

func TestFilter_Idempotent(t *testing.T) {
	queries := []Query{
		{},
		{Tab: TabActive, Search: "o"},
		{Fields: models.ViewFilters{Status: []string{"todo"}, Label: []string{"ux"}}},
		{ProjectIDs: []string{"p-web"}, Sidebar: SidebarFilters{Assignee: []string{Unassigned, "u-bob"}}},
	}

	for _, q := range queries {
		once := Filter(fixtures(), q)
		twice := Filter(once, q)
		assert.Equal(t, ids(once), ids(twice))
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := fixtures()
	_ = Filter(in, Query{Tab: TabBacklog})
	assert.Len(t, in, 5)
	assert.Equal(t, "1", in[0].ID)
}

// ============================================================================
// SORT TESTS
// ============================================================================

func TestSort_PriorityRanks(t *testing.T) {
	issues := []models.Issue{
		{ID: "low", Priority: "LOW"},
		{ID: "unknown", Priority: "whenever"},
		{ID: "urgent", Priority: "URGENT"},
		{ID: "medium", Priority: "medium"},
		{ID: "high", Priority: "HIGH"},
	}

	got := Sort(issues, models.Sorting{Field: FieldPriority})
	assert.Equal(t, []string{"urgent", "high", "medium", "low", "unknown"}, ids(got))
}

func TestSort_PriorityIsStable(t *testing.T) {
	issues := []models.Issue{
		{ID: "a", Priority: "HIGH"},
		{ID: "b", Priority: "LOW"},
		{ID: "c", Priority: "HIGH"},
		{ID: "d", Priority: "LOW"},
		{ID: "e", Priority: "HIGH"},
	}

	got := Sort(issues, models.Sorting{Field: FieldPriority, Direction: Desc})
	assert.Equal(t, []string{"a", "c", "e", "b", "d"}, ids(got))

	got = Sort(issues, models.Sorting{Field: FieldPriority, Direction: Asc})
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, ids(got))
}

func TestSort_Fields(t *testing.T) {
	tests := []struct {
		name    string
		sorting models.Sorting
		want    []string
	}{
		{"no field keeps order", models.Sorting{}, []string{"1", "2", "3", "4", "5"}},
		{"created newest first by default", models.Sorting{Field: FieldCreatedAt}, []string{"5", "4", "3", "2", "1"}},
		{"due date asc puts undated last", models.Sorting{Field: FieldDueDate, Direction: Asc}, []string{"4", "1", "2", "3", "5"}},
		{"due date desc still puts undated last", models.Sorting{Field: FieldDueDate, Direction: Desc}, []string{"1", "4", "2", "3", "5"}},
		{"title lexical", models.Sorting{Field: FieldTitle}, []string{"4", "5", "2", "1", "3"}},
		{"key natural", models.Sorting{Field: FieldKey}, []string{"4", "3", "1", "2", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Sort(fixtures(), tt.sorting)))
		})
	}
}

func TestCompare_EqualValuesReturnZero(t *testing.T) {
	a := models.Issue{Priority: "HIGH", Title: "x", CreatedAt: day(1)}
	b := models.Issue{Priority: "high", Title: "X", CreatedAt: day(1)}

	for _, field := range []string{FieldPriority, FieldTitle, FieldCreatedAt, FieldDueDate} {
		assert.Zero(t, Compare(a, b, field), field)
	}
}

// ============================================================================
// GROUP TESTS
// ============================================================================

func TestGroupBy_StatusFollowsColumnOrder(t *testing.T) {
	statuses := []models.Status{
		{Name: "Done", Order: 3},
		{Name: "Todo", Order: 1},
		{Name: "In Progress", Order: 2},
		{Name: "In Review", Order: 4},
	}

	groups := GroupBy(fixtures(), FieldStatus, GroupOptions{Statuses: statuses, IncludeEmpty: true})

	require.Len(t, groups, 5)
	assert.Equal(t, "Todo", groups[0].Label)
	assert.Equal(t, []string{"1", "5"}, ids(groups[0].Issues))
	assert.Equal(t, "In Progress", groups[1].Label)
	assert.Equal(t, "Done", groups[2].Label)
	assert.Equal(t, "In Review", groups[3].Label)
	assert.Empty(t, groups[3].Issues)
	assert.Equal(t, "Backlog", groups[4].Label, "unknown statuses follow in first-seen order")
}

func TestGroupBy_StatusDropsEmptyUnlessAsked(t *testing.T) {
	statuses := []models.Status{{Name: "In Review", Order: 1}}

	groups := GroupBy(fixtures(), FieldStatus, GroupOptions{Statuses: statuses})
	for _, g := range groups {
		assert.NotEmpty(t, g.Issues)
	}
}

func TestGroupBy_Priority(t *testing.T) {
	groups := GroupBy(fixtures(), FieldPriority, GroupOptions{})

	var keys []string
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"URGENT", "HIGH", "MEDIUM", "LOW", "none"}, keys)
}

func TestGroupBy_AssigneeUnassignedLast(t *testing.T) {
	groups := GroupBy(fixtures(), FieldAssignee, GroupOptions{})

	require.Len(t, groups, 3)
	assert.Equal(t, "Alice", groups[0].Label)
	assert.Equal(t, []string{"1", "4"}, ids(groups[0].Issues))
	assert.Equal(t, "Bob", groups[1].Label)
	assert.Equal(t, "Unassigned", groups[2].Label)
}

func TestGroupBy_TypeAndProject(t *testing.T) {
	types := GroupBy(fixtures(), FieldType, GroupOptions{})
	require.NotEmpty(t, types)
	assert.Equal(t, "Epic", types[0].Label)

	projects := GroupBy(fixtures(), FieldProject, GroupOptions{})
	require.Len(t, projects, 2)
	assert.Equal(t, "API", projects[0].Label)
	assert.Equal(t, "Web", projects[1].Label)
}

func TestGroupBy_UnknownFieldSingleBucket(t *testing.T) {
	groups := GroupBy(fixtures(), "mood", GroupOptions{})
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Issues, 5)
}

// ============================================================================
// RENDER TESTS
// ============================================================================

func TestRender_KanbanGroupsByPosition(t *testing.T) {
	view := models.View{DisplayType: models.DisplayKanban, Sorting: models.Sorting{Field: FieldTitle}}
	statuses := []models.Status{{Name: "Todo", Order: 1}, {Name: "In Progress", Order: 2}, {Name: "Done", Order: 3}}

	res := Render(fixtures(), view, RenderOptions{Statuses: statuses})

	require.True(t, res.Grouped())
	assert.Nil(t, res.Issues)
	assert.Equal(t, []string{"5", "1"}, ids(res.Groups[0].Issues), "columns are ordered by position, not the view sort")
	assert.Equal(t, 5, res.Total)
}

func TestRender_ListGroupsOrSorts(t *testing.T) {
	grouped := Render(fixtures(), models.View{DisplayType: models.DisplayList, Grouping: FieldPriority}, RenderOptions{})
	assert.True(t, grouped.Grouped())

	flat := Render(fixtures(), models.View{DisplayType: models.DisplayList, Sorting: models.Sorting{Field: FieldPriority}}, RenderOptions{})
	assert.False(t, flat.Grouped())
	assert.Equal(t, "2", flat.Issues[0].ID)
}

func TestRender_TableOnlySorts(t *testing.T) {
	view := models.View{DisplayType: models.DisplayTable, Grouping: FieldStatus, Sorting: models.Sorting{Field: FieldKey}}

	res := Render(fixtures(), view, RenderOptions{Tab: TabActive})

	assert.False(t, res.Grouped())
	assert.Equal(t, []string{"1", "2", "5"}, ids(res.Issues))
}

func TestRender_TimelineBySchedule(t *testing.T) {
	res := Render(fixtures(), models.View{DisplayType: models.DisplayTimeline}, RenderOptions{})

	assert.Equal(t, []string{"5", "3", "4", "1", "2"}, ids(res.Issues))
}

func TestRender_AppliesViewScopeAndFilters(t *testing.T) {
	view := models.View{
		DisplayType: models.DisplayTable,
		ProjectIDs:  []string{"p-web"},
		Filters:     models.ViewFilters{Label: []string{"ux"}},
	}

	res := Render(fixtures(), view, RenderOptions{Search: "dark"})
	assert.Equal(t, []string{"5"}, ids(res.Issues))
}
