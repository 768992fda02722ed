package view

import (
	"context"
	"strings"
	"testing"

	"github.com/Art-of-Technology/collab/internal/cli"
	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/testutil"
	"github.com/Art-of-Technology/collab/internal/testutil/clitest"
	"github.com/Art-of-Technology/collab/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createView(t *testing.T, env *clitest.Env, v models.View) *models.View {
	t.Helper()
	created, err := env.CLI.Client.CreateView(context.Background(), v)
	require.NoError(t, err)
	return created
}

// ============================================================================
// LIST
// ============================================================================

func TestList(t *testing.T) {
	env := clitest.Setup(t)
	v := createView(t, env, models.View{Name: "Bugs", Filters: models.ViewFilters{Type: []string{models.IssueTypeBug}}})

	out, err := env.Execute(t, ViewCmd(), "list", "--quiet")
	require.NoError(t, err)
	assert.Equal(t, v.ID+"\n", out)

	out, err = env.Execute(t, ViewCmd(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Bugs")
	assert.Contains(t, out, "filters:1")
}

func TestList_Empty(t *testing.T) {
	env := clitest.Setup(t)

	out, err := env.Execute(t, ViewCmd(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved views")
}

// ============================================================================
// SHOW
// ============================================================================

func TestShow_KanbanKeepsEmptyColumns(t *testing.T) {
	env := clitest.Setup(t)
	todo := env.CreateTestIssue(t, "Write docs", "Todo", models.IssueTypeTask)
	v := createView(t, env, models.View{Name: "Board", DisplayType: models.DisplayKanban})

	out, err := env.Execute(t, ViewCmd(), "show", v.ID, "--json")
	require.NoError(t, err)

	data := testutil.ParseEnvelope(t, out).Object(t)
	assert.Equal(t, "KANBAN", data["mode"])
	groups := data["groups"].([]any)
	require.Len(t, groups, 4)

	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.(map[string]any)["label"].(string)
	}
	assert.Equal(t, []string{"Backlog", "Todo", "In Progress", "Done"}, labels)

	todoIssues := groups[1].(map[string]any)["issues"].([]any)
	require.Len(t, todoIssues, 1)
	assert.Equal(t, todo.Key, todoIssues[0].(map[string]any)["issueKey"])
}

func TestShow_ListSortsAndFilters(t *testing.T) {
	env := clitest.Setup(t)
	low := env.CreateTestIssue(t, "Low bug", "Todo", models.IssueTypeBug)
	high := env.CreateTestIssue(t, "High bug", "Todo", models.IssueTypeBug)
	env.CreateTestIssue(t, "A task", "Todo", models.IssueTypeTask)

	ctx := context.Background()
	lowP, highP := models.PriorityLow, models.PriorityHigh
	_, err := env.CLI.Client.UpdateIssue(ctx, low.ID, models.IssueUpdate{Priority: &lowP})
	require.NoError(t, err)
	_, err = env.CLI.Client.UpdateIssue(ctx, high.ID, models.IssueUpdate{Priority: &highP})
	require.NoError(t, err)

	v := createView(t, env, models.View{
		Name:    "Bugs by priority",
		Sorting: models.Sorting{Field: views.FieldPriority, Direction: views.Desc},
		Filters: models.ViewFilters{Type: []string{models.IssueTypeBug}},
	})

	out, err := env.Execute(t, ViewCmd(), "show", v.ID, "--quiet")
	require.NoError(t, err)
	assert.Equal(t, []string{high.Key, low.Key}, strings.Fields(out))
}

func TestShow_SearchAndTab(t *testing.T) {
	env := clitest.Setup(t)
	env.CreateTestIssue(t, "Login page", "Backlog", models.IssueTypeTask)
	active := env.CreateTestIssue(t, "Login API", "In Progress", models.IssueTypeTask)
	env.CreateTestIssue(t, "Logout", "In Progress", models.IssueTypeTask)
	v := createView(t, env, models.View{Name: "All"})

	out, err := env.Execute(t, ViewCmd(), "show", v.ID, "--tab", "active", "--search", "login", "--quiet")
	require.NoError(t, err)
	assert.Equal(t, active.Key+"\n", out)
}

func TestShow_InvalidTab(t *testing.T) {
	env := clitest.Setup(t)
	v := createView(t, env, models.View{Name: "All"})

	_, err := env.Execute(t, ViewCmd(), "show", v.ID, "--tab", "archived", "--json")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestShow_UnknownView(t *testing.T) {
	env := clitest.Setup(t)

	_, err := env.Execute(t, ViewCmd(), "show", "missing", "--json")
	require.Error(t, err)
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(err))
}

// ============================================================================
// SAVE
// ============================================================================

func TestSave_Create(t *testing.T) {
	env := clitest.Setup(t)

	out, err := env.Execute(t, ViewCmd(), "save",
		"--name", "Urgent", "--display", "table", "--sort", "priority",
		"--filter", "priority=urgent,high", "--json")
	require.NoError(t, err)

	data := testutil.ParseEnvelope(t, out).Object(t)
	assert.Equal(t, true, data["created"])
	v := data["view"].(map[string]any)
	assert.Equal(t, "TABLE", v["displayType"])
	assert.Equal(t, map[string]any{"field": "priority", "direction": "desc"}, v["sorting"])
	filters := v["filters"].(map[string]any)
	assert.Equal(t, []any{"URGENT", "HIGH"}, filters["priority"])
}

func TestSave_ActionHistorySince(t *testing.T) {
	env := clitest.Setup(t)

	out, err := env.Execute(t, ViewCmd(), "save", "--name", "Recently moved",
		"--filter", "action=status_changed", "--filter", "since=2024-02-15", "--json")
	require.NoError(t, err)

	v := testutil.ParseEnvelope(t, out).Object(t)["view"].(map[string]any)
	history := v["filters"].(map[string]any)["actionHistory"].(map[string]any)
	assert.Equal(t, []any{models.ActionStatusChanged}, history["actions"])
	assert.Equal(t, "2024-02-15T00:00:00Z", history["since"])
}

func TestSave_CreateRequiresName(t *testing.T) {
	env := clitest.Setup(t)

	_, err := env.Execute(t, ViewCmd(), "save", "--display", "list", "--json")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
}

func TestSave_UpdateReportsChanges(t *testing.T) {
	env := clitest.Setup(t)
	v := createView(t, env, models.View{Name: "Mine", Filters: models.ViewFilters{Status: []string{"Todo"}}})

	out, err := env.Execute(t, ViewCmd(), "save", "--id", v.ID, "--group", "assignee", "--json")
	require.NoError(t, err)

	data := testutil.ParseEnvelope(t, out).Object(t)
	assert.Equal(t, false, data["created"])
	assert.Equal(t, []any{"grouping"}, data["changes"])
	saved := data["view"].(map[string]any)
	assert.Equal(t, "assignee", saved["grouping"])
	assert.Equal(t, float64(v.Version+1), saved["version"])
}

func TestSave_NoChanges(t *testing.T) {
	env := clitest.Setup(t)
	v := createView(t, env, models.View{Name: "Same", Filters: models.ViewFilters{Status: []string{"Todo", "Done"}}})

	// same set in a different order is not a change
	out, err := env.Execute(t, ViewCmd(), "save", "--id", v.ID, "--clear-filters", "--filter", "status=Done,Todo")
	require.NoError(t, err)
	assert.Contains(t, out, "No changes to save")

	got, err := env.CLI.Client.GetView(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.Version, got.Version)
}

func TestSave_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"display", []string{"--display", "gantt"}},
		{"group", []string{"--group", "title"}},
		{"sort field", []string{"--sort", "color"}},
		{"sort direction", []string{"--sort", "title:sideways"}},
		{"filter", []string{"--filter", "nonsense"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := clitest.Setup(t)
			args := append([]string{"save", "--name", "x", "--json"}, tt.args...)
			_, err := env.Execute(t, ViewCmd(), args...)
			require.Error(t, err)
			assert.Equal(t, cli.ExitUsage, cli.ExitCode(err))
		})
	}
}

func TestParseSort(t *testing.T) {
	s, err := parseSort("dueDate")
	require.NoError(t, err)
	assert.Equal(t, models.Sorting{Field: views.FieldDueDate, Direction: views.Asc}, s)

	s, err = parseSort("title:DESC")
	require.NoError(t, err)
	assert.Equal(t, models.Sorting{Field: views.FieldTitle, Direction: views.Desc}, s)
}
