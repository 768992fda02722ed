package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Art-of-Technology/collab/internal/models"
)

// DemoWorkspace is the slug of the seeded workspace
const DemoWorkspace = "acme"

// Seed fills an empty database with a demo workspace. It does nothing when
// the demo workspace already exists.
func Seed(ctx context.Context, repo *Repository) error {
	if _, err := repo.GetWorkspace(ctx, DemoWorkspace); err == nil {
		slog.Info("demo workspace already seeded", "workspace", DemoWorkspace)
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	ws, err := repo.CreateWorkspace(ctx, DemoWorkspace, "Acme Corp")
	if err != nil {
		return err
	}

	ada, err := repo.CreateUser(ctx, "Ada Lovelace", "ada@acme.test", "")
	if err != nil {
		return err
	}
	grace, err := repo.CreateUser(ctx, "Grace Hopper", "grace@acme.test", "")
	if err != nil {
		return err
	}

	web, err := repo.CreateProject(ctx, ws.ID, "Website", "WEB")
	if err != nil {
		return err
	}
	api, err := repo.CreateProject(ctx, ws.ID, "Public API", "API")
	if err != nil {
		return err
	}

	bug, err := repo.CreateLabel(ctx, web.ID, "bug", "#EF4444")
	if err != nil {
		return err
	}
	frontend, err := repo.CreateLabel(ctx, web.ID, "frontend", "#8B5CF6")
	if err != nil {
		return err
	}

	day := func(n int) *time.Time {
		t := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, n)
		return &t
	}

	demo := []CreateIssueParams{
		{ProjectID: web.ID, Title: "Relaunch marketing site", Status: "In Progress", Priority: models.PriorityHigh, Type: models.IssueTypeEpic, AssigneeID: ada.ID, StartDate: day(-14), DueDate: day(30), Position: 0},
		{ProjectID: web.ID, Title: "Design new landing page", Status: "Done", Priority: models.PriorityMedium, Type: models.IssueTypeTask, AssigneeID: grace.ID, LabelIDs: []string{frontend.ID}, Position: 1},
		{ProjectID: web.ID, Title: "Fix bug in signup form", Status: "Todo", Priority: models.PriorityUrgent, Type: models.IssueTypeBug, LabelIDs: []string{bug.ID, frontend.ID}, DueDate: day(3), Position: 2},
		{ProjectID: web.ID, Title: "Migrate blog content", Status: "Backlog", Priority: models.PriorityLow, Type: models.IssueTypeStory, Position: 3},
		{ProjectID: web.ID, Title: "Launch", Status: "Todo", Priority: models.PriorityHigh, Type: models.IssueTypeMilestone, DueDate: day(30), Position: 4},
		{ProjectID: api.ID, Title: "Rate limit public endpoints", Status: "In Progress", Priority: models.PriorityHigh, Type: models.IssueTypeTask, AssigneeID: grace.ID, StartDate: day(-3), DueDate: day(7), Position: 0},
		{ProjectID: api.ID, Title: "Publish OpenAPI document", Status: "Todo", Priority: models.PriorityMedium, Type: models.IssueTypeTask, Position: 1},
	}

	issues := make([]*models.Issue, len(demo))
	for i, params := range demo {
		params.ActorID = ada.ID
		issue, err := repo.CreateIssue(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to seed issue %q: %w", params.Title, err)
		}
		issues[i] = issue
	}

	edges := []Edge{
		CanonicalEdge(issues[0].ID, issues[1].ID, models.RelationChild),
		CanonicalEdge(issues[0].ID, issues[2].ID, models.RelationChild),
		CanonicalEdge(issues[0].ID, issues[3].ID, models.RelationChild),
		CanonicalEdge(issues[2].ID, issues[4].ID, models.RelationBlocks),
		CanonicalEdge(issues[5].ID, issues[6].ID, models.RelationRelatesTo),
		CanonicalEdge(issues[6].ID, issues[3].ID, models.RelationBlockedBy),
	}
	if _, err := repo.CreateRelations(ctx, edges); err != nil {
		return fmt.Errorf("failed to seed relations: %w", err)
	}

	views := []models.View{
		{
			WorkspaceID: ws.ID, Name: "Website board", DisplayType: models.DisplayKanban,
			Grouping: "status", ProjectIDs: []string{web.ID},
			Fields: []string{"priority", "assignee", "labels"},
		},
		{
			WorkspaceID: ws.ID, Name: "Urgent work", DisplayType: models.DisplayList,
			Grouping: "none", Sorting: models.Sorting{Field: "dueDate", Direction: "asc"},
			Filters: models.ViewFilters{Priority: []string{models.PriorityUrgent, models.PriorityHigh}},
		},
		{
			WorkspaceID: ws.ID, Name: "Roadmap", DisplayType: models.DisplayTimeline,
			Filters: models.ViewFilters{Type: []string{models.IssueTypeEpic, models.IssueTypeMilestone}},
		},
	}
	for _, v := range views {
		if _, err := repo.CreateView(ctx, v); err != nil {
			return fmt.Errorf("failed to seed view %q: %w", v.Name, err)
		}
	}

	slog.Info("seeded demo workspace", "workspace", ws.Slug, "issues", len(issues), "relations", len(edges))
	return nil
}
