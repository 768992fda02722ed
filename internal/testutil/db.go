package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Art-of-Technology/collab/internal/database"
	"github.com/Art-of-Technology/collab/internal/models"
)

// SetupTestDB creates a migrated in-memory database closed at test cleanup
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.InitDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SetupTestRepo returns a repository over a fresh in-memory database
func SetupTestRepo(t *testing.T) *database.Repository {
	t.Helper()
	return database.NewRepository(SetupTestDB(t))
}

// Fixture is a workspace with one project and its default statuses
type Fixture struct {
	Repo      *database.Repository
	Workspace *models.Workspace
	Project   *models.Project
	User      *models.User
}

// SetupFixture creates workspace "acme", a user and project "WEB"
func SetupFixture(t *testing.T) *Fixture {
	t.Helper()
	ctx := context.Background()
	repo := SetupTestRepo(t)

	ws, err := repo.CreateWorkspace(ctx, "acme", "Acme")
	if err != nil {
		t.Fatalf("Failed to create workspace: %v", err)
	}
	user, err := repo.CreateUser(ctx, "Ada", "ada@acme.test", "")
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	project, err := repo.CreateProject(ctx, ws.ID, "Website", "WEB")
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	return &Fixture{Repo: repo, Workspace: ws, Project: project, User: user}
}

// CreateTestIssue creates an issue in the fixture project
func (f *Fixture) CreateTestIssue(t *testing.T, title, status, issueType string) *models.Issue {
	t.Helper()
	issue, err := f.Repo.CreateIssue(context.Background(), database.CreateIssueParams{
		ProjectID: f.Project.ID,
		Title:     title,
		Status:    status,
		Priority:  models.PriorityMedium,
		Type:      issueType,
		Position:  models.DefaultIssuePosition,
	})
	if err != nil {
		t.Fatalf("Failed to create test issue: %v", err)
	}
	return issue
}
