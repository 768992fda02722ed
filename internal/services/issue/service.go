package issue

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Art-of-Technology/collab/internal/models"
)

const maxTitleLength = 255

var priorities = []string{models.PriorityUrgent, models.PriorityHigh, models.PriorityMedium, models.PriorityLow}

// Store is the persistence the issue service needs
type Store interface {
	GetWorkspace(ctx context.Context, idOrSlug string) (*models.Workspace, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListStatuses(ctx context.Context, projectID string) ([]models.Status, error)
	ListIssues(ctx context.Context, workspaceID string, projectIDs []string) ([]models.Issue, error)
	GetIssueByID(ctx context.Context, id string) (*models.Issue, error)
	GetIssueByKey(ctx context.Context, workspaceID, key string) (*models.Issue, error)
	UpdateIssue(ctx context.Context, id string, u models.IssueUpdate, actorID string) (*models.Issue, error)
}

// Service defines all issue-related business operations
type Service interface {
	ListIssues(ctx context.Context, workspace string, projectIDs []string) ([]models.Issue, error)
	GetIssue(ctx context.Context, workspace, key string) (*models.Issue, error)
	UpdateIssue(ctx context.Context, issueID string, u models.IssueUpdate) (*models.Issue, error)
}

type service struct {
	repo Store
}

// NewService creates a new issue service
func NewService(repo Store) Service {
	return &service{repo: repo}
}

// ListIssues returns a workspace's issues, optionally limited to projects
func (s *service) ListIssues(ctx context.Context, workspace string, projectIDs []string) ([]models.Issue, error) {
	ws, err := s.repo.GetWorkspace(ctx, workspace)
	if err != nil {
		return nil, err
	}
	issues, err := s.repo.ListIssues(ctx, ws.ID, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	return issues, nil
}

// GetIssue returns an issue by key
func (s *service) GetIssue(ctx context.Context, workspace, key string) (*models.Issue, error) {
	ws, err := s.repo.GetWorkspace(ctx, workspace)
	if err != nil {
		return nil, err
	}
	return s.repo.GetIssueByKey(ctx, ws.ID, key)
}

// UpdateIssue validates and applies a partial update. Status names are
// matched case-insensitively against the project's statuses and stored
// with the status' own spelling.
func (s *service) UpdateIssue(ctx context.Context, issueID string, u models.IssueUpdate) (*models.Issue, error) {
	if u.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	current, err := s.repo.GetIssueByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if err := s.validate(ctx, current, &u); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateIssue(ctx, issueID, u, "")
	if errors.Is(err, models.ErrConflict) {
		return nil, fmt.Errorf("%w: %w", ErrVersionConflict, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}
	return updated, nil
}

func (s *service) validate(ctx context.Context, current *models.Issue, u *models.IssueUpdate) error {
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return ErrEmptyTitle
		}
		if len(title) > maxTitleLength {
			return ErrTitleTooLong
		}
		u.Title = &title
	}

	if u.Priority != nil {
		p := strings.ToUpper(strings.TrimSpace(*u.Priority))
		if !slices.Contains(priorities, p) {
			return fmt.Errorf("%q: %w", *u.Priority, ErrInvalidPriority)
		}
		u.Priority = &p
	}

	if u.Type != nil {
		typ := strings.ToUpper(strings.TrimSpace(*u.Type))
		if !slices.Contains(models.IssueTypes, typ) {
			return fmt.Errorf("%q: %w", *u.Type, ErrInvalidType)
		}
		u.Type = &typ
	}

	if u.Position != nil && *u.Position < 0 {
		return ErrInvalidPosition
	}

	if u.Status != nil {
		statuses, err := s.repo.ListStatuses(ctx, current.ProjectID())
		if err != nil {
			return fmt.Errorf("failed to list statuses: %w", err)
		}
		name, ok := matchStatus(statuses, *u.Status)
		if !ok {
			return fmt.Errorf("%q: %w", *u.Status, ErrUnknownStatus)
		}
		u.Status = &name
	}

	if u.AssigneeID != nil && *u.AssigneeID != "" {
		if _, err := s.repo.GetUser(ctx, *u.AssigneeID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("%s: %w", *u.AssigneeID, ErrUnknownAssignee)
			}
			return err
		}
	}
	return nil
}

func matchStatus(statuses []models.Status, name string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, st := range statuses {
		if strings.ToLower(st.Name) == want {
			return st.Name, true
		}
	}
	return "", false
}
