package relation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Art-of-Technology/collab/internal/database"
	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/relations"
)

// DefaultSearchLimit caps picker search results
const DefaultSearchLimit = 50

// Store is the persistence the relation service needs
type Store interface {
	GetWorkspace(ctx context.Context, idOrSlug string) (*models.Workspace, error)
	GetIssueByID(ctx context.Context, id string) (*models.Issue, error)
	GetIssueByKey(ctx context.Context, workspaceID, key string) (*models.Issue, error)
	ListRelationRecords(ctx context.Context, issueID string) ([]models.RelationRecord, error)
	CreateRelations(ctx context.Context, edges []database.Edge) ([]database.Edge, error)
	GetRelation(ctx context.Context, issueID, relationID string) (*database.Edge, error)
	DeleteRelation(ctx context.Context, issueID, relationID string) error
	ParentOf(ctx context.Context, issueID string) (string, error)
	SearchIssues(ctx context.Context, p database.SearchParams) ([]models.RelationItem, error)
	AddActivity(ctx context.Context, issueID string, entry models.ActivityEntry) error
}

// Service defines all relation-related business operations
type Service interface {
	GetRelations(ctx context.Context, workspace, issueKey string) (models.IssueRelations, error)
	AddRelations(ctx context.Context, workspace, issueKey string, inputs []models.RelationInput) (models.IssueRelations, error)
	RemoveRelation(ctx context.Context, workspace, issueKey, relationID string) error
	Search(ctx context.Context, req SearchRequest) ([]models.RelationItem, error)
}

// SearchRequest is a picker search. Types may hold issue types or the
// "issue" category. An empty Workspace searches every workspace.
type SearchRequest struct {
	Query     string
	Types     []string
	ProjectID string
	Workspace string
	Limit     int
}

type service struct {
	repo Store
}

// NewService creates a new relation service
func NewService(repo Store) Service {
	return &service{repo: repo}
}

// GetRelations returns an issue's relations grouped by kind
func (s *service) GetRelations(ctx context.Context, workspace, issueKey string) (models.IssueRelations, error) {
	issue, err := s.issue(ctx, workspace, issueKey)
	if err != nil {
		return models.IssueRelations{}, err
	}
	return s.relationsOf(ctx, issue.ID)
}

func (s *service) relationsOf(ctx context.Context, issueID string) (models.IssueRelations, error) {
	records, err := s.repo.ListRelationRecords(ctx, issueID)
	if err != nil {
		return models.IssueRelations{}, fmt.Errorf("failed to list relations: %w", err)
	}
	return relations.BuildRelations(records), nil
}

// AddRelations validates and stores a batch of relations. The batch is
// all-or-nothing.
func (s *service) AddRelations(ctx context.Context, workspace, issueKey string, inputs []models.RelationInput) (models.IssueRelations, error) {
	if len(inputs) == 0 {
		return models.IssueRelations{}, ErrNoRelations
	}

	issue, err := s.issue(ctx, workspace, issueKey)
	if err != nil {
		return models.IssueRelations{}, err
	}

	existing, err := s.repo.ListRelationRecords(ctx, issue.ID)
	if err != nil {
		return models.IssueRelations{}, fmt.Errorf("failed to list relations: %w", err)
	}
	seen := make(map[string]bool, len(existing)+len(inputs))
	for _, r := range existing {
		seen[string(r.RelationType)+"/"+r.RelatedItem.ID] = true
	}

	plan := newParentPlan(s.repo)
	edges := make([]database.Edge, 0, len(inputs))
	targets := make([]*models.Issue, 0, len(inputs))

	for _, in := range inputs {
		target, err := s.validate(ctx, issue, in)
		if err != nil {
			return models.IssueRelations{}, err
		}

		key := string(in.RelationType) + "/" + target.ID
		if seen[key] {
			return models.IssueRelations{}, fmt.Errorf("%s %s %s: %w", issue.Key, in.RelationType, target.Key, ErrDuplicateRelation)
		}
		seen[key] = true

		edge := database.CanonicalEdge(issue.ID, target.ID, in.RelationType)
		if edge.Type == models.RelationChild {
			if err := plan.link(ctx, edge.SourceID, edge.TargetID); err != nil {
				return models.IssueRelations{}, err
			}
		}
		edges = append(edges, edge)
		targets = append(targets, target)
	}

	if _, err := s.repo.CreateRelations(ctx, edges); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return models.IssueRelations{}, fmt.Errorf("%w: %w", ErrDuplicateRelation, err)
		}
		return models.IssueRelations{}, fmt.Errorf("failed to create relations: %w", err)
	}

	for i, in := range inputs {
		s.recordActivity(ctx, issue.ID, models.ActionRelationAdded, string(in.RelationType)+" "+targets[i].Key)
	}

	return s.relationsOf(ctx, issue.ID)
}

func (s *service) validate(ctx context.Context, issue *models.Issue, in models.RelationInput) (*models.Issue, error) {
	if !in.RelationType.Valid() {
		return nil, fmt.Errorf("%q: %w", in.RelationType, ErrInvalidRelationType)
	}
	if in.TargetIssueID == "" {
		return nil, ErrMissingTarget
	}

	target, err := s.target(ctx, issue.WorkspaceID, in.TargetIssueID)
	if err != nil {
		return nil, err
	}
	if target.ID == issue.ID {
		return nil, ErrSelfRelation
	}
	if target.WorkspaceID != issue.WorkspaceID {
		return nil, ErrCrossWorkspace
	}
	return target, nil
}

// target resolves a target by id, falling back to its key in the workspace
func (s *service) target(ctx context.Context, workspaceID, ref string) (*models.Issue, error) {
	target, err := s.repo.GetIssueByID(ctx, ref)
	if err == nil {
		return target, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to get target issue: %w", err)
	}

	target, err = s.repo.GetIssueByKey(ctx, workspaceID, ref)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", ref, ErrTargetNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get target issue: %w", err)
	}
	return target, nil
}

// RemoveRelation deletes one relation of an issue
func (s *service) RemoveRelation(ctx context.Context, workspace, issueKey, relationID string) error {
	issue, err := s.issue(ctx, workspace, issueKey)
	if err != nil {
		return err
	}

	edge, err := s.repo.GetRelation(ctx, issue.ID, relationID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteRelation(ctx, issue.ID, relationID); err != nil {
		return fmt.Errorf("failed to remove relation: %w", err)
	}

	s.recordActivity(ctx, issue.ID, models.ActionRelationRemoved, string(edge.Type)+" "+relationID)
	return nil
}

// Search returns picker candidates. The type filter runs before the text
// match so excluded types never match.
func (s *service) Search(ctx context.Context, req SearchRequest) ([]models.RelationItem, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	params := database.SearchParams{ProjectID: req.ProjectID, Text: req.Query}
	if req.Workspace != "" {
		ws, err := s.repo.GetWorkspace(ctx, req.Workspace)
		if err != nil {
			return nil, err
		}
		params.WorkspaceID = ws.ID
	}

	candidates, err := s.repo.SearchIssues(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}

	items := relations.FilterCandidates(candidates, relations.PickerQuery{Text: req.Query, Types: req.Types})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *service) issue(ctx context.Context, workspace, key string) (*models.Issue, error) {
	ws, err := s.repo.GetWorkspace(ctx, workspace)
	if err != nil {
		return nil, err
	}
	return s.repo.GetIssueByKey(ctx, ws.ID, key)
}

// recordActivity is best effort; the relation change is already stored
func (s *service) recordActivity(ctx context.Context, issueID, action, detail string) {
	if err := s.repo.AddActivity(ctx, issueID, models.ActivityEntry{Action: action, Detail: detail}); err != nil {
		slog.Warn("failed to record relation activity", "issue_id", issueID, "action", action, "error", err)
	}
}
