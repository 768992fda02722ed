package status

import (
	"context"
	"fmt"
	"slices"

	"github.com/Art-of-Technology/collab/internal/models"
)

// Store is the persistence the status service needs
type Store interface {
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListStatuses(ctx context.Context, projectID string) ([]models.Status, error)
	ReorderStatuses(ctx context.Context, projectID string, ids []string) error
}

// Service defines the board column operations
type Service interface {
	ListStatuses(ctx context.Context, projectID string) ([]models.Status, error)
	ReorderStatuses(ctx context.Context, projectID string, ids []string) ([]models.Status, error)
}

type service struct {
	repo Store
}

// NewService creates a new status service
func NewService(repo Store) Service {
	return &service{repo: repo}
}

// ListStatuses returns a project's statuses in column order
func (s *service) ListStatuses(ctx context.Context, projectID string) ([]models.Status, error) {
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	statuses, err := s.repo.ListStatuses(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	if statuses == nil {
		statuses = []models.Status{}
	}
	return statuses, nil
}

// ReorderStatuses stores a new column order. ids must be a permutation of
// the project's status ids.
func (s *service) ReorderStatuses(ctx context.Context, projectID string, ids []string) ([]models.Status, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyOrder
	}

	current, err := s.ListStatuses(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !isPermutation(current, ids) {
		return nil, ErrNotPermutation
	}

	if err := s.repo.ReorderStatuses(ctx, projectID, ids); err != nil {
		return nil, fmt.Errorf("failed to reorder statuses: %w", err)
	}
	return s.ListStatuses(ctx, projectID)
}

func isPermutation(statuses []models.Status, ids []string) bool {
	if len(statuses) != len(ids) {
		return false
	}
	want := make([]string, len(statuses))
	for i, st := range statuses {
		want[i] = st.ID
	}
	got := slices.Clone(ids)
	slices.Sort(want)
	slices.Sort(got)
	return slices.Equal(want, got)
}
