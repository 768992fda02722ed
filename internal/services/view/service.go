package view

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/views"
)

const maxNameLength = 100

// Store is the persistence the view service needs
type Store interface {
	GetWorkspace(ctx context.Context, idOrSlug string) (*models.Workspace, error)
	ListViews(ctx context.Context, workspaceID string) ([]models.View, error)
	GetView(ctx context.Context, workspaceID, id string) (*models.View, error)
	CreateView(ctx context.Context, v models.View) (*models.View, error)
	UpdateView(ctx context.Context, v models.View) (*models.View, error)
}

// Service defines all view-related business operations
type Service interface {
	ListViews(ctx context.Context, workspace string) ([]models.View, error)
	GetView(ctx context.Context, workspace, id string) (*models.View, error)
	CreateView(ctx context.Context, workspace string, v models.View) (*models.View, error)
	UpdateView(ctx context.Context, workspace string, v models.View) (*models.View, error)
}

type service struct {
	repo Store
}

// NewService creates a new view service
func NewService(repo Store) Service {
	return &service{repo: repo}
}

func (s *service) ListViews(ctx context.Context, workspace string) ([]models.View, error) {
	ws, err := s.repo.GetWorkspace(ctx, workspace)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListViews(ctx, ws.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	if list == nil {
		list = []models.View{}
	}
	return list, nil
}

func (s *service) GetView(ctx context.Context, workspace, id string) (*models.View, error) {
	ws, err := s.repo.GetWorkspace(ctx, workspace)
	if err != nil {
		return nil, err
	}
	return s.repo.GetView(ctx, ws.ID, id)
}

// CreateView validates and stores a new view. A blank display type
// defaults to LIST.
func (s *service) CreateView(ctx context.Context, workspace string, v models.View) (*models.View, error) {
	ws, err := s.repo.GetWorkspace(ctx, workspace)
	if err != nil {
		return nil, err
	}
	if v.DisplayType == "" {
		v.DisplayType = models.DisplayList
	}
	if err := normalize(&v); err != nil {
		return nil, err
	}
	v.WorkspaceID = ws.ID

	created, err := s.repo.CreateView(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("failed to create view: %w", err)
	}
	return created, nil
}

// UpdateView overwrites a view. v.Version must be the version the caller
// loaded; a newer stored version fails with ErrVersionConflict.
func (s *service) UpdateView(ctx context.Context, workspace string, v models.View) (*models.View, error) {
	ws, err := s.repo.GetWorkspace(ctx, workspace)
	if err != nil {
		return nil, err
	}
	if v.Version <= 0 {
		return nil, ErrMissingVersion
	}
	if err := normalize(&v); err != nil {
		return nil, err
	}
	v.WorkspaceID = ws.ID

	updated, err := s.repo.UpdateView(ctx, v)
	if errors.Is(err, models.ErrConflict) {
		return nil, fmt.Errorf("%w: %w", ErrVersionConflict, err)
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// normalize validates a view in place and canonicalizes enum casing
func normalize(v *models.View) error {
	v.Name = strings.TrimSpace(v.Name)
	if v.Name == "" {
		return ErrEmptyName
	}
	if len(v.Name) > maxNameLength {
		return ErrNameTooLong
	}

	v.DisplayType = models.DisplayType(strings.ToUpper(string(v.DisplayType)))
	if !v.DisplayType.Valid() {
		return fmt.Errorf("%q: %w", v.DisplayType, ErrInvalidDisplayType)
	}

	if v.Grouping != "" && v.Grouping != views.GroupNone && !views.IsGroupable(v.Grouping) {
		return fmt.Errorf("%q: %w", v.Grouping, ErrInvalidGrouping)
	}

	if v.Sorting.Field != "" && !views.IsSortable(v.Sorting.Field) {
		return fmt.Errorf("%q: %w", v.Sorting.Field, ErrInvalidSortField)
	}
	v.Sorting.Direction = strings.ToLower(v.Sorting.Direction)
	switch v.Sorting.Direction {
	case "", views.Asc, views.Desc:
	default:
		return fmt.Errorf("%q: %w", v.Sorting.Direction, ErrInvalidDirection)
	}

	return validateFilters(&v.Filters)
}

func validateFilters(f *models.ViewFilters) error {
	for i, p := range f.Priority {
		p = strings.ToUpper(p)
		if views.PriorityRank(p) == 0 {
			return fmt.Errorf("priority %q: %w", f.Priority[i], ErrInvalidFilter)
		}
		f.Priority[i] = p
	}
	for i, typ := range f.Type {
		typ = strings.ToUpper(typ)
		if !slices.Contains(models.IssueTypes, typ) {
			return fmt.Errorf("type %q: %w", f.Type[i], ErrInvalidFilter)
		}
		f.Type[i] = typ
	}
	if r := f.DateRange; r != nil {
		switch r.Field {
		case views.FieldCreatedAt, views.FieldUpdatedAt, views.FieldDueDate, views.FieldStartDate:
		default:
			return fmt.Errorf("date field %q: %w", r.Field, ErrInvalidFilter)
		}
		if r.From != nil && r.To != nil && r.To.Before(*r.From) {
			return fmt.Errorf("date range ends before it starts: %w", ErrInvalidFilter)
		}
	}
	return nil
}
