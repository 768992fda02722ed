package relation

import (
	"context"
	"fmt"
)

// parentPlan checks parent links of one batch against the stored hierarchy
// and the links planned earlier in the batch
type parentPlan struct {
	repo    Store
	planned map[string]string // child -> parent
}

func newParentPlan(repo Store) *parentPlan {
	return &parentPlan{repo: repo, planned: make(map[string]string)}
}

// link plans parentID as the parent of childID. An issue has at most one
// parent and the hierarchy stays acyclic.
func (p *parentPlan) link(ctx context.Context, parentID, childID string) error {
	current, err := p.parentOf(ctx, childID)
	if err != nil {
		return err
	}
	if current != "" {
		return ErrParentExists
	}

	visited := map[string]bool{}
	for cur := parentID; cur != ""; {
		if cur == childID {
			return ErrCircularRelation
		}
		if visited[cur] {
			break
		}
		visited[cur] = true

		next, err := p.parentOf(ctx, cur)
		if err != nil {
			return err
		}
		cur = next
	}

	p.planned[childID] = parentID
	return nil
}

func (p *parentPlan) parentOf(ctx context.Context, id string) (string, error) {
	if parent, ok := p.planned[id]; ok {
		return parent, nil
	}
	parent, err := p.repo.ParentOf(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to walk parents: %w", err)
	}
	return parent, nil
}
