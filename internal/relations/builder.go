// Package relations turns flat relation records into per-kind buckets and
// derives view models (progress, counts) from them.
package relations

import "github.com/Art-of-Technology/collab/internal/models"

// BuildRelations groups records into one bucket per kind. Arrays keep the
// order the records arrived in; nothing is de-duplicated or sorted. Parent is
// singular, so when several parent records are present the last one wins.
// Records with an unknown kind are ignored.
func BuildRelations(records []models.RelationRecord) models.IssueRelations {
	out := Empty()
	for _, r := range records {
		item := r.RelatedItem
		switch r.RelationType {
		case models.RelationParent:
			out.Parent = &item
		case models.RelationChild:
			out.Children = append(out.Children, item)
		case models.RelationBlocks:
			out.Blocks = append(out.Blocks, item)
		case models.RelationBlockedBy:
			out.BlockedBy = append(out.BlockedBy, item)
		case models.RelationRelatesTo:
			out.RelatesTo = append(out.RelatesTo, item)
		case models.RelationDuplicates:
			out.Duplicates = append(out.Duplicates, item)
		case models.RelationDuplicatedBy:
			out.DuplicatedBy = append(out.DuplicatedBy, item)
		}
	}
	return out
}

// Empty returns relations with every array bucket allocated, so the JSON
// form carries [] rather than null
func Empty() models.IssueRelations {
	return models.IssueRelations{
		Children:     []models.RelationItem{},
		Blocks:       []models.RelationItem{},
		BlockedBy:    []models.RelationItem{},
		RelatesTo:    []models.RelationItem{},
		Duplicates:   []models.RelationItem{},
		DuplicatedBy: []models.RelationItem{},
	}
}

// Flatten is the inverse of BuildRelations. Parent comes first, then the
// array buckets in RelationKinds order.
func Flatten(rel models.IssueRelations) []models.RelationRecord {
	var out []models.RelationRecord
	for _, kind := range models.RelationKinds {
		for _, item := range Bucket(rel, kind) {
			out = append(out, models.RelationRecord{RelationType: kind, RelatedItem: item})
		}
	}
	return out
}

// Bucket returns the items stored under kind. The parent bucket has at most one item.
func Bucket(rel models.IssueRelations, kind models.RelationKind) []models.RelationItem {
	switch kind {
	case models.RelationParent:
		if rel.Parent == nil {
			return nil
		}
		return []models.RelationItem{*rel.Parent}
	case models.RelationChild:
		return rel.Children
	case models.RelationBlocks:
		return rel.Blocks
	case models.RelationBlockedBy:
		return rel.BlockedBy
	case models.RelationRelatesTo:
		return rel.RelatesTo
	case models.RelationDuplicates:
		return rel.Duplicates
	case models.RelationDuplicatedBy:
		return rel.DuplicatedBy
	}
	return nil
}

// HasAnyRelations reports whether at least one bucket, parent included, is non-empty
func HasAnyRelations(rel models.IssueRelations) bool {
	return Count(rel) > 0
}

// Count returns the total number of related items across all buckets
func Count(rel models.IssueRelations) int {
	n := len(rel.Children) + len(rel.Blocks) + len(rel.BlockedBy) +
		len(rel.RelatesTo) + len(rel.Duplicates) + len(rel.DuplicatedBy)
	if rel.Parent != nil {
		n++
	}
	return n
}

// RelatedIDs returns the ids of every related issue. Used by the relation
// picker to hide issues that are already linked.
func RelatedIDs(rel models.IssueRelations) map[string]bool {
	ids := make(map[string]bool, Count(rel))
	for _, kind := range models.RelationKinds {
		for _, item := range Bucket(rel, kind) {
			ids[item.ID] = true
		}
	}
	return ids
}
