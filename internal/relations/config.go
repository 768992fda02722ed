package relations

import "github.com/Art-of-Technology/collab/internal/models"

var configs = []models.RelationConfig{
	{
		Kind:        models.RelationParent,
		Label:       "Parent",
		Icon:        "arrow-up",
		Color:       "#6B7280",
		Description: "The issue this one is part of",
	},
	{
		Kind:        models.RelationChild,
		Label:       "Sub-issues",
		Icon:        "arrow-down",
		Color:       "#3B82F6",
		Description: "Issues that are part of this one",
	},
	{
		Kind:        models.RelationBlocks,
		Label:       "Blocks",
		Icon:        "shield",
		Color:       "#EF4444",
		Description: "Issues that cannot progress until this one is done",
	},
	{
		Kind:        models.RelationBlockedBy,
		Label:       "Blocked by",
		Icon:        "shield-alert",
		Color:       "#F97316",
		Description: "Issues that must be done before this one",
	},
	{
		Kind:        models.RelationRelatesTo,
		Label:       "Related to",
		Icon:        "link",
		Color:       "#8B5CF6",
		Description: "Issues connected to this one without a dependency",
	},
	{
		Kind:        models.RelationDuplicates,
		Label:       "Duplicates",
		Icon:        "copy",
		Color:       "#EAB308",
		Description: "Issues this one is a duplicate of",
	},
	{
		Kind:        models.RelationDuplicatedBy,
		Label:       "Duplicated by",
		Icon:        "files",
		Color:       "#A3A3A3",
		Description: "Issues that duplicate this one",
	},
}

// Configs returns the display table for every relation kind, in display order
func Configs() []models.RelationConfig {
	out := make([]models.RelationConfig, len(configs))
	copy(out, configs)
	return out
}

// Config returns the display metadata for kind. Unknown kinds get a neutral
// entry labelled with the raw kind.
func Config(kind models.RelationKind) models.RelationConfig {
	for _, c := range configs {
		if c.Kind == kind {
			return c
		}
	}
	return models.RelationConfig{Kind: kind, Label: string(kind), Icon: "link", Color: "#6B7280"}
}
