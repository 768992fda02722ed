package huhforms

import (
	"errors"
	"fmt"

	"charm.land/huh/v2"
	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/relations"
)

var errNoTargets = errors.New("pick at least one issue")

// RelationKindOptions lists every relation kind, labelled as the relations
// pane labels it
func RelationKindOptions() []huh.Option[models.RelationKind] {
	configs := relations.Configs()
	opts := make([]huh.Option[models.RelationKind], 0, len(configs))
	for _, cfg := range configs {
		opts = append(opts, huh.NewOption(cfg.Label+" ("+string(cfg.Kind)+")", cfg.Kind))
	}
	return opts
}

// CandidateOptions lists candidate issues keyed by issue key
func CandidateOptions(candidates []models.RelationItem) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(candidates))
	for _, c := range candidates {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s  %s  [%s]", c.Key, c.Title, c.Status), c.Key))
	}
	return opts
}

// CreateRelationKindForm asks how issueKey relates to the issues picked next
func CreateRelationKindForm(issueKey string, kind *models.RelationKind) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[models.RelationKind]().
			Key("kind").
			Title("Relation").
			Description(issueKey + " is the source of the relation").
			Options(RelationKindOptions()...).
			Value(kind),
	))
}

// CreateRelationTargetsForm picks target issues for one relation kind.
// At least one target must be chosen.
func CreateRelationTargetsForm(issueKey string, kind models.RelationKind, candidates []models.RelationItem, keys *[]string) *huh.Form {
	label := relations.Config(kind).Label

	return huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Key("targets").
			Title(fmt.Sprintf("%s: %s", issueKey, label)).
			Description("Space to toggle, / to filter").
			Options(CandidateOptions(candidates)...).
			Filterable(true).
			Validate(func(picked []string) error {
				if len(picked) == 0 {
					return errNoTargets
				}
				return nil
			}).
			Value(keys),
	))
}
