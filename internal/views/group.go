package views

import (
	"slices"
	"sort"
	"strings"

	"github.com/Art-of-Technology/collab/internal/models"
)

// Group is one bucket of a grouped view: a list section or a kanban column
type Group struct {
	Key    string         `json:"key"`
	Label  string         `json:"label"`
	Issues []models.Issue `json:"issues"`
}

// GroupOptions tunes grouping
type GroupOptions struct {
	// Statuses gives the column order for status grouping
	Statuses []models.Status
	// IncludeEmpty keeps buckets that received no issues (kanban columns)
	IncludeEmpty bool
}

const (
	noPriorityKey = "none"
	unassignedKey = "unassigned"
	noProjectKey  = "none"
)

// GroupableFields lists the fields issues can be grouped by
var GroupableFields = []string{FieldStatus, FieldPriority, FieldAssignee, FieldType, FieldProject}

// IsGroupable reports whether field is a supported grouping
func IsGroupable(field string) bool {
	return slices.Contains(GroupableFields, field)
}

// GroupBy splits issues into ordered buckets. Issues keep their relative
// order inside a bucket. Unknown fields yield a single "all" bucket.
func GroupBy(issues []models.Issue, field string, opts GroupOptions) []Group {
	switch field {
	case FieldStatus:
		return groupByStatus(issues, opts)
	case FieldPriority:
		return groupByPriority(issues, opts)
	case FieldType:
		return groupByType(issues, opts)
	case FieldAssignee:
		return groupByRef(issues, func(i models.Issue) (string, string) {
			if i.Assignee == nil {
				return "", ""
			}
			return i.Assignee.ID, i.Assignee.Name
		}, unassignedKey, "Unassigned")
	case FieldProject:
		return groupByRef(issues, func(i models.Issue) (string, string) {
			if i.Project == nil {
				return "", ""
			}
			return i.Project.ID, i.Project.Name
		}, noProjectKey, "No project")
	}
	return []Group{{Key: "all", Label: "All issues", Issues: slices.Clone(issues)}}
}

// bucketer accumulates groups while remembering insertion order
type bucketer struct {
	order  []string
	groups map[string]*Group
}

func newBucketer() *bucketer {
	return &bucketer{groups: make(map[string]*Group)}
}

func (b *bucketer) ensure(key, label string) *Group {
	g, ok := b.groups[key]
	if !ok {
		g = &Group{Key: key, Label: label, Issues: []models.Issue{}}
		b.groups[key] = g
		b.order = append(b.order, key)
	}
	return g
}

func (b *bucketer) add(key, label string, issue models.Issue) {
	g := b.ensure(key, label)
	g.Issues = append(g.Issues, issue)
}

func (b *bucketer) result(includeEmpty bool) []Group {
	out := make([]Group, 0, len(b.order))
	for _, key := range b.order {
		g := b.groups[key]
		if len(g.Issues) == 0 && !includeEmpty {
			continue
		}
		out = append(out, *g)
	}
	return out
}

func groupByStatus(issues []models.Issue, opts GroupOptions) []Group {
	b := newBucketer()

	columns := slices.Clone(opts.Statuses)
	sort.SliceStable(columns, func(i, j int) bool { return columns[i].Order < columns[j].Order })
	for _, s := range columns {
		b.ensure(normalize(s.Name), s.Name)
	}

	for _, issue := range issues {
		b.add(normalize(issue.Status), issue.Status, issue)
	}
	return b.result(opts.IncludeEmpty)
}

func groupByPriority(issues []models.Issue, opts GroupOptions) []Group {
	b := newBucketer()
	for _, p := range []string{models.PriorityUrgent, models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		b.ensure(p, titleCase(p))
	}
	b.ensure(noPriorityKey, "No priority")

	for _, issue := range issues {
		p := strings.ToUpper(strings.TrimSpace(issue.Priority))
		if PriorityRank(p) == 0 {
			b.add(noPriorityKey, "No priority", issue)
			continue
		}
		b.add(p, titleCase(p), issue)
	}
	return b.result(opts.IncludeEmpty)
}

func groupByType(issues []models.Issue, opts GroupOptions) []Group {
	b := newBucketer()
	for _, t := range models.IssueTypes {
		b.ensure(t, titleCase(t))
	}
	for _, issue := range issues {
		t := strings.ToUpper(issue.Type)
		b.add(t, titleCase(t), issue)
	}
	return b.result(opts.IncludeEmpty)
}

// groupByRef groups by an embedded reference, alphabetically by label with
// the "missing" bucket last
func groupByRef(issues []models.Issue, ref func(models.Issue) (string, string), missingKey, missingLabel string) []Group {
	b := newBucketer()
	for _, issue := range issues {
		id, name := ref(issue)
		if id == "" {
			b.add(missingKey, missingLabel, issue)
			continue
		}
		b.add(id, name, issue)
	}

	groups := b.result(false)
	sort.SliceStable(groups, func(i, j int) bool {
		mi, mj := groups[i].Key == missingKey, groups[j].Key == missingKey
		if mi != mj {
			return mj
		}
		return strings.ToLower(groups[i].Label) < strings.ToLower(groups[j].Label)
	})
	return groups
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(strings.ReplaceAll(s, "_", " "))
	return strings.ToUpper(lower[:1]) + lower[1:]
}
