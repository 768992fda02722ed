package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Art-of-Technology/collab/internal/cli"
	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/views"
	"github.com/spf13/cobra"
)

// SaveCmd returns the view save subcommand
func SaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a view or save changes to one",
		Long: `Create a view, or with --id load an existing view, apply the given
settings and save it. Only the flags you pass change; the command reports
which settings differ from the stored version and does nothing when none do.

Filters use field=value1,value2 (status, priority, type, assignee, label,
project, action, actor) or a date range like dueDate=2024-01-01..2024-02-01.
since=2024-01-01 limits action and actor matches to activity from that day on.

Examples:
  collab view save --name "Urgent bugs" --display list --sort priority:desc \
      --filter type=bug --filter priority=urgent,high
  collab view save --id 1f0c... --group assignee
  collab view save --id 1f0c... --clear-filters --filter status=Todo`,
		Args: cobra.NoArgs,
		RunE: runSave,
	}

	cmd.Flags().String("id", "", "Existing view to update")
	cmd.Flags().String("name", "", "View name (required for new views)")
	cmd.Flags().String("display", "", "Display type: list, kanban, table or timeline")
	cmd.Flags().String("group", "", "Grouping field, or \"none\"")
	cmd.Flags().String("sort", "", "Sort as field[:asc|desc]")
	cmd.Flags().StringArray("filter", nil, "Filter expression (repeatable)")
	cmd.Flags().Bool("clear-filters", false, "Drop existing filters before applying --filter")
	cmd.Flags().StringSlice("project", nil, "Project ids the view covers (repeatable)")
	cmd.Flags().StringSlice("toggle-field", nil, "Show or hide a display field (repeatable)")

	cli.AddOutputFlags(cmd)

	return cmd
}

// saveOutput is the JSON shape of view save
type saveOutput struct {
	View    *models.View `json:"view"`
	Created bool         `json:"created"`
	Changes []string     `json:"changes"`
}

func (o saveOutput) GetID() string { return o.View.ID }

func runSave(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.FormatterFromCmd(cmd)
	flags := cmd.Flags()

	id, _ := flags.GetString("id")
	name, _ := flags.GetString("name")
	if id == "" && strings.TrimSpace(name) == "" {
		return formatter.Usage("--name is required when creating a view", `collab view save --name "My view"`)
	}

	cliInstance, err := cli.GetCLIFromContext(cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	client := cliInstance.Client

	base := models.View{DisplayType: models.DisplayList}
	if id != "" {
		existing, err := client.GetView(ctx, id)
		if err != nil {
			return formatter.Fail(err)
		}
		base = *existing
	}

	draft := views.NewDraft(base)
	if err := applyFlags(cmd, draft); err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			return formatter.Usage(err.Error(), "See collab view save --help")
		}
		return formatter.Fail(err)
	}

	changes := draft.Changes()
	current := draft.Current()
	if flags.Changed("name") && name != base.Name {
		current.Name = name
		changes = append([]string{"name"}, changes...)
	}

	if id != "" && len(changes) == 0 {
		if formatter.JSON {
			return formatter.Success(saveOutput{View: &base, Changes: []string{}})
		}
		if formatter.Quiet {
			fmt.Println(base.ID)
			return nil
		}
		fmt.Println("No changes to save")
		return nil
	}

	var saved *models.View
	if id == "" {
		saved, err = client.CreateView(ctx, current)
	} else {
		saved, err = client.UpdateView(ctx, current)
	}
	if err != nil {
		return formatter.Fail(err)
	}

	out := saveOutput{View: saved, Created: id == "", Changes: changes}
	if formatter.JSON || formatter.Quiet {
		return formatter.Success(out)
	}

	verb := "Updated"
	if out.Created {
		verb = "Created"
	}
	fmt.Printf("✓ %s view %q (%s, version %d)\n", verb, saved.Name, saved.ID, saved.Version)
	if !out.Created {
		fmt.Printf("  changed: %s\n", strings.Join(changes, ", "))
	}
	return nil
}

// applyFlags applies only the flags the user passed to the draft
func applyFlags(cmd *cobra.Command, draft *views.Draft) error {
	flags := cmd.Flags()

	if flags.Changed("display") {
		display, _ := flags.GetString("display")
		t := models.DisplayType(strings.ToUpper(display))
		if !t.Valid() {
			return fmt.Errorf("%w: unknown display type %q", models.ErrInvalidInput, display)
		}
		draft.SetDisplayType(t)
	}

	if flags.Changed("group") {
		group, _ := flags.GetString("group")
		if group != views.GroupNone && group != "" && !views.IsGroupable(group) {
			return fmt.Errorf("%w: cannot group by %q", models.ErrInvalidInput, group)
		}
		draft.SetGrouping(group)
	}

	if flags.Changed("sort") {
		raw, _ := flags.GetString("sort")
		s, err := parseSort(raw)
		if err != nil {
			return err
		}
		draft.SetSorting(s)
	}

	clearFilters, _ := flags.GetBool("clear-filters")
	exprs, _ := flags.GetStringArray("filter")
	if clearFilters || len(exprs) > 0 {
		filters := draft.Current().Filters
		if clearFilters {
			filters = models.ViewFilters{}
		}
		for _, expr := range exprs {
			if err := views.ApplyFilterExpr(&filters, expr); err != nil {
				return err
			}
		}
		draft.SetFilters(filters)
	}

	if flags.Changed("project") {
		projects, _ := flags.GetStringSlice("project")
		draft.SetProjects(projects)
	}

	toggles, _ := flags.GetStringSlice("toggle-field")
	for _, field := range toggles {
		draft.ToggleField(field)
	}
	return nil
}

// parseSort reads "field" or "field:dir". A missing direction uses the
// field's default.
func parseSort(raw string) (models.Sorting, error) {
	field, dir, _ := strings.Cut(strings.TrimSpace(raw), ":")
	if !views.IsSortable(field) {
		return models.Sorting{}, fmt.Errorf("%w: cannot sort by %q", models.ErrInvalidInput, field)
	}
	dir = strings.ToLower(dir)
	switch dir {
	case "":
		dir = views.DefaultDirection(field)
	case views.Asc, views.Desc:
	default:
		return models.Sorting{}, fmt.Errorf("%w: unknown sort direction %q", models.ErrInvalidInput, dir)
	}
	return models.Sorting{Field: field, Direction: dir}, nil
}
