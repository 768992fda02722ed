// Package view holds the cli commands for saved views
// e.g., collab view ...
package view

import (
	"fmt"
	"strings"

	"github.com/Art-of-Technology/collab/internal/cli"
	"github.com/Art-of-Technology/collab/internal/cli/styles"
	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/views"
	"github.com/spf13/cobra"
)

// ViewCmd returns the view parent command
func ViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "List, render and save views",
	}

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(SaveCmd())

	return cmd
}

// ListCmd returns the view list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the workspace's saved views",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	formatter := cli.FormatterFromCmd(cmd)

	cliInstance, err := cli.GetCLIFromContext(cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	list, err := cliInstance.Client.ListViews(cmd.Context())
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, v := range list {
			fmt.Println(v.ID)
		}
		return nil
	}
	if formatter.JSON {
		return formatter.Success(list)
	}

	if len(list) == 0 {
		fmt.Println(styles.SubtitleStyle.Render("No saved views"))
		return nil
	}
	for _, v := range list {
		fmt.Printf("%-38s %-10s %s %s\n", v.ID, v.DisplayType, v.Name, styles.SubtitleStyle.Render(describe(v)))
	}
	return nil
}

// describe summarizes a view's grouping and sorting in one line
func describe(v models.View) string {
	var parts []string
	if v.Grouping != "" && v.Grouping != views.GroupNone {
		parts = append(parts, "group:"+v.Grouping)
	}
	if v.Sorting.Field != "" {
		parts = append(parts, "sort:"+v.Sorting.Field+":"+v.Sorting.Direction)
	}
	if n := filterCount(v.Filters); n > 0 {
		parts = append(parts, fmt.Sprintf("filters:%d", n))
	}
	return strings.Join(parts, " ")
}

func filterCount(f models.ViewFilters) int {
	n := len(f.Status) + len(f.Priority) + len(f.Type) + len(f.Assignee) + len(f.Label) + len(f.Project)
	if f.DateRange != nil {
		n++
	}
	if f.ActionHistory != nil {
		n++
	}
	return n
}
