package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/Art-of-Technology/collab/internal/models"
)

const dateLayout = "2006-01-02"

// ApplyFilterExpr parses a "field=value1,value2" expression and merges it
// into f. Date ranges use "createdAt=2024-01-01..2024-02-01" with either
// side optional; action history uses "action=", "actor=" and
// "since=2024-01-01".
func ApplyFilterExpr(f *models.ViewFilters, expr string) error {
	field, raw, ok := strings.Cut(expr, "=")
	if !ok {
		return fmt.Errorf("%w: filter %q must look like field=value", models.ErrInvalidInput, expr)
	}
	field = strings.TrimSpace(field)
	values := splitValues(raw)
	if len(values) == 0 {
		return fmt.Errorf("%w: filter %q has no values", models.ErrInvalidInput, expr)
	}

	switch field {
	case FieldStatus:
		f.Status = append(f.Status, values...)
	case FieldPriority:
		f.Priority = append(f.Priority, upper(values)...)
	case FieldType:
		f.Type = append(f.Type, upper(values)...)
	case FieldAssignee:
		f.Assignee = append(f.Assignee, values...)
	case "label":
		f.Label = append(f.Label, values...)
	case FieldProject:
		f.Project = append(f.Project, values...)
	case "action":
		history(f).Actions = append(history(f).Actions, values...)
	case "actor":
		history(f).Actors = append(history(f).Actors, values...)
	case "since":
		if len(values) != 1 {
			return fmt.Errorf("%w: since takes a single date", models.ErrInvalidInput)
		}
		t, err := time.Parse(dateLayout, values[0])
		if err != nil {
			return fmt.Errorf("%w: bad date %q", models.ErrInvalidInput, values[0])
		}
		history(f).Since = &t
	case FieldCreatedAt, FieldUpdatedAt, FieldDueDate, FieldStartDate:
		r, err := parseDateRange(field, strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		f.DateRange = r
	default:
		return fmt.Errorf("%w: unknown filter field %q", models.ErrInvalidInput, field)
	}
	return nil
}

func history(f *models.ViewFilters) *models.ActionHistoryFilter {
	if f.ActionHistory == nil {
		f.ActionHistory = &models.ActionHistoryFilter{}
	}
	return f.ActionHistory
}

func parseDateRange(field, raw string) (*models.DateRange, error) {
	from, to, ok := strings.Cut(raw, "..")
	if !ok {
		to = from
	}
	r := &models.DateRange{Field: field}
	if from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q", models.ErrInvalidInput, from)
		}
		r.From = &t
	}
	if to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q", models.ErrInvalidInput, to)
		}
		// inclusive through the end of the day
		end := t.Add(24*time.Hour - time.Nanosecond)
		r.To = &end
	}
	return r, nil
}

func splitValues(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func upper(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToUpper(v)
	}
	return out
}
