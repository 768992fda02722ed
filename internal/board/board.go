// Package board holds the kanban drag-and-drop state machine and the
// controller that persists its moves.
//
// A drag moves through idle -> dragging -> dropped. Drops are applied to the
// local board immediately; persistence happens afterwards and the board
// returns to idle once nothing is left in flight.
package board

import (
	"errors"
	"slices"
	"strings"

	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/views"
)

// Phase is the state of the drag-and-drop machine
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseDropped
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseDragging:
		return "dragging"
	case PhaseDropped:
		return "dropped"
	default:
		return "idle"
	}
}

// DragKind says what is being dragged
type DragKind int

const (
	DragIssue DragKind = iota
	DragColumn
)

// State machine errors
var (
	ErrAlreadyDragging = errors.New("a drag is already in progress")
	ErrNotDragging     = errors.New("nothing is being dragged")
	ErrWrongDragKind   = errors.New("drop does not match the dragged item")
	ErrUnknownIssue    = errors.New("issue is not on the board")
	ErrUnknownColumn   = errors.New("column is not on the board")
	ErrFixedColumn     = errors.New("column is not a project status and cannot be moved")
)

// Column is one kanban column. Value is the semantic value an issue takes
// when dropped into it (the status name for status boards). Fixed columns
// hold statuses the project does not define; they stay after the movable
// columns and are never part of a persisted order.
type Column struct {
	ID     string
	Name   string
	Value  string
	Fixed  bool
	Issues []models.Issue
}

// Drag describes the item currently picked up
type Drag struct {
	Kind       DragKind
	IssueID    string
	ColumnID   string
	FromColumn int
	FromIndex  int
}

// IssueMove is the result of dropping an issue
type IssueMove struct {
	IssueID      string
	FromColumnID string
	ToColumnID   string
	FromIndex    int
	ToIndex      int
	PrevValue    string
	Value        string
}

// ChangedColumn reports whether the issue landed in a different column
func (m IssueMove) ChangedColumn() bool {
	return m.FromColumnID != m.ToColumnID
}

// ColumnMove is the result of dropping a column
type ColumnMove struct {
	ColumnID  string
	FromIndex int
	ToIndex   int
	Order     []string
}

// Board is the local, optimistic copy of a kanban board. It is not safe for
// concurrent use; Controller serializes access.
type Board struct {
	ProjectID string
	columns   []*Column
	phase     Phase
	drag      *Drag
}

// New builds a board from columns in display order
func New(projectID string, columns []Column) *Board {
	b := &Board{ProjectID: projectID}
	for _, c := range columns {
		col := c
		col.Issues = slices.Clone(c.Issues)
		b.columns = append(b.columns, &col)
	}
	return b
}

// FromStatuses builds a status board: one column per status in order, plus
// columns for any status an issue carries that the project does not define
func FromStatuses(projectID string, statuses []models.Status, issues []models.Issue) *Board {
	byName := make(map[string]models.Status, len(statuses))
	for _, s := range statuses {
		byName[strings.ToLower(strings.TrimSpace(s.Name))] = s
	}

	byPosition := views.Sort(issues, models.Sorting{Field: views.FieldPosition, Direction: views.Asc})
	groups := views.GroupBy(byPosition, views.FieldStatus, views.GroupOptions{Statuses: statuses, IncludeEmpty: true})

	columns := make([]Column, 0, len(groups))
	for _, g := range groups {
		col := Column{ID: g.Key, Name: g.Label, Value: g.Label, Fixed: true, Issues: g.Issues}
		if s, ok := byName[g.Key]; ok {
			col.ID = s.ID
			col.Name = s.Name
			col.Value = s.Name
			col.Fixed = false
		}
		columns = append(columns, col)
	}
	return New(projectID, columns)
}

// Phase returns the machine state
func (b *Board) Phase() Phase { return b.phase }

// Dragging returns the current drag, or nil when idle
func (b *Board) Dragging() *Drag {
	if b.drag == nil {
		return nil
	}
	d := *b.drag
	return &d
}

// Columns returns a copy of the columns in display order
func (b *Board) Columns() []Column {
	out := make([]Column, len(b.columns))
	for i, c := range b.columns {
		out[i] = *c
		out[i].Issues = slices.Clone(c.Issues)
	}
	return out
}

// ColumnOrder returns column ids in display order
func (b *Board) ColumnOrder() []string {
	out := make([]string, len(b.columns))
	for i, c := range b.columns {
		out[i] = c.ID
	}
	return out
}

// StatusOrder returns the ids of the movable columns in display order. This
// is the order sent to the server.
func (b *Board) StatusOrder() []string {
	out := make([]string, 0, len(b.columns))
	for _, c := range b.columns {
		if !c.Fixed {
			out = append(out, c.ID)
		}
	}
	return out
}

// StartIssueDrag picks up an issue
func (b *Board) StartIssueDrag(issueID string) error {
	if b.phase == PhaseDragging {
		return ErrAlreadyDragging
	}
	ci, ii, ok := b.locateIssue(issueID)
	if !ok {
		return ErrUnknownIssue
	}
	b.drag = &Drag{Kind: DragIssue, IssueID: issueID, ColumnID: b.columns[ci].ID, FromColumn: ci, FromIndex: ii}
	b.phase = PhaseDragging
	return nil
}

// StartColumnDrag picks up a column
func (b *Board) StartColumnDrag(columnID string) error {
	if b.phase == PhaseDragging {
		return ErrAlreadyDragging
	}
	ci, ok := b.locateColumn(columnID)
	if !ok {
		return ErrUnknownColumn
	}
	if b.columns[ci].Fixed {
		return ErrFixedColumn
	}
	b.drag = &Drag{Kind: DragColumn, ColumnID: columnID, FromColumn: ci, FromIndex: ci}
	b.phase = PhaseDragging
	return nil
}

// Cancel abandons the current drag without changing the board
func (b *Board) Cancel() {
	if b.phase != PhaseDragging {
		return
	}
	b.drag = nil
	b.phase = PhaseIdle
}

// DropIssue drops the dragged issue into a column at index. The index is
// clamped to the column. A drop into another column sets the issue's status
// to the column value.
func (b *Board) DropIssue(toColumnID string, toIndex int) (IssueMove, error) {
	if b.phase != PhaseDragging || b.drag == nil {
		return IssueMove{}, ErrNotDragging
	}
	if b.drag.Kind != DragIssue {
		return IssueMove{}, ErrWrongDragKind
	}
	to, ok := b.locateColumn(toColumnID)
	if !ok {
		return IssueMove{}, ErrUnknownColumn
	}
	from, fromIndex, ok := b.locateIssue(b.drag.IssueID)
	if !ok {
		b.Cancel()
		return IssueMove{}, ErrUnknownIssue
	}

	src := b.columns[from]
	issue := src.Issues[fromIndex]
	src.Issues = slices.Delete(src.Issues, fromIndex, fromIndex+1)

	dst := b.columns[to]
	toIndex = clamp(toIndex, 0, len(dst.Issues))

	move := IssueMove{
		IssueID:      issue.ID,
		FromColumnID: src.ID,
		ToColumnID:   dst.ID,
		FromIndex:    fromIndex,
		ToIndex:      toIndex,
		PrevValue:    issue.Status,
		Value:        issue.Status,
	}
	if move.ChangedColumn() {
		issue.Status = dst.Value
		move.Value = dst.Value
	}
	dst.Issues = slices.Insert(dst.Issues, toIndex, issue)

	b.drag = nil
	b.phase = PhaseDropped
	return move, nil
}

// DropColumn drops the dragged column at index. The index is clamped so the
// column stays ahead of any fixed columns.
func (b *Board) DropColumn(toIndex int) (ColumnMove, error) {
	if b.phase != PhaseDragging || b.drag == nil {
		return ColumnMove{}, ErrNotDragging
	}
	if b.drag.Kind != DragColumn {
		return ColumnMove{}, ErrWrongDragKind
	}
	from, ok := b.locateColumn(b.drag.ColumnID)
	if !ok {
		b.Cancel()
		return ColumnMove{}, ErrUnknownColumn
	}

	col := b.columns[from]
	b.columns = slices.Delete(b.columns, from, from+1)
	movable := 0
	for _, c := range b.columns {
		if !c.Fixed {
			movable++
		}
	}
	toIndex = clamp(toIndex, 0, movable)
	b.columns = slices.Insert(b.columns, toIndex, col)

	b.drag = nil
	b.phase = PhaseDropped
	return ColumnMove{ColumnID: col.ID, FromIndex: from, ToIndex: toIndex, Order: b.StatusOrder()}, nil
}

// Settle returns a dropped board to idle
func (b *Board) Settle() {
	if b.phase == PhaseDropped {
		b.phase = PhaseIdle
	}
}

// UndoIssueMove puts an issue back where a move took it from. It does nothing
// and returns false when the issue has been moved again since.
func (b *Board) UndoIssueMove(m IssueMove) bool {
	ci, ii, ok := b.locateIssue(m.IssueID)
	if !ok || b.columns[ci].ID != m.ToColumnID {
		return false
	}
	from, ok := b.locateColumn(m.FromColumnID)
	if !ok {
		return false
	}

	dst := b.columns[ci]
	issue := dst.Issues[ii]
	dst.Issues = slices.Delete(dst.Issues, ii, ii+1)
	issue.Status = m.PrevValue

	src := b.columns[from]
	src.Issues = slices.Insert(src.Issues, clamp(m.FromIndex, 0, len(src.Issues)), issue)
	return true
}

// RestoreColumnOrder reorders columns to match ids. Unknown ids are skipped
// and columns missing from ids keep their relative order at the end.
func (b *Board) RestoreColumnOrder(ids []string) {
	rank := make(map[string]int, len(ids))
	for i, id := range ids {
		rank[id] = i
	}
	slices.SortStableFunc(b.columns, func(x, y *Column) int {
		rx, okx := rank[x.ID]
		ry, oky := rank[y.ID]
		switch {
		case okx && oky:
			return rx - ry
		case okx:
			return -1
		case oky:
			return 1
		}
		return 0
	})
}

// ReplaceIssue swaps in a fresh copy of an issue if it still sits in
// columnID. The column's value wins over the copy's status.
func (b *Board) ReplaceIssue(columnID string, issue models.Issue) bool {
	ci, ii, ok := b.locateIssue(issue.ID)
	if !ok || b.columns[ci].ID != columnID {
		return false
	}
	issue.Status = b.columns[ci].Issues[ii].Status
	b.columns[ci].Issues[ii] = issue
	return true
}

func (b *Board) locateIssue(id string) (int, int, bool) {
	for ci, c := range b.columns {
		for ii, issue := range c.Issues {
			if issue.ID == id {
				return ci, ii, true
			}
		}
	}
	return 0, 0, false
}

func (b *Board) locateColumn(id string) (int, bool) {
	for i, c := range b.columns {
		if c.ID == id {
			return i, true
		}
	}
	return 0, false
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
