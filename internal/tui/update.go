package tui

import (
	"errors"
	"log/slog"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/Art-of-Technology/collab/internal/board"
	"github.com/Art-of-Technology/collab/internal/notifications"
)

// Update handles all messages and updates the model accordingly
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case quitMsg:
		return m, tea.Quit

	case outcomeMsg:
		// outcomes of a controller replaced by a refresh are ignored
		if msg.ctrl != m.ctrl || !msg.ok {
			return m, nil
		}
		if msg.outcome.Err == nil && msg.outcome.Kind == board.DragIssue {
			m.toasts.Notify(notifications.Info, "Issue moved")
		}
		m.clampCursor()
		return m, waitForOutcome(m.ctrl)

	case tickMsg:
		return m, tick()

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.toasts.Error(msg.err)
			return m, nil
		}
		old := m.ctrl
		m.ctrl = msg.ctrl
		m.clampCursor()
		if old != nil {
			go old.Close()
		}
		return m, waitForOutcome(m.ctrl)

	case relationsMsg:
		if msg.err != nil {
			m.toasts.Error(msg.err)
			return m, nil
		}
		if issue, ok := m.selectedIssue(); ok && issue.Key == msg.key {
			rel := msg.rel
			m.detailRel = &rel
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.quitting {
		// a second quit skips waiting for pending saves
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}
	drag := m.dragging()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, m.flushAndQuit()

	case key.Matches(msg, m.keys.ShowHelp):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Cancel):
		if drag != nil {
			m.ctrl.Cancel()
			if drag.Kind == board.DragColumn {
				m.column = drag.FromIndex
			}
			m.clampCursor()
		} else {
			m.detail = false
		}

	case key.Matches(msg, m.keys.PrevColumn):
		m.moveColumn(-1, drag)
	case key.Matches(msg, m.keys.NextColumn):
		m.moveColumn(1, drag)
	case key.Matches(msg, m.keys.PrevIssue):
		m.moveRow(-1, drag)
	case key.Matches(msg, m.keys.NextIssue):
		m.moveRow(1, drag)

	case key.Matches(msg, m.keys.PickIssue):
		issue, ok := m.selectedIssue()
		if !ok {
			return m, nil
		}
		m.warn(m.ctrl.StartIssueDrag(issue.ID))

	case key.Matches(msg, m.keys.PickColumn):
		cols := m.columns()
		if m.column >= len(cols) {
			return m, nil
		}
		m.warn(m.ctrl.StartColumnDrag(cols[m.column].ID))

	case key.Matches(msg, m.keys.Drop):
		m.drop(drag)

	case key.Matches(msg, m.keys.ViewIssue):
		m.detail = !m.detail
		m.detailRel = nil
		if m.detail {
			if issue, ok := m.selectedIssue(); ok {
				return m, m.fetchRelations(issue.Key)
			}
		}

	case key.Matches(msg, m.keys.Refresh):
		if drag != nil || m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.reload()
	}

	return m, nil
}

func (m Model) dragging() *board.Drag {
	if m.ctrl == nil {
		return nil
	}
	return m.ctrl.Dragging()
}

// moveColumn moves the cursor. A dragged issue may target any row of the
// new column, including one past its last issue.
func (m *Model) moveColumn(delta int, drag *board.Drag) {
	cols := m.columns()
	if len(cols) == 0 {
		return
	}
	m.column = min(max(m.column+delta, 0), len(cols)-1)
	limit := len(cols[m.column].Issues) - 1
	if drag != nil && drag.Kind == board.DragIssue {
		limit++
	}
	m.row = min(max(m.row, 0), max(limit, 0))
	m.detailRel = nil
}

func (m *Model) moveRow(delta int, drag *board.Drag) {
	cols := m.columns()
	if m.column >= len(cols) {
		return
	}
	limit := len(cols[m.column].Issues) - 1
	if drag != nil && drag.Kind == board.DragIssue {
		limit++
	}
	m.row = min(max(m.row+delta, 0), max(limit, 0))
	m.detailRel = nil
}

func (m *Model) drop(drag *board.Drag) {
	if drag == nil {
		return
	}
	cols := m.columns()
	if m.column >= len(cols) {
		return
	}

	switch drag.Kind {
	case board.DragIssue:
		move, err := m.ctrl.DropIssue(cols[m.column].ID, m.row)
		if m.warn(err) {
			return
		}
		m.row = move.ToIndex
	case board.DragColumn:
		move, err := m.ctrl.DropColumn(m.column)
		if m.warn(err) {
			return
		}
		m.column = move.ToIndex
	}
	m.clampCursor()
}

// warn shows a board state error as a warning toast and reports whether
// there was one
func (m *Model) warn(err error) bool {
	if err == nil {
		return false
	}
	slog.Debug("board action rejected", "error", err)
	msg := err.Error()
	switch {
	case errors.Is(err, board.ErrAlreadyDragging):
		msg = "Drop or cancel the current drag first"
	case errors.Is(err, board.ErrFixedColumn):
		msg = "Only project statuses can be moved"
	}
	m.toasts.Notify(notifications.Warning, msg)
	return true
}
