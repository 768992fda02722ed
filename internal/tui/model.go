// Package tui is the interactive kanban board. Issues and columns are
// picked up and dropped with the keyboard; the board controller persists
// each drop and failures show up as toasts.
package tui

import (
	"context"
	"time"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	"github.com/Art-of-Technology/collab/internal/board"
	"github.com/Art-of-Technology/collab/internal/config"
	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/notifications"
)

const toastTick = time.Second

// Loader builds a controller over a freshly fetched board
type Loader func(ctx context.Context) (*board.Controller, error)

// RelationsFetcher loads an issue's relations for the detail pane
type RelationsFetcher func(ctx context.Context, issueKey string) (models.IssueRelations, error)

// Model is the board program state
type Model struct {
	title     string
	ctrl      *board.Controller
	load      Loader
	relations RelationsFetcher
	toasts    *notifications.Center
	keys      KeyMap
	help      help.Model
	styles    Styles

	column int
	row    int
	width  int
	height int

	detail    bool
	detailRel *models.IssueRelations
	loading   bool
	quitting  bool
}

// Option configures a Model
type Option func(*Model)

// WithRelations enables relation lookups in the detail pane
func WithRelations(f RelationsFetcher) Option {
	return func(m *Model) { m.relations = f }
}

// WithTitle sets the header text
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// New creates a board model. load is used again on refresh.
func New(ctrl *board.Controller, load Loader, toasts *notifications.Center, cfg *config.Config, opts ...Option) Model {
	m := Model{
		title:  "Board",
		ctrl:   ctrl,
		load:   load,
		toasts: toasts,
		keys:   NewKeyMap(cfg.KeyMappings),
		help:   help.New(),
		styles: NewStyles(cfg.ColorScheme),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// outcomeMsg carries one persisted drop from a controller
type outcomeMsg struct {
	ctrl    *board.Controller
	outcome board.Outcome
	ok      bool
}

type tickMsg time.Time

type loadedMsg struct {
	ctrl *board.Controller
	err  error
}

type relationsMsg struct {
	key string
	rel models.IssueRelations
	err error
}

// quitMsg arrives once pending drops have been persisted
type quitMsg struct{}

// Init starts listening for outcomes and the toast expiry tick
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForOutcome(m.ctrl), tick())
}

func waitForOutcome(ctrl *board.Controller) tea.Cmd {
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		out, ok := <-ctrl.Outcomes()
		return outcomeMsg{ctrl: ctrl, outcome: out, ok: ok}
	}
}

func tick() tea.Cmd {
	return tea.Tick(toastTick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) reload() tea.Cmd {
	if m.load == nil {
		return nil
	}
	load := m.load
	return func() tea.Msg {
		ctrl, err := load(context.Background())
		return loadedMsg{ctrl: ctrl, err: err}
	}
}

// flushAndQuit waits for in-flight drops off the update loop, then quits
func (m Model) flushAndQuit() tea.Cmd {
	ctrl := m.ctrl
	if ctrl == nil {
		return tea.Quit
	}
	return func() tea.Msg {
		ctrl.Wait()
		return quitMsg{}
	}
}

func (m Model) fetchRelations(key string) tea.Cmd {
	if m.relations == nil {
		return nil
	}
	fetch := m.relations
	return func() tea.Msg {
		rel, err := fetch(context.Background(), key)
		return relationsMsg{key: key, rel: rel, err: err}
	}
}

// Controller returns the controller currently driving the board
func (m Model) Controller() *board.Controller {
	return m.ctrl
}

// columns returns the board snapshot, or nil before anything loaded
func (m Model) columns() []board.Column {
	if m.ctrl == nil {
		return nil
	}
	cols, _ := m.ctrl.Snapshot()
	return cols
}

// selectedIssue returns the issue under the cursor
func (m Model) selectedIssue() (models.Issue, bool) {
	cols := m.columns()
	if m.column >= len(cols) {
		return models.Issue{}, false
	}
	issues := cols[m.column].Issues
	if m.row >= len(issues) {
		return models.Issue{}, false
	}
	return issues[m.row], true
}

// clampCursor keeps the cursor on the board after it changes shape
func (m *Model) clampCursor() {
	cols := m.columns()
	if len(cols) == 0 {
		m.column, m.row = 0, 0
		return
	}
	m.column = min(max(m.column, 0), len(cols)-1)
	m.row = min(max(m.row, 0), max(len(cols[m.column].Issues)-1, 0))
}
