package board

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Art-of-Technology/collab/internal/models"
	"github.com/Art-of-Technology/collab/internal/notifications"
)

// IssueUpdater persists an issue change
type IssueUpdater interface {
	UpdateIssue(ctx context.Context, issueID string, update models.IssueUpdate) (*models.Issue, error)
}

// Outcome reports how a drop was persisted
type Outcome struct {
	Kind        DragKind
	Issue       *IssueMove
	ColumnOrder []string
	Err         error
	RolledBack  bool
}

// Controller owns a Board and persists its drops. Drops are applied
// optimistically; failures raise an error toast and, when rollback is on,
// revert the local move.
type Controller struct {
	mu       sync.Mutex
	board    *Board
	updater  IssueUpdater
	batcher  *ReorderBatcher
	notifier notifications.Notifier
	logger   *slog.Logger
	rollback bool
	timeout  time.Duration

	inFlight       int
	persistedOrder []string
	// reorderSeq is the sequence number of the newest queued column order
	reorderSeq uint64

	wg       sync.WaitGroup
	outcomes chan Outcome
	closed   bool
}

// ControllerOption configures a Controller
type ControllerOption func(*controllerOptions)

type controllerOptions struct {
	rollback bool
	debounce time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// WithRollback sets whether failed moves are reverted locally
func WithRollback(enabled bool) ControllerOption {
	return func(o *controllerOptions) { o.rollback = enabled }
}

// WithReorderDebounce sets the column reorder batching window
func WithReorderDebounce(d time.Duration) ControllerOption {
	return func(o *controllerOptions) { o.debounce = d }
}

// WithRequestTimeout bounds each issue update
func WithRequestTimeout(d time.Duration) ControllerOption {
	return func(o *controllerOptions) { o.timeout = d }
}

// WithControllerLogger sets the logger
func WithControllerLogger(logger *slog.Logger) ControllerOption {
	return func(o *controllerOptions) { o.logger = logger }
}

// NewController wires a board to its persistence
func NewController(b *Board, updater IssueUpdater, reorderer StatusReorderer, notifier notifications.Notifier, opts ...ControllerOption) *Controller {
	o := controllerOptions{
		rollback: true,
		debounce: DefaultReorderDebounce,
		timeout:  10 * time.Second,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller{
		board:          b,
		updater:        updater,
		notifier:       notifier,
		logger:         o.logger,
		rollback:       o.rollback,
		timeout:        o.timeout,
		persistedOrder: b.StatusOrder(),
		outcomes:       make(chan Outcome, 32),
	}
	c.batcher = NewReorderBatcher(reorderer, o.debounce, c.onReorderFlushed, o.logger)
	return c
}

// Outcomes delivers one Outcome per persisted drop. Outcomes are dropped
// when nobody reads them.
func (c *Controller) Outcomes() <-chan Outcome {
	return c.outcomes
}

// Snapshot returns the board columns and phase
func (c *Controller) Snapshot() ([]Column, Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Columns(), c.board.Phase()
}

// Dragging returns the current drag, or nil
func (c *Controller) Dragging() *Drag {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Dragging()
}

// StartIssueDrag picks up an issue
func (c *Controller) StartIssueDrag(issueID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.StartIssueDrag(issueID)
}

// StartColumnDrag picks up a column
func (c *Controller) StartColumnDrag(columnID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.StartColumnDrag(columnID)
}

// Cancel abandons the current drag
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.board.Cancel()
}

// DropIssue drops the dragged issue. A move into another column is sent to
// the server in the background; a move within a column is local only.
func (c *Controller) DropIssue(toColumnID string, toIndex int) (IssueMove, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	move, err := c.board.DropIssue(toColumnID, toIndex)
	if err != nil {
		return IssueMove{}, err
	}

	if !move.ChangedColumn() {
		c.settleLocked()
		return move, nil
	}

	c.inFlight++
	c.wg.Add(1)
	go c.persistIssue(move)
	return move, nil
}

// DropColumn drops the dragged column and queues the new order
func (c *Controller) DropColumn(toIndex int) (ColumnMove, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	move, err := c.board.DropColumn(toIndex)
	if err != nil {
		return ColumnMove{}, err
	}
	if move.FromIndex == move.ToIndex {
		c.settleLocked()
		return move, nil
	}

	seq, err := c.batcher.Enqueue(c.board.ProjectID, move.Order)
	if err != nil {
		c.failColumnsLocked(fmt.Errorf("failed to queue column order: %w", err))
		return move, nil
	}
	c.reorderSeq = seq
	c.inFlight++
	return move, nil
}

// Wait blocks until every queued drop has been persisted or failed
func (c *Controller) Wait() {
	c.batcher.Flush()
	c.wg.Wait()
}

// Close persists what is pending and stops background work
func (c *Controller) Close() {
	c.batcher.Close()
	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.outcomes)
	}
}

func (c *Controller) persistIssue(move IssueMove) {
	defer c.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	value := move.Value
	updated, err := c.updater.UpdateIssue(ctx, move.IssueID, models.IssueUpdate{Status: &value})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--

	out := Outcome{Kind: DragIssue, Issue: &move, Err: err}
	if err != nil {
		c.notifier.Error(fmt.Errorf("failed to move issue %s to %s: %w", move.IssueID, move.ToColumnID, err))
		if c.rollback {
			out.RolledBack = c.board.UndoIssueMove(move)
			c.logger.Debug("issue move rolled back", "issue_id", move.IssueID, "rolled_back", out.RolledBack)
		}
	} else if updated != nil {
		c.board.ReplaceIssue(move.ToColumnID, *updated)
	}

	c.settleLocked()
	c.emitLocked(out)
}

// onReorderFlushed settles a persisted column order. While a newer order
// is still queued the board already shows it, so the board is only
// realigned with the server once the newest order has been flushed.
func (c *Controller) onReorderFlushed(r FlushResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight -= r.Drops
	superseded := r.Seq < c.reorderSeq

	out := Outcome{Kind: DragColumn, ColumnOrder: slices.Clone(r.Order), Err: r.Err}
	if r.Err != nil {
		c.notifier.Error(fmt.Errorf("failed to persist column order: %w", r.Err))
		if c.rollback && !superseded {
			c.board.RestoreColumnOrder(c.persistedOrder)
			out.RolledBack = true
			c.logger.Debug("column order rolled back", "project_id", r.ProjectID)
		}
	} else {
		c.persistedOrder = slices.Clone(r.Order)
		if !superseded {
			c.board.RestoreColumnOrder(r.Order)
		}
	}

	c.settleLocked()
	c.emitLocked(out)
}

func (c *Controller) failColumnsLocked(err error) {
	c.notifier.Error(err)
	out := Outcome{Kind: DragColumn, ColumnOrder: c.board.StatusOrder(), Err: err}
	if c.rollback {
		c.board.RestoreColumnOrder(c.persistedOrder)
		out.RolledBack = true
	}
	c.settleLocked()
	c.emitLocked(out)
}

func (c *Controller) settleLocked() {
	if c.inFlight <= 0 {
		c.inFlight = 0
		c.board.Settle()
	}
}

func (c *Controller) emitLocked(out Outcome) {
	if c.closed {
		return
	}
	select {
	case c.outcomes <- out:
	default:
	}
}
