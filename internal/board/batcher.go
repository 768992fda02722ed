package board

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// DefaultReorderDebounce is the batching window for column reorders
const DefaultReorderDebounce = 300 * time.Millisecond

// ErrQueueFull is returned when the reorder queue cannot take more work
var ErrQueueFull = errors.New("reorder queue full")

// ErrBatcherClosed is returned when enqueueing after Close
var ErrBatcherClosed = errors.New("reorder batcher closed")

// StatusReorderer persists a project's column order
type StatusReorderer interface {
	ReorderStatuses(ctx context.Context, projectID string, statusIDs []string) error
}

// FlushResult reports one persisted reorder. Drops is how many queued
// reorders were folded into it and Seq is the sequence number of the last
// of them.
type FlushResult struct {
	ProjectID string
	Order     []string
	Drops     int
	Seq       uint64
	Err       error
}

type reorderRequest struct {
	projectID string
	order     []string
	seq       uint64
}

// ReorderBatcher coalesces rapid column reorders. Within a debounce window
// only the last order per project is sent.
type ReorderBatcher struct {
	reorderer StatusReorderer
	debounce  time.Duration
	timeout   time.Duration
	onFlush   func(FlushResult)
	logger    *slog.Logger

	queue    chan reorderRequest
	flushReq chan chan struct{}

	mu     sync.Mutex
	closed bool
	seq    uint64

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReorderBatcher starts the batching goroutine. onFlush may be nil.
func NewReorderBatcher(reorderer StatusReorderer, debounce time.Duration, onFlush func(FlushResult), logger *slog.Logger) *ReorderBatcher {
	if debounce <= 0 {
		debounce = DefaultReorderDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &ReorderBatcher{
		reorderer: reorderer,
		debounce:  debounce,
		timeout:   10 * time.Second,
		onFlush:   onFlush,
		logger:    logger,
		queue:     make(chan reorderRequest, 100),
		flushReq:  make(chan chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go b.run()
	return b
}

// Enqueue queues a column order and returns its sequence number. Sequence
// numbers increase by one per accepted order. It never blocks.
func (b *ReorderBatcher) Enqueue(projectID string, order []string) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, ErrBatcherClosed
	}

	req := reorderRequest{projectID: projectID, order: slices.Clone(order), seq: b.seq + 1}
	select {
	case b.queue <- req:
		b.seq = req.seq
		return req.seq, nil
	default:
		return 0, ErrQueueFull
	}
}

// Flush sends everything pending and waits for it
func (b *ReorderBatcher) Flush() {
	ack := make(chan struct{})
	select {
	case b.flushReq <- ack:
		<-ack
	case <-b.done:
	}
}

// Close flushes pending reorders and stops the batcher
func (b *ReorderBatcher) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	<-b.done
}

func (b *ReorderBatcher) run() {
	defer close(b.done)

	timer := time.NewTimer(b.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	type pendingOrder struct {
		order []string
		drops int
		seq   uint64
	}
	pending := make(map[string]*pendingOrder)
	var projects []string

	add := func(req reorderRequest) {
		p, ok := pending[req.projectID]
		if !ok {
			p = &pendingOrder{}
			pending[req.projectID] = p
			projects = append(projects, req.projectID)
		}
		p.order = req.order
		p.drops++
		p.seq = req.seq
	}

	flushPending := func() {
		for _, id := range projects {
			p := pending[id]
			b.send(id, p.order, p.drops, p.seq)
		}
		clear(pending)
		projects = projects[:0]
	}

	drain := func() {
	drainLoop:
		for {
			select {
			case req := <-b.queue:
				add(req)
			default:
				break drainLoop
			}
		}
	}

	for {
		select {
		case <-b.ctx.Done():
			drain()
			flushPending()
			return

		case req := <-b.queue:
			add(req)
			drain()
			timer.Reset(b.debounce)

		case ack := <-b.flushReq:
			drain()
			flushPending()
			close(ack)

		case <-timer.C:
			flushPending()
		}
	}
}

func (b *ReorderBatcher) send(projectID string, order []string, drops int, seq uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	err := b.reorderer.ReorderStatuses(ctx, projectID, order)
	b.logger.Debug("column order flushed", "project_id", projectID, "drops", drops, "seq", seq, "error", err)

	if b.onFlush == nil {
		// nobody else reports the failure
		if err != nil {
			b.logger.Error("failed to persist column order", "project_id", projectID, "error", err)
		}
		return
	}
	b.onFlush(FlushResult{ProjectID: projectID, Order: order, Drops: drops, Seq: seq, Err: err})
}
