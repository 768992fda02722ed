package board

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorderBatcher_LastOrderPerProjectWins(t *testing.T) {
	r := &fakeReorderer{}
	var mu sync.Mutex
	var results []FlushResult
	b := NewReorderBatcher(r, time.Hour, func(res FlushResult) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, res)
	}, nil)
	defer b.Close()

	enqueue(t, b, "p1", "a", "b")
	enqueue(t, b, "p1", "b", "a")
	enqueue(t, b, "p2", "x")
	b.Flush()

	calls := r.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"b", "a"}, calls[0])
	assert.Equal(t, []string{"x"}, calls[1])

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 2)
	assert.Equal(t, 2, results[0].Drops)
	assert.Equal(t, uint64(2), results[0].Seq)
	assert.Equal(t, "p2", results[1].ProjectID)
	assert.Equal(t, uint64(3), results[1].Seq)
}

func enqueue(t *testing.T, b *ReorderBatcher, projectID string, order ...string) uint64 {
	t.Helper()
	seq, err := b.Enqueue(projectID, order)
	require.NoError(t, err)
	return seq
}

func TestReorderBatcher_SequenceNumbersIncrease(t *testing.T) {
	b := NewReorderBatcher(&fakeReorderer{}, time.Hour, nil, nil)
	defer b.Close()

	assert.Equal(t, uint64(1), enqueue(t, b, "p1", "a"))
	assert.Equal(t, uint64(2), enqueue(t, b, "p1", "b"))
}

func TestReorderBatcher_DebounceFires(t *testing.T) {
	r := &fakeReorderer{}
	b := NewReorderBatcher(r, 10*time.Millisecond, nil, nil)
	defer b.Close()

	enqueue(t, b, "p1", "a")
	assert.Eventually(t, func() bool { return len(r.calls()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestReorderBatcher_CloseFlushesAndRejects(t *testing.T) {
	r := &fakeReorderer{}
	b := NewReorderBatcher(r, time.Hour, nil, nil)

	enqueue(t, b, "p1", "a")
	b.Close()

	assert.Len(t, r.calls(), 1)
	_, err := b.Enqueue("p1", []string{"b"})
	assert.ErrorIs(t, err, ErrBatcherClosed)
	b.Flush()
	b.Close()
}
