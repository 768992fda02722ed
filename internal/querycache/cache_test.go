package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter(calls *atomic.Int32, value string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestFetch_CachesByKey(t *testing.T) {
	c := New(0)
	ctx := context.Background()
	var calls atomic.Int32

	v, err := Fetch(ctx, c, Key{"relations", "acme", "WEB-1"}, counter(&calls, "a"))
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = Fetch(ctx, c, Key{"relations", "acme", "WEB-1"}, counter(&calls, "b"))
	require.NoError(t, err)
	assert.Equal(t, "a", v)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	c := New(0)
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := Fetch(ctx, c, Key{"k"}, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	v, err := Fetch(ctx, c, Key{"k"}, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestInvalidate_RefetchesNextTime(t *testing.T) {
	c := New(0)
	ctx := context.Background()
	var calls atomic.Int32
	key := Key{"relations", "acme", "WEB-1"}

	_, _ = Fetch(ctx, c, key, counter(&calls, "before"))
	c.Invalidate(key)
	v, err := Fetch(ctx, c, key, counter(&calls, "after"))

	require.NoError(t, err)
	assert.Equal(t, "after", v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidatePrefix(t *testing.T) {
	c := New(0)
	ctx := context.Background()
	var calls atomic.Int32

	_, _ = Fetch(ctx, c, Key{"relations", "acme", "WEB-1"}, counter(&calls, "x"))
	_, _ = Fetch(ctx, c, Key{"relations", "acme", "WEB-2"}, counter(&calls, "x"))
	_, _ = Fetch(ctx, c, Key{"relations", "other", "WEB-1"}, counter(&calls, "x"))
	_, _ = Fetch(ctx, c, Key{"statuses", "p1"}, counter(&calls, "x"))

	c.InvalidatePrefix(Key{"relations", "acme"})

	_, ok := c.Peek(Key{"relations", "acme", "WEB-1"})
	assert.False(t, ok)
	_, ok = c.Peek(Key{"relations", "other", "WEB-1"})
	assert.True(t, ok)
	_, ok = c.Peek(Key{"statuses", "p1"})
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestFetch_SupersededResultIsNotStored(t *testing.T) {
	c := New(0)
	ctx := context.Background()
	key := Key{"issues", "acme"}
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan string)
	go func() {
		v, _ := Fetch(ctx, c, key, func(context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
		done <- v
	}()

	<-started
	c.Invalidate(key)
	close(release)

	assert.Equal(t, "stale", <-done, "the caller still gets its answer")
	_, ok := c.Peek(key)
	assert.False(t, ok, "but the cache does not keep it")
}

func TestFetch_SharesConcurrentCalls(t *testing.T) {
	c := New(0)
	ctx := context.Background()
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = Fetch(ctx, c, Key{"k"}, func(context.Context) (int, error) {
				calls.Add(1)
				<-release
				return 1, nil
			})
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(5))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	assert.Equal(t, 1, c.Len())
}

func TestFetch_TTL(t *testing.T) {
	c := New(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()
	var calls atomic.Int32

	_, _ = Fetch(ctx, c, Key{"k"}, counter(&calls, "a"))
	now = now.Add(30 * time.Second)
	_, _ = Fetch(ctx, c, Key{"k"}, counter(&calls, "a"))
	assert.Equal(t, int32(1), calls.Load())

	now = now.Add(time.Minute)
	_, _ = Fetch(ctx, c, Key{"k"}, counter(&calls, "a"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestKey(t *testing.T) {
	assert.Equal(t, "relations/acme/WEB-1", Key{"relations", "acme", "WEB-1"}.String())
	assert.Equal(t, "a%2Fb/c", Key{"a/b", "c"}.String())
	assert.True(t, Key{"a", "b", "c"}.HasPrefix(Key{"a", "b"}))
	assert.False(t, Key{"a"}.HasPrefix(Key{"a", "b"}))
	assert.False(t, Key{"ab", "c"}.HasPrefix(Key{"a"}))
}
