package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsEveryQueuedTask(t *testing.T) {
	p := NewPool(3, 16)
	results := p.Run(context.Background())

	var n atomic.Int32
	boom := errors.New("boom")
	for i := 0; i < 10; i++ {
		i := i
		require.NoError(t, p.Submit(context.Background(), func(context.Context) error {
			n.Add(1)
			if i == 0 {
				return boom
			}
			return nil
		}))
	}
	p.Close()

	failed := 0
	for r := range results {
		if r.Err != nil {
			assert.ErrorIs(t, r.Err, boom)
			failed++
		}
	}
	assert.Equal(t, int32(10), n.Load())
	assert.Equal(t, 1, failed)
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p := NewPool(1, 1)
	p.Close()
	p.Close()

	assert.ErrorIs(t, p.Submit(context.Background(), func(context.Context) error { return nil }), ErrClosed)
	assert.ErrorIs(t, p.TrySubmit(func(context.Context) error { return nil }), ErrClosed)
}

func TestPool_TrySubmitQueueFull(t *testing.T) {
	p := NewPool(1, 1)
	noop := func(context.Context) error { return nil }

	require.NoError(t, p.TrySubmit(noop))
	assert.ErrorIs(t, p.TrySubmit(noop), ErrQueueFull)
}

func TestPool_SubmitHonoursContext(t *testing.T) {
	p := NewPool(1, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Submit(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPool_RateLimitPacesStarts(t *testing.T) {
	p := NewPool(4, 8)
	p.SetRateLimit(20, 1)
	results := p.Run(context.Background())

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(context.Background(), func(context.Context) error { return nil }))
	}
	p.Close()
	for range results {
	}

	// one token up front, then four more at 50ms intervals
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestPool_StopsOnContextCancel(t *testing.T) {
	p := NewPool(2, 4)
	ctx, cancel := context.WithCancel(context.Background())
	results := p.Run(ctx)
	cancel()

	select {
	case _, ok := <-results:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestPool_NilRunReturnsClosedChannel(t *testing.T) {
	var p *Pool
	var out <-chan Result
	require.NotPanics(t, func() { out = p.Run(context.Background()) })

	_, ok := <-out
	assert.False(t, ok)
	assert.NotPanics(t, p.Wait)
}
