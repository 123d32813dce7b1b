package queue

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

func TestMemoryQueueFIFO(t *testing.T) {
	q := NewMemoryQueue(3)
	ctx := context.Background()

	for _, kind := range []string{"a", "b", "c"} {
		require.NoError(t, q.Enqueue(ctx, NewJob(kind, nil)))
	}
	assert.ErrorIs(t, q.Enqueue(ctx, NewJob("d", nil)), ErrFull)
	assert.Equal(t, 3, q.Len())

	for _, want := range []string{"a", "b", "c"} {
		job, err := q.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, job.Kind)
		assert.NotEmpty(t, job.ID)
	}
}

func TestMemoryQueueDrainsAfterClose(t *testing.T) {
	q := NewMemoryQueue(2)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, NewJob("review", nil)))
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	assert.ErrorIs(t, q.Enqueue(ctx, NewJob("late", nil)), ErrClosed)

	job, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "review", job.Kind)

	_, err = q.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryQueueDequeueHonorsContext(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPoolProcessesAndDrains(t *testing.T) {
	q := NewMemoryQueue(100)
	var handled atomic.Int64

	pool := NewPool(q, 3, func(ctx context.Context, job Job) error {
		handled.Add(1)
		if job.Kind == "bad" {
			return errors.New("delivery failed")
		}
		return nil
	})
	pool.Start(context.Background())

	for i := 0; i < 50; i++ {
		kind := "ok"
		if i%10 == 0 {
			kind = "bad"
		}
		require.NoError(t, q.Enqueue(context.Background(), NewJob(kind, nil)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pool.Stop(ctx))

	// Failing jobs are dropped, not retried
	assert.Equal(t, int64(50), handled.Load())
}

func TestPoolSurvivesPanickingHandler(t *testing.T) {
	q := NewMemoryQueue(10)
	var mu sync.Mutex
	var seen []string

	pool := NewPool(q, 1, func(ctx context.Context, job Job) error {
		if job.Kind == "panic" {
			panic("boom")
		}
		mu.Lock()
		seen = append(seen, job.Kind)
		mu.Unlock()
		return nil
	})
	pool.Start(context.Background())

	require.NoError(t, q.Enqueue(context.Background(), NewJob("panic", nil)))
	require.NoError(t, q.Enqueue(context.Background(), NewJob("after", nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pool.Stop(ctx))

	assert.Equal(t, []string{"after"}, seen)
}

func TestPoolStopTimesOut(t *testing.T) {
	q := NewMemoryQueue(1)
	release := make(chan struct{})

	pool := NewPool(q, 1, func(ctx context.Context, job Job) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return ctx.Err()
	})
	pool.Start(context.Background())
	require.NoError(t, q.Enqueue(context.Background(), NewJob("slow", nil)))

	// Give the worker time to pick the job up
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.Stop(ctx), context.DeadlineExceeded)
	close(release)
}
