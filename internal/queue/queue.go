// internal/queue/queue.go
package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrClosed = errors.New("queue closed")
	ErrFull   = errors.New("queue full")
)

// Job is one unit of background work.
type Job struct {
	ID         string            `json:"id"`
	Kind       string            `json:"kind"`
	Payload    map[string]string `json:"payload"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}

func NewJob(kind string, payload map[string]string) Job {
	return Job{
		ID:         uuid.NewString(),
		Kind:       kind,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}
}

// Queue is a FIFO broker between request handlers and workers.
// Dequeue blocks until a job arrives, ctx ends or the queue is closed.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Dequeue(ctx context.Context) (Job, error)
	Close() error
}

// MemoryQueue is a bounded in-process queue. Jobs still buffered when it is
// closed are handed out until the buffer is empty.
type MemoryQueue struct {
	mu     sync.RWMutex
	jobs   chan Job
	closed bool
}

func NewMemoryQueue(size int) *MemoryQueue {
	if size < 1 {
		size = 1
	}
	return &MemoryQueue{jobs: make(chan Job, size)}
}

// Enqueue never blocks; a full buffer rejects the job with ErrFull.
func (q *MemoryQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrFull
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (Job, error) {
	select {
	case job, ok := <-q.jobs:
		if !ok {
			return Job{}, ErrClosed
		}
		return job, nil
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}

func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	return nil
}

// Len reports the number of buffered jobs.
func (q *MemoryQueue) Len() int {
	return len(q.jobs)
}
