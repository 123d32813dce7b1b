// internal/queue/pool.go
package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Handler processes one job. Returned errors are logged and the job is
// dropped.
type Handler func(ctx context.Context, job Job) error

type Pool struct {
	queue   Queue
	handler Handler
	workers int

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewPool(queue Queue, workers int, handler Handler) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		queue:   queue,
		handler: handler,
		workers: workers,
	}
}

func (p *Pool) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(runCtx, i)
	}

	logrus.WithField("workers", p.workers).Info("Background workers started")
}

func (p *Pool) work(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, ErrClosed) || ctx.Err() != nil {
				return
			}
			logrus.WithError(err).WithField("worker", id).Error("Failed to dequeue job")
			// Broker hiccup; avoid a hot loop
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		p.run(ctx, id, job)
	}
}

func (p *Pool) run(ctx context.Context, id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"worker": id,
				"job_id": job.ID,
				"kind":   job.Kind,
				"panic":  r,
			}).Error("Job panicked")
		}
	}()

	if err := p.handler(ctx, job); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"worker": id,
			"job_id": job.ID,
			"kind":   job.Kind,
		}).Warn("Job failed")
	}
}

// Stop closes the queue and waits for the workers to finish what is
// buffered. When ctx ends first the workers are cancelled.
func (p *Pool) Stop(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		logrus.WithError(err).Warn("Failed to close queue")
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if p.cancel != nil {
			p.cancel()
		}
		return nil
	case <-ctx.Done():
		if p.cancel != nil {
			p.cancel()
		}
		<-done
		return ctx.Err()
	}
}
