// internal/queue/memory.go
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tomaskal/hermes/internal/core"
	"go.uber.org/zap"
)

// MemoryQueue runs deferred jobs on in-process worker goroutines. The
// worker simulates extra post-processing with a fixed delay before
// marking the job complete.
type MemoryQueue struct {
	jobs   chan Job
	states *StateStore
	delay  time.Duration
	logger *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewMemoryQueue creates a queue with the given number of workers and
// simulated processing delay, and starts the workers.
func NewMemoryQueue(workers int, delay time.Duration, logger *zap.Logger) *MemoryQueue {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &MemoryQueue{
		jobs:   make(chan Job, 64),
		states: NewStateStore(100),
		delay:  delay,
		logger: logger,
		cancel: cancel,
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
	return q
}

// Enqueue hands a job to the workers. It never blocks the caller: if
// the buffer is full the job is dropped with an error, which the
// request path only logs.
func (q *MemoryQueue) Enqueue(ctx context.Context, prompt string, provider core.ProviderName) (string, error) {
	job := Job{
		ID:         uuid.NewString(),
		Prompt:     prompt,
		Provider:   provider,
		EnqueuedAt: time.Now(),
	}

	// Track before handing off: a worker may pick the job up and
	// transition it before Enqueue returns.
	q.states.Track(job.ID)

	select {
	case q.jobs <- job:
		return job.ID, nil
	default:
		q.states.Forget(job.ID)
		return "", fmt.Errorf("job queue full, dropping job")
	}
}

// States exposes the job state store.
func (q *MemoryQueue) States() *StateStore {
	return q.states
}

// Close stops the workers and waits for in-flight jobs.
func (q *MemoryQueue) Close() {
	q.cancel()
	q.wg.Wait()
}

func (q *MemoryQueue) worker(ctx context.Context) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			q.process(ctx, job)
		}
	}
}

func (q *MemoryQueue) process(ctx context.Context, job Job) {
	q.logger.Info("started async workflow",
		zap.String("job_id", job.ID),
		zap.String("provider", string(job.Provider)),
	)
	q.states.Update(job.ID, StatusRunning, "")

	// Stand-in for real post-processing work.
	select {
	case <-ctx.Done():
		q.states.Update(job.ID, StatusFailed, "shutdown before completion")
		return
	case <-time.After(q.delay):
	}

	result := fmt.Sprintf("[%s] Async workflow completed for prompt: %s", job.Provider, job.Prompt)
	q.states.Update(job.ID, StatusComplete, result)
	q.logger.Info("completed async workflow", zap.String("job_id", job.ID))
}

var _ Queue = (*MemoryQueue)(nil)
