// internal/queue/queue.go
package queue

import (
	"context"
	"time"

	"github.com/tomaskal/hermes/internal/core"
)

// Job is a deferred post-processing task for one dispatched chat. The
// request path enqueues it and never consumes its outcome.
type Job struct {
	ID         string            `json:"id"`
	Prompt     string            `json:"prompt"`
	Provider   core.ProviderName `json:"provider"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}

// Queue defines the fire-and-forget hand-off to the deferred job
// runner. Enqueue returns the job id as an opaque handle; callers do
// not await completion.
type Queue interface {
	Enqueue(ctx context.Context, prompt string, provider core.ProviderName) (string, error)
}
