// internal/queue/redis.go
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tomaskal/hermes/internal/core"
	"go.uber.org/zap"
)

const defaultListKey = "hermes:jobs"

// RedisQueue hands deferred jobs to a Redis list so they survive a
// process restart and can be drained by any worker process.
type RedisQueue struct {
	client  *redis.Client
	listKey string
	logger  *zap.Logger
}

// NewRedisQueue creates a queue backed by the Redis instance at addr.
func NewRedisQueue(addr string, logger *zap.Logger) (*RedisQueue, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisQueue{
		client:  redis.NewClient(&redis.Options{Addr: addr}),
		listKey: defaultListKey,
		logger:  logger,
	}, nil
}

// Enqueue pushes a job onto the Redis list.
func (q *RedisQueue) Enqueue(ctx context.Context, prompt string, provider core.ProviderName) (string, error) {
	job := Job{
		ID:         uuid.NewString(),
		Prompt:     prompt,
		Provider:   provider,
		EnqueuedAt: time.Now(),
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshaling job: %w", err)
	}
	if err := q.client.LPush(ctx, q.listKey, payload).Err(); err != nil {
		return "", fmt.Errorf("pushing job: %w", err)
	}
	return job.ID, nil
}

// Close releases the Redis connection.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}

// RunWorker drains jobs from the list until the context is cancelled,
// simulating post-processing with the given delay per job.
func (q *RedisQueue) RunWorker(ctx context.Context, delay time.Duration) error {
	for {
		res, err := q.client.BRPop(ctx, 5*time.Second, q.listKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // Poll timeout, nothing queued
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("popping job: %w", err)
		}
		if len(res) < 2 {
			continue
		}

		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			q.logger.Error("discarding malformed job payload", zap.Error(err))
			continue
		}

		q.logger.Info("started async workflow",
			zap.String("job_id", job.ID),
			zap.String("provider", string(job.Provider)),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}

		q.logger.Info("completed async workflow", zap.String("job_id", job.ID))
	}
}

var _ Queue = (*RedisQueue)(nil)
