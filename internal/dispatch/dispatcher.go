// internal/dispatch/dispatcher.go
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tomaskal/hermes/internal/core"
	"github.com/tomaskal/hermes/internal/provider"
	"github.com/tomaskal/hermes/internal/queue"
	"github.com/tomaskal/hermes/internal/ratelimit"
	"github.com/tomaskal/hermes/internal/selector"
	"github.com/tomaskal/hermes/internal/storage/chat"
	"go.uber.org/zap"
)

// Notifier receives a human-readable line for every dispatched chat.
type Notifier interface {
	Notify(message string)
}

// Recorder observes dispatch outcomes for metrics.
type Recorder interface {
	RecordChat(provider string, tokens int, cost float64)
	RecordRateLimited()
}

// Config holds dispatcher admission settings.
type Config struct {
	RateLimit     int
	RateTimeframe time.Duration
}

// Dispatcher composes admission control, model selection, provider
// invocation and accounting for each chat request.
type Dispatcher struct {
	cfg      Config
	limiter  *ratelimit.Limiter
	adapters map[core.ProviderName]provider.Adapter
	store    chat.Store
	jobs     queue.Queue
	notifier Notifier
	recorder Recorder
	logger   *zap.Logger
}

// New creates a dispatcher. notifier and recorder may be nil.
func New(
	cfg Config,
	limiter *ratelimit.Limiter,
	adapters map[core.ProviderName]provider.Adapter,
	store chat.Store,
	jobs queue.Queue,
	notifier Notifier,
	recorder Recorder,
	logger *zap.Logger,
) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		cfg:      cfg,
		limiter:  limiter,
		adapters: adapters,
		store:    store,
		jobs:     jobs,
		notifier: notifier,
		recorder: recorder,
		logger:   logger,
	}
}

// Dispatch handles one chat request end to end. A provider outage is
// converted into a degraded zero-usage result rather than a failure;
// only validation, admission and the accounting write can fail the
// request.
func (d *Dispatcher) Dispatch(ctx context.Context, req core.ChatRequest) (*core.ChatResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, core.ErrValidation
	}

	identity := req.Identity()
	if !d.limiter.Allow(identity, d.cfg.RateLimit, d.cfg.RateTimeframe) {
		if d.recorder != nil {
			d.recorder.RecordRateLimited()
		}
		return nil, core.ErrRateLimited
	}

	// Accounting integrity beats responsiveness: once admitted, the
	// provider call and store write run to completion even if the
	// caller disconnects.
	ctx = context.WithoutCancel(ctx)

	name := selector.Select(req.Prompt)
	result := d.invoke(ctx, name, req.Prompt)

	record := core.AccountingRecord{
		ID:         uuid.NewString(),
		User:       identity,
		Prompt:     req.Prompt,
		Response:   result.Response,
		Provider:   result.Provider,
		TokensUsed: result.TokensUsed,
		Cost:       result.Cost,
		Timestamp:  time.Now().UTC(),
	}
	if err := d.store.Append(ctx, record); err != nil {
		d.logger.Error("accounting write failed",
			zap.String("request_id", record.ID),
			zap.Error(err),
		)
		return nil, core.WrapError(core.ErrStore, err)
	}

	if d.recorder != nil {
		d.recorder.RecordChat(string(result.Provider), result.TokensUsed, result.Cost)
	}

	// Deferred post-processing; the outcome is never awaited.
	if _, err := d.jobs.Enqueue(ctx, req.Prompt, result.Provider); err != nil {
		d.logger.Warn("deferred job enqueue failed", zap.Error(err))
	}

	// Best-effort live-log fan-out, off the request path.
	if d.notifier != nil {
		go d.notifier.Notify(fmt.Sprintf("User '%s' used model %s", identity, result.Provider))
	}

	return &core.ChatResponse{
		User:       identity,
		Provider:   result.Provider,
		Response:   result.Response,
		TokensUsed: result.TokensUsed,
		Cost:       result.Cost,
	}, nil
}

// invoke runs the selected adapter, substituting a degraded zero-usage
// result when the provider is unavailable or fails.
func (d *Dispatcher) invoke(ctx context.Context, name core.ProviderName, prompt string) *core.ProviderResult {
	adapter, ok := d.adapters[name]
	if !ok {
		d.logger.Error("provider not configured", zap.String("provider", string(name)))
		return degraded(name, fmt.Errorf("provider not configured"))
	}

	result, err := adapter.Invoke(ctx, prompt)
	if err != nil {
		d.logger.Error("provider call failed",
			zap.String("provider", string(name)),
			zap.Error(err),
		)
		return degraded(name, err)
	}
	return result
}

// degraded builds the zero-usage substitute response for a failed
// provider call.
func degraded(name core.ProviderName, err error) *core.ProviderResult {
	return &core.ProviderResult{
		Response:   fmt.Sprintf("Error processing request with %s: %v", name, err),
		TokensUsed: 0,
		Cost:       0,
		Provider:   name,
	}
}
