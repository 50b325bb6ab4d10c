// internal/ratelimit/limiter.go
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window rate limiter keyed by client identity.
// State is process-local and lost on restart. Each identity has its own
// lock so checks for different identities never contend.
type Limiter struct {
	mu      sync.RWMutex
	windows map[string]*window
	now     func() time.Time
}

// window holds the accepted-request timestamps for one identity.
type window struct {
	mu     sync.Mutex
	stamps []time.Time
}

// New creates a new Limiter.
func New() *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow reports whether a request from identity may proceed given the
// limit over the trailing timeframe. Timestamps older than the
// timeframe are pruned on every check; an accepted request records the
// current time, a rejected one records nothing.
func (l *Limiter) Allow(identity string, limit int, timeframe time.Duration) bool {
	w := l.window(identity)

	w.mu.Lock()
	defer w.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-timeframe)

	kept := w.stamps[:0]
	for _, ts := range w.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.stamps = kept

	if len(w.stamps) >= limit {
		return false
	}

	w.stamps = append(w.stamps, now)
	return true
}

// window returns the window for identity, creating it on first use.
func (l *Limiter) window(identity string) *window {
	l.mu.RLock()
	w, ok := l.windows[identity]
	l.mu.RUnlock()
	if ok {
		return w
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if w, ok = l.windows[identity]; ok {
		return w
	}
	w = &window{}
	l.windows[identity] = w
	return w
}
