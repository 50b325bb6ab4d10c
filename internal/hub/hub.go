// internal/hub/hub.go
package hub

import (
	"sync"

	"go.uber.org/zap"
)

// Hub maintains the set of authenticated log subscribers and fans
// notification text out to all of them. Connect, disconnect and notify
// may run concurrently; a broadcast works on a point-in-time snapshot
// of the subscriber set, so a subscriber dropping mid-broadcast never
// aborts delivery to the rest.
type Hub struct {
	apiKey string
	logger *zap.Logger

	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
	onCount     func(int)
}

// New creates a hub whose handshake validates against apiKey.
func New(apiKey string, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		apiKey:      apiKey,
		logger:      logger,
		subscribers: make(map[*Subscriber]struct{}),
	}
}

// Notify delivers message to every currently authenticated subscriber,
// best effort. A subscriber whose send buffer is full misses the
// message rather than blocking the sender.
func (h *Hub) Notify(message string) {
	h.mu.RLock()
	snapshot := make([]*Subscriber, 0, len(h.subscribers))
	for s := range h.subscribers {
		snapshot = append(snapshot, s)
	}
	h.mu.RUnlock()

	for _, s := range snapshot {
		s.trySend(message)
	}
}

// OnCountChange registers a callback invoked with the subscriber count
// after every register and unregister. Set before serving connections.
func (h *Hub) OnCountChange(fn func(int)) {
	h.onCount = fn
}

// Count returns the number of authenticated subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// register adds an authenticated subscriber to the broadcast set.
func (h *Hub) register(s *Subscriber) {
	h.mu.Lock()
	h.subscribers[s] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()

	if h.onCount != nil {
		h.onCount(count)
	}
}

// unregister removes a subscriber; idempotent.
func (h *Hub) unregister(s *Subscriber) {
	h.mu.Lock()
	delete(h.subscribers, s)
	count := len(h.subscribers)
	h.mu.Unlock()

	if h.onCount != nil {
		h.onCount(count)
	}
}
