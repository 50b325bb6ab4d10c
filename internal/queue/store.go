// internal/queue/store.go
package queue

import (
	"sync"
	"time"
)

// Status represents job status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// State tracks the lifecycle of one deferred job.
type State struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Result    string    `json:"result,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StateStore keeps recent job states in memory, evicting the oldest
// once the capacity is reached.
type StateStore struct {
	states  map[string]*State
	order   []string // Track insertion order for eviction
	maxSize int
	mu      sync.RWMutex
}

// NewStateStore creates a new state store.
func NewStateStore(maxSize int) *StateStore {
	return &StateStore{
		states:  make(map[string]*State),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
	}
}

// Track registers a new job in pending state.
func (s *StateStore) Track(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	// Evict oldest if at capacity
	if len(s.states) >= s.maxSize && len(s.order) > 0 {
		oldest := s.order[0]
		delete(s.states, oldest)
		s.order = s.order[1:]
	}

	s.states[id] = &State{ID: id, Status: StatusPending, CreatedAt: now, UpdatedAt: now}
	s.order = append(s.order, id)
}

// Forget removes a job that never made it onto the queue.
func (s *StateStore) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.states[id]; !ok {
		return
	}
	delete(s.states, id)
	for i, tracked := range s.order {
		if tracked == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Update transitions a job's status; unknown ids are ignored (the job
// may have been evicted).
func (s *StateStore) Update(id string, status Status, result string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[id]
	if !ok {
		return
	}
	state.Status = status
	state.Result = result
	state.UpdatedAt = time.Now()
}

// Get retrieves a job state by id.
func (s *StateStore) Get(id string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[id]
	if !ok {
		return State{}, false
	}
	return *state, true
}

// List returns all tracked job states.
func (s *StateStore) List() []State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]State, 0, len(s.states))
	for _, state := range s.states {
		result = append(result, *state)
	}
	return result
}
