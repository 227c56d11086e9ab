package status

import (
	"sync"
	"time"
)

// Snapshot is the transmitting string shared between the coordinator, which
// rebuilds it, and the server, which reads it.
type Snapshot struct {
	mu      sync.Mutex
	value   string
	builtAt time.Time
	refresh time.Duration
}

// NewSnapshot creates an empty snapshot rebuilt at most once per refresh.
func NewSnapshot(refresh time.Duration) *Snapshot {
	return &Snapshot{refresh: refresh}
}

// Get returns the current value.
func (s *Snapshot) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Refresh replaces the value with build() when the current one is older than
// the refresh interval. build runs outside the lock. It reports whether the
// value was rebuilt.
func (s *Snapshot) Refresh(now time.Time, build func() string) bool {
	s.mu.Lock()
	due := s.builtAt.IsZero() || now.Sub(s.builtAt) >= s.refresh
	s.mu.Unlock()
	if !due {
		return false
	}

	value := build()

	s.mu.Lock()
	s.value = value
	s.builtAt = now
	s.mu.Unlock()
	return true
}
