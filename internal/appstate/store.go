package appstate

import (
	"sync"
	"time"
)

// Store keeps one State per session key.
type Store struct {
	mu     sync.Mutex
	states map[string]*entry
	now    func() time.Time
}

type entry struct {
	state    *State
	lastSeen time.Time
}

func NewStore() *Store {
	return &Store{states: make(map[string]*entry), now: time.Now}
}

// For returns the state of key, creating it on first use.
func (s *Store) For(key string) *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.states[key]
	if !ok {
		e = &entry{state: New()}
		s.states[key] = e
	}
	e.lastSeen = s.now()
	return e.state
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

// Sweep forgets states not used within idle and returns how many went.
func (s *Store) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	n := 0
	for k, e := range s.states {
		if e.lastSeen.Before(cutoff) {
			delete(s.states, k)
			n++
		}
	}
	return n
}
