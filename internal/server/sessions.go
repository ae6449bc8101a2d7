package server

import "sync"

// LimitStore keeps each session's daily caloric limit in memory. Nothing is
// persisted; a restart forgets every limit.
type LimitStore struct {
	mu     sync.RWMutex
	limits map[string]float64
}

func NewLimitStore() *LimitStore {
	return &LimitStore{limits: make(map[string]float64)}
}

func (s *LimitStore) Set(sessionID string, limit float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits[sessionID] = limit
}

func (s *LimitStore) Get(sessionID string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	limit, ok := s.limits[sessionID]
	return limit, ok
}

func (s *LimitStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.limits)
}
