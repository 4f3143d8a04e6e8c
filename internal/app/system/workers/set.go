package workers

import "sync"

// Worker is a long-running background loop.
type Worker interface {
	Start()
	Stop()
}

// Set tracks started workers so shutdown can stop them together.
type Set struct {
	mu      sync.Mutex
	running []Worker
}

// Start starts w and records it.
func (s *Set) Start(w Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Start()
	s.running = append(s.running, w)
}

// StopAll stops every recorded worker in reverse start order.
func (s *Set) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.running) - 1; i >= 0; i-- {
		s.running[i].Stop()
	}
	s.running = nil
}
