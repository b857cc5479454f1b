package watch

import "sync"

// Session groups the subscriptions belonging to one connected client.
// Reset tears every subscription down before the caller re-subscribes
// under a new identity, so a stale signal scoped to the previous user can
// never fire after the switch.
type Session struct {
	hub     *Hub
	mu      sync.Mutex
	cancels []func()
}

func (h *Hub) NewSession() *Session {
	return &Session{hub: h}
}

// Subscribe registers interest in a topic for the session's lifetime.
func (s *Session) Subscribe(topic string) <-chan struct{} {
	ch, cancel := s.hub.subscribe(topic)
	s.mu.Lock()
	s.cancels = append(s.cancels, cancel)
	s.mu.Unlock()
	return ch
}

// Reset revokes every subscription. It returns only after all cancels
// have completed, acting as the barrier between the old identity's
// subscriptions and any new ones.
func (s *Session) Reset() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = nil
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Close releases the session.
func (s *Session) Close() {
	s.Reset()
}
