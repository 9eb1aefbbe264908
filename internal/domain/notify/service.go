// internal/domain/notify/service.go
package notify

import (
	"sync"
	"time"
)

// Level classifies a transient notice
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelPending Level = "pending"
)

// Notice is a transient UI notice raised by the cart or checkout flow.
// It lives only until the terminal drains it.
type Notice struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Service keeps a bounded per-session backlog of notices
type Service struct {
	mu      sync.Mutex
	backlog map[string][]Notice
	cap     int
}

// NewService creates a new notification service. backlogCap bounds the
// number of undrained notices kept per session; older ones are dropped.
func NewService(backlogCap int) *Service {
	if backlogCap <= 0 {
		backlogCap = 50
	}
	return &Service{
		backlog: make(map[string][]Notice),
		cap:     backlogCap,
	}
}

// Notify records a notice for a session
func (s *Service) Notify(sessionID string, level Level, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notices := append(s.backlog[sessionID], Notice{
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
	if len(notices) > s.cap {
		notices = notices[len(notices)-s.cap:]
	}
	s.backlog[sessionID] = notices
}

// Drain returns and clears the pending notices for a session
func (s *Service) Drain(sessionID string) []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	notices := s.backlog[sessionID]
	delete(s.backlog, sessionID)
	return notices
}

// Peek returns the pending notices without clearing them
func (s *Service) Peek(sessionID string) []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	notices := s.backlog[sessionID]
	out := make([]Notice, len(notices))
	copy(out, notices)
	return out
}

// Clear drops all pending notices for a session
func (s *Service) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.backlog, sessionID)
}
