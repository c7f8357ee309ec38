package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/fintrack/fintrack/internal/notify"
)

// MemSessions records revoked session ids in memory.
type MemSessions struct {
	mu      sync.Mutex
	revoked map[string]time.Duration

	// Err, when set, is returned by every method.
	Err error
}

// NewMemSessions creates an empty MemSessions.
func NewMemSessions() *MemSessions {
	return &MemSessions{revoked: make(map[string]time.Duration)}
}

func (s *MemSessions) RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.revoked[sessionID] = ttl
	return nil
}

func (s *MemSessions) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	_, ok := s.revoked[sessionID]
	return ok, nil
}

// RevokedTTL returns the TTL a session was revoked with.
func (s *MemSessions) RevokedTTL(sessionID string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ttl, ok := s.revoked[sessionID]
	return ttl, ok
}

// RecordingPublisher keeps every alert it is asked to publish.
type RecordingPublisher struct {
	mu     sync.Mutex
	alerts []notify.BudgetExceeded

	// Err, when set, is returned instead of recording.
	Err error
}

func (p *RecordingPublisher) PublishBudgetExceeded(ctx context.Context, alert notify.BudgetExceeded) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.alerts = append(p.alerts, alert)
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

// Alerts returns a copy of the recorded alerts.
func (p *RecordingPublisher) Alerts() []notify.BudgetExceeded {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.BudgetExceeded(nil), p.alerts...)
}
