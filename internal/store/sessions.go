// Package store keeps live interview sessions in memory with idle expiry.
package store

import (
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/jonathan/resume-interviewer/internal/interview"
)

// Defaults for the session registry.
const (
	DefaultIdleTimeout     = 1 * time.Hour
	DefaultCleanupInterval = 10 * time.Minute
)

// Sessions is a concurrency-safe registry of interview sessions. A session
// expires after IdleTimeout without being looked up.
type Sessions struct {
	cache  *cache.Cache
	logger *zap.Logger
}

// NewSessions creates a registry. Non-positive durations take the defaults.
func NewSessions(idleTimeout, cleanupInterval time.Duration, logger *zap.Logger) *Sessions {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := cache.New(idleTimeout, cleanupInterval)
	c.OnEvicted(func(id string, _ interface{}) {
		logger.Debug("session evicted", zap.String("session_id", id))
	})
	return &Sessions{cache: c, logger: logger}
}

// Save stores a session under its ID.
func (s *Sessions) Save(session *interview.Session) {
	s.cache.Set(session.ID(), session, cache.DefaultExpiration)
}

// Get returns a session and refreshes its idle timer.
func (s *Sessions) Get(id string) (*interview.Session, bool) {
	x, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	session := x.(*interview.Session)
	// Replace fails when a concurrent Delete or expiry removed the entry,
	// which must not bring it back.
	if err := s.cache.Replace(id, session, cache.DefaultExpiration); err != nil {
		return nil, false
	}
	return session, true
}

// Delete removes a session. It reports whether the session existed.
func (s *Sessions) Delete(id string) bool {
	if _, found := s.cache.Get(id); !found {
		return false
	}
	s.cache.Delete(id)
	return true
}

// Count returns the number of stored sessions, expired ones included until
// the next cleanup.
func (s *Sessions) Count() int {
	return s.cache.ItemCount()
}

// Flush removes every session.
func (s *Sessions) Flush() {
	s.cache.Flush()
}
