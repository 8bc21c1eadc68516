// apps/go-server/internal/store/memory.go
//
// In-memory session store.
// A Session owns exactly one *game.Engine. The engine is not safe for
// concurrent use, so every access from the HTTP layer goes through
// Session.Do, which serializes callers.
//
// Characteristics:
//   - Sessions keyed by ID in a map guarded by an RWMutex.
//   - Abandoned sessions are dropped by Sweep (see Janitor).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lexicle/apps/go-server/internal/dictionary"
	"github.com/robalobadob/lexicle/apps/go-server/internal/game"
)

// ErrNotFound is returned by Get for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// Session is one player's game plus the context needed to present it.
type Session struct {
	ID     string
	Mode   string // "classic" | "daily"
	UserID string // empty for guests
	AnonID string // guest cookie; empty for signed-in users

	// Daily mode only.
	Date      string
	WordIndex int

	mu        sync.Mutex
	engine    *game.Engine
	entry     dictionary.Entry
	startedAt time.Time
	lastSeen  time.Time
}

// NewSession wraps a fresh engine for entry.
func NewSession(id, mode string, entry dictionary.Entry, eng *game.Engine) *Session {
	now := time.Now()
	return &Session{ID: id, Mode: mode, engine: eng, entry: entry, startedAt: now, lastSeen: now}
}

// Do runs fn with exclusive access to the session's engine.
func (s *Session) Do(fn func(e *game.Engine, entry dictionary.Entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	fn(s.engine, s.entry)
}

// StartedAt is when the current engine was created.
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store defines the persistence interface for sessions.
type Store interface {
	Save(ctx context.Context, s *Session) error
	// Get returns ErrNotFound if the session does not exist.
	Get(ctx context.Context, id string) (*Session, error)
	// Delete returns ErrNotFound if the session was already gone, so exactly
	// one of several concurrent callers observes the removal.
	Delete(ctx context.Context, id string) error
	// Sweep drops sessions idle since before cutoff and reports how many.
	Sweep(ctx context.Context, cutoff time.Time) int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return errors.New("session without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Janitor sweeps st every interval, dropping sessions idle for longer than
// ttl, until ctx is cancelled.
func Janitor(ctx context.Context, st Store, ttl, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Sweep(ctx, now.Add(-ttl)); n > 0 {
				log.Info().Int("sessions", n).Msg("swept idle sessions")
			}
		}
	}
}
