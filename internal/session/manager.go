package session

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/polo-stats/internal/roster"
)

// NewManager creates an empty session registry. maxField is the call-up
// limit for new matches.
func NewManager(maxField int) *Manager {
	if maxField < 1 {
		maxField = roster.DefaultMaxFieldPlayers
	}
	return &Manager{
		sessions: make(map[string]*entry),
		maxField: maxField,
	}
}

// MaxField is the call-up limit applied to new sessions.
func (m *Manager) MaxField() int { return m.maxField }

// Create opens a session for a new match and returns its id.
func (m *Manager) Create() string {
	return m.Add(New(m.maxField))
}

// Add registers an existing session, typically one returned by Load.
func (m *Manager) Add(s *Session) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = &entry{s: s}
	log.Info("Edit session opened", "sessionID", s.ID(), "matchID", s.MatchID(), "open", len(m.sessions))
	return s.ID()
}

// Do runs fn with exclusive access to the session.
func (m *Manager) Do(id string, fn func(s *Session) error) error {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.s)
}

// Close discards a session and everything not yet saved in it.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	log.Info("Edit session closed", "sessionID", id, "open", len(m.sessions))
	return nil
}

// Len is the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
