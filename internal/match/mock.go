package match

import (
	"context"
	"fmt"
	"sync"

	"github.com/mauv0809/polo-stats/internal/shootout"
)

// MockStore is an in-memory Store for tests. Calls records the order of
// every mutating call so save sequences can be asserted. Setting one of the
// Func fields replaces the default behaviour of that method.
type MockStore struct {
	mu sync.Mutex

	Matches   map[string]*Match
	Stats     map[string][]StatRow
	Penalties map[string][]shootout.Attempt
	Shots     map[string][]KeeperShot

	// Spies for method calls
	UpsertMatchFunc       func(m *Match) error
	DeleteStatsFunc       func(matchID string) error
	InsertStatsFunc       func(rows []StatRow) error
	DeletePenaltiesFunc   func(matchID string) error
	InsertPenaltiesFunc   func(attempts []shootout.Attempt) error
	DeleteKeeperShotsFunc func(matchID string) error
	InsertKeeperShotsFunc func(shots []KeeperShot) error

	// Call records
	Calls                       []string
	UpdateProcessingStatusCalls []ProcessingStatus
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{
		Matches:   make(map[string]*Match),
		Stats:     make(map[string][]StatRow),
		Penalties: make(map[string][]shootout.Attempt),
		Shots:     make(map[string][]KeeperShot),
	}
}

func (m *MockStore) UpsertMatch(_ context.Context, match *Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "UpsertMatch")
	if m.UpsertMatchFunc != nil {
		if err := m.UpsertMatchFunc(match); err != nil {
			return err
		}
	}
	if match.ID == "" {
		match.ID = fmt.Sprintf("match-%d", len(m.Matches)+1)
	}
	match.ProcessingStatus = StatusSaved
	stored := *match
	m.Matches[match.ID] = &stored
	return nil
}

func (m *MockStore) GetMatch(_ context.Context, matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.Matches[matchID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	out := *stored
	return &out, nil
}

func (m *MockStore) ListMatches(_ context.Context) ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Match, 0, len(m.Matches))
	for _, stored := range m.Matches {
		out = append(out, *stored)
	}
	return out, nil
}

func (m *MockStore) DeleteStats(_ context.Context, matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "DeleteStats")
	if m.DeleteStatsFunc != nil {
		if err := m.DeleteStatsFunc(matchID); err != nil {
			return err
		}
	}
	delete(m.Stats, matchID)
	return nil
}

func (m *MockStore) InsertStats(_ context.Context, rows []StatRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "InsertStats")
	if m.InsertStatsFunc != nil {
		if err := m.InsertStatsFunc(rows); err != nil {
			return err
		}
	}
	for _, r := range rows {
		m.Stats[r.MatchID] = append(m.Stats[r.MatchID], r)
	}
	return nil
}

func (m *MockStore) GetStats(_ context.Context, matchID string) ([]StatRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]StatRow{}, m.Stats[matchID]...), nil
}

func (m *MockStore) DeletePenalties(_ context.Context, matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "DeletePenalties")
	if m.DeletePenaltiesFunc != nil {
		if err := m.DeletePenaltiesFunc(matchID); err != nil {
			return err
		}
	}
	delete(m.Penalties, matchID)
	return nil
}

func (m *MockStore) InsertPenalties(_ context.Context, attempts []shootout.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "InsertPenalties")
	if m.InsertPenaltiesFunc != nil {
		if err := m.InsertPenaltiesFunc(attempts); err != nil {
			return err
		}
	}
	for _, a := range attempts {
		m.Penalties[a.MatchID] = append(m.Penalties[a.MatchID], a)
	}
	return nil
}

func (m *MockStore) GetPenalties(_ context.Context, matchID string) ([]shootout.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]shootout.Attempt{}, m.Penalties[matchID]...), nil
}

func (m *MockStore) DeleteKeeperShots(_ context.Context, matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "DeleteKeeperShots")
	if m.DeleteKeeperShotsFunc != nil {
		if err := m.DeleteKeeperShotsFunc(matchID); err != nil {
			return err
		}
	}
	delete(m.Shots, matchID)
	return nil
}

func (m *MockStore) InsertKeeperShots(_ context.Context, shots []KeeperShot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, "InsertKeeperShots")
	if m.InsertKeeperShotsFunc != nil {
		if err := m.InsertKeeperShotsFunc(shots); err != nil {
			return err
		}
	}
	for _, sh := range shots {
		m.Shots[sh.MatchID] = append(m.Shots[sh.MatchID], sh)
	}
	return nil
}

func (m *MockStore) GetKeeperShots(_ context.Context, matchID string) ([]KeeperShot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]KeeperShot{}, m.Shots[matchID]...), nil
}

func (m *MockStore) GetMatchesForProcessing() ([]*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Match
	for _, stored := range m.Matches {
		if stored.ProcessingStatus != StatusCompleted {
			cp := *stored
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockStore) UpdateProcessingStatus(matchID string, status ProcessingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateProcessingStatusCalls = append(m.UpdateProcessingStatusCalls, status)
	stored, ok := m.Matches[matchID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	stored.ProcessingStatus = status
	return nil
}
