package club

import (
	"fmt"
	"sync"
)

// MockStore is a mock implementation of the ClubStore interface for testing.
// Without spies it behaves like an in-memory store seeded through Players.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	Players map[string]PlayerInfo

	// Spies for method calls
	AddPlayerFunc     func(player PlayerInfo) error
	UpsertPlayersFunc func(players []PlayerInfo) error
	GetPlayersFunc    func(playerIDs []string) ([]PlayerInfo, error)

	// Call records
	AddPlayerCalls     []PlayerInfo
	UpsertPlayersCalls [][]PlayerInfo
	GetPlayersCalls    [][]string
}

// NewMock creates a new mock instance seeded with the given players.
func NewMock(players ...PlayerInfo) *MockStore {
	m := &MockStore{Players: make(map[string]PlayerInfo)}
	for _, p := range players {
		m.Players[p.ID] = p
	}
	return m
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = nil
	m.UpsertPlayersCalls = nil
	m.GetPlayersCalls = nil
}

func (m *MockStore) AddPlayer(player PlayerInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, player)
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(player)
	}
	m.Players[player.ID] = player
	return nil
}

func (m *MockStore) UpsertPlayers(players []PlayerInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayersCalls = append(m.UpsertPlayersCalls, players)
	if m.UpsertPlayersFunc != nil {
		return m.UpsertPlayersFunc(players)
	}
	for _, p := range players {
		m.Players[p.ID] = p
	}
	return nil
}

func (m *MockStore) GetPlayer(playerID string) (*PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Players[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return &p, nil
}

func (m *MockStore) GetPlayers(playerIDs []string) ([]PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayersCalls = append(m.GetPlayersCalls, playerIDs)
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(playerIDs)
	}
	players := []PlayerInfo{}
	for _, id := range playerIDs {
		if p, ok := m.Players[id]; ok {
			players = append(players, p)
		}
	}
	return players, nil
}

func (m *MockStore) GetAllPlayers() ([]PlayerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := make([]PlayerInfo, 0, len(m.Players))
	for _, p := range m.Players {
		players = append(players, p)
	}
	return players, nil
}

func (m *MockStore) IsKnownPlayer(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Players[playerID]
	return ok
}

func (m *MockStore) RemovePlayer(playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Players[playerID]; !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	delete(m.Players, playerID)
	return nil
}
