package stats

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
)

// NewStore creates an empty RecordStore.
func NewStore() RecordStore {
	return &store{
		records: make(map[string]Record),
	}
}

// Get returns a copy of the player's record.
func (s *store) Get(playerID string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[playerID]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Set writes one raw counter for a player. The stored record is always fully
// derived before Set returns.
func (s *store) Set(playerID string, f Field, value int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	next, err := Apply(rec, f, value)
	if err != nil {
		return nil, err
	}
	s.records[playerID] = next
	log.Debug("Stat updated", "playerID", playerID, "field", f, "value", next[f])
	return next.Clone(), nil
}

// Create gives a player a fresh all-zero record. An existing record is kept.
func (s *store) Create(playerID string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[playerID]; ok {
		return rec.Clone()
	}
	rec := Derive(Template())
	s.records[playerID] = rec
	return rec.Clone()
}

// Put replaces a player's record, re-deriving it on the way in.
func (s *store) Put(playerID string, rec Record) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := Template()
	for k, v := range rec {
		if _, ok := byField[k]; ok {
			if v < 0 {
				v = 0
			}
			merged[k] = v
		}
	}
	next := Derive(merged)
	s.records[playerID] = next
	return next.Clone()
}

// Delete discards a player's record.
func (s *store) Delete(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, playerID)
}

// HasStats reports whether the player has any non-zero counter.
func (s *store) HasStats(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[playerID]
	return ok && rec.HasStats()
}

// IDs lists the players holding a record, sorted.
func (s *store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns a deep copy of every record.
func (s *store) Snapshot() map[string]Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Record, len(s.records))
	for id, rec := range s.records {
		out[id] = rec.Clone()
	}
	return out
}
