package shootout

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/polo-stats/internal/score"
)

func New() *Shootout {
	return &Shootout{keepers: make(map[string]string)}
}

// FromAttempts rebuilds a shootout from persisted rows. Rows without a player
// are rival attempts; they get fresh ids since the store does not keep them.
func FromAttempts(attempts []Attempt) *Shootout {
	sorted := make([]Attempt, len(attempts))
	copy(sorted, attempts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ShotOrder < sorted[j].ShotOrder })

	s := New()
	for _, a := range sorted {
		if a.PlayerID != "" {
			s.shooters = append(s.shooters, Shooter{PlayerID: a.PlayerID, Scored: a.Scored})
			continue
		}
		result := a.ResultType
		if !result.Valid() {
			// Older rows only carry the scored flag.
			result = ResultMissed
			if a.Scored {
				result = ResultScored
			}
		}
		id := uuid.NewString()
		s.rivals = append(s.rivals, RivalAttempt{ID: id, Result: result})
		if result == ResultSaved && a.GoalkeeperID != "" {
			s.keepers[id] = a.GoalkeeperID
		}
	}
	return s
}

// AddShooter appends one of our attempts.
func (s *Shootout) AddShooter(playerID string, scored bool) error {
	if playerID == "" {
		return ErrMissingPlayerID
	}
	s.shooters = append(s.shooters, Shooter{PlayerID: playerID, Scored: scored})
	return nil
}

// SetShooter replaces the attempt at index i.
func (s *Shootout) SetShooter(i int, playerID string, scored bool) error {
	if i < 0 || i >= len(s.shooters) {
		return fmt.Errorf("%w: shooter %d", ErrUnknownAttempt, i)
	}
	if playerID == "" {
		return ErrMissingPlayerID
	}
	s.shooters[i] = Shooter{PlayerID: playerID, Scored: scored}
	return nil
}

func (s *Shootout) RemoveShooter(i int) error {
	if i < 0 || i >= len(s.shooters) {
		return fmt.Errorf("%w: shooter %d", ErrUnknownAttempt, i)
	}
	s.shooters = append(s.shooters[:i], s.shooters[i+1:]...)
	return nil
}

// AddRival appends a rival attempt and returns its id.
func (s *Shootout) AddRival(result Result, keeperID string) (string, error) {
	if !result.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownResult, result)
	}
	id := uuid.NewString()
	s.rivals = append(s.rivals, RivalAttempt{ID: id, Result: result})
	s.attribute(id, result, keeperID)
	return id, nil
}

// SetRival changes the outcome of a rival attempt. The goalkeeper is only
// kept for saved attempts.
func (s *Shootout) SetRival(id string, result Result, keeperID string) error {
	if !result.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownResult, result)
	}
	i := s.rivalIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownAttempt, id)
	}
	s.rivals[i].Result = result
	s.attribute(id, result, keeperID)
	return nil
}

func (s *Shootout) RemoveRival(id string) error {
	i := s.rivalIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownAttempt, id)
	}
	s.rivals = append(s.rivals[:i], s.rivals[i+1:]...)
	delete(s.keepers, id)
	return nil
}

// Forget drops every reference to a player that left the roster: their own
// attempts and any saves credited to them.
func (s *Shootout) Forget(playerID string) {
	kept := s.shooters[:0]
	for _, sh := range s.shooters {
		if sh.PlayerID != playerID {
			kept = append(kept, sh)
		}
	}
	s.shooters = kept
	for id, gk := range s.keepers {
		if gk == playerID {
			delete(s.keepers, id)
		}
	}
}

// Shooters returns our attempts in order.
func (s *Shootout) Shooters() []Shooter {
	out := make([]Shooter, len(s.shooters))
	copy(out, s.shooters)
	return out
}

// Rivals returns the rival attempts in order, with goalkeeper attribution.
func (s *Shootout) Rivals() []RivalAttempt {
	out := make([]RivalAttempt, len(s.rivals))
	for i, r := range s.rivals {
		r.GoalkeeperID = s.keepers[r.ID]
		out[i] = r
	}
	return out
}

// Empty reports whether no attempt has been recorded on either side.
func (s *Shootout) Empty() bool {
	return len(s.shooters) == 0 && len(s.rivals) == 0
}

// Build flattens both lists into persisted rows. Shot order is 1-based and
// own attempts come before the rival ones.
func (s *Shootout) Build(matchID string) []Attempt {
	attempts := make([]Attempt, 0, len(s.shooters)+len(s.rivals))
	for _, sh := range s.shooters {
		result := ResultMissed
		if sh.Scored {
			result = ResultScored
		}
		attempts = append(attempts, Attempt{
			MatchID:    matchID,
			PlayerID:   sh.PlayerID,
			ShotOrder:  len(attempts) + 1,
			Scored:     sh.Scored,
			ResultType: result,
		})
	}
	for _, r := range s.rivals {
		a := Attempt{
			MatchID:    matchID,
			ShotOrder:  len(attempts) + 1,
			Scored:     r.Result == ResultScored,
			ResultType: r.Result,
		}
		if r.Result == ResultSaved {
			a.GoalkeeperID = s.keepers[r.ID]
		}
		attempts = append(attempts, a)
	}
	return attempts
}

// SavedByKeeper counts the rival attempts each goalkeeper saved.
func (s *Shootout) SavedByKeeper() map[string]int {
	saved := make(map[string]int)
	for _, r := range s.rivals {
		if r.Result != ResultSaved {
			continue
		}
		if gk, ok := s.keepers[r.ID]; ok {
			saved[gk]++
		}
	}
	return saved
}

// Validate checks that a tied match carries a decisive shootout. Untied
// matches always pass.
func (s *Shootout) Validate(total score.Score, penaltyHome, penaltyAway *int) error {
	if !total.IsTied() {
		return nil
	}
	if penaltyHome == nil || penaltyAway == nil {
		return ErrMissingScores
	}
	if *penaltyHome == *penaltyAway {
		return ErrTiedShootout
	}
	if len(s.shooters) == 0 {
		return ErrNoShooters
	}
	return nil
}

func (s *Shootout) attribute(id string, result Result, keeperID string) {
	if result == ResultSaved && keeperID != "" {
		s.keepers[id] = keeperID
		return
	}
	if result == ResultSaved {
		log.Debug("Saved rival penalty has no goalkeeper", "attemptID", id)
	}
	delete(s.keepers, id)
}

func (s *Shootout) rivalIndex(id string) int {
	for i, r := range s.rivals {
		if r.ID == id {
			return i
		}
	}
	return -1
}
