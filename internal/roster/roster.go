package roster

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/polo-stats/internal/club"
)

// New creates an empty roster. maxField values below 1 fall back to
// DefaultMaxFieldPlayers.
func New(records Records, maxField int) *Roster {
	if maxField < 1 {
		maxField = DefaultMaxFieldPlayers
	}
	return &Roster{
		records:  records,
		maxField: maxField,
		players:  make(map[string]club.PlayerInfo),
		history:  make(map[string]Status),
	}
}

// Add calls a player up and gives them a fresh all-zero record. A field
// player beyond the limit is rejected and the roster is left unchanged.
func (r *Roster) Add(p club.PlayerInfo) error {
	if _, ok := r.players[p.ID]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyCalledUp, p.ID)
	}
	if !p.IsGoalkeeper && r.fieldCount() >= r.maxField {
		log.Warn("Rejected call-up, roster is full", "playerID", p.ID, "limit", r.maxField)
		return fmt.Errorf("%w (%d)", ErrRosterFull, r.maxField)
	}
	r.activate(p)
	log.Debug("Player called up", "playerID", p.ID, "goalkeeper", p.IsGoalkeeper)
	return nil
}

// Restore calls up a player coming from a persisted match. The field player
// limit is not enforced so that matches saved under a larger limit can still
// be opened.
func (r *Roster) Restore(p club.PlayerInfo) {
	if _, ok := r.players[p.ID]; ok {
		return
	}
	if !p.IsGoalkeeper && r.fieldCount() >= r.maxField {
		log.Warn("Persisted roster exceeds field player limit", "playerID", p.ID, "limit", r.maxField)
	}
	r.activate(p)
}

// Remove drops a player and discards their record. Players with recorded
// statistics cannot be removed.
func (r *Roster) Remove(playerID string) error {
	if _, ok := r.players[playerID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotCalledUp, playerID)
	}
	if r.records.HasStats(playerID) {
		return fmt.Errorf("%w: %s", ErrPlayerHasStats, playerID)
	}
	r.deactivate(playerID, StatusRemoved)
	r.records.Delete(playerID)
	log.Debug("Player removed from roster", "playerID", playerID)
	return nil
}

// Substitute replaces outID with in. Statistics are not transferred: the
// outgoing record is discarded and the incoming player starts from zero, so
// the outgoing player must not have any recorded statistics. The incoming
// player takes the outgoing player's position in the call-up order.
func (r *Roster) Substitute(outID string, in club.PlayerInfo) error {
	out, ok := r.players[outID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotCalledUp, outID)
	}
	if outID == in.ID {
		return ErrSamePlayer
	}
	if _, ok := r.players[in.ID]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyCalledUp, in.ID)
	}
	if r.records.HasStats(outID) {
		return fmt.Errorf("%w: %s", ErrPlayerHasStats, outID)
	}
	field := r.fieldCount()
	if !out.IsGoalkeeper {
		field--
	}
	if !in.IsGoalkeeper && field >= r.maxField {
		return fmt.Errorf("%w (%d)", ErrRosterFull, r.maxField)
	}

	pos := r.indexOf(outID)
	r.deactivate(outID, StatusSubstitutedOut)
	r.records.Delete(outID)
	r.activate(in)
	// activate appended the newcomer; move it into the vacated slot.
	last := len(r.order) - 1
	copy(r.order[pos+1:], r.order[pos:last])
	r.order[pos] = in.ID

	log.Debug("Player substituted", "out", outID, "in", in.ID)
	return nil
}

// Contains reports whether the player is currently called up.
func (r *Roster) Contains(playerID string) bool {
	_, ok := r.players[playerID]
	return ok
}

// Player returns the called-up player with the given id.
func (r *Roster) Player(playerID string) (club.PlayerInfo, bool) {
	p, ok := r.players[playerID]
	return p, ok
}

// IsGoalkeeper reports whether an active player is a goalkeeper.
func (r *Roster) IsGoalkeeper(playerID string) bool {
	return r.players[playerID].IsGoalkeeper
}

// Status returns the call-up state of a player in this match.
func (r *Roster) Status(playerID string) Status {
	if s, ok := r.history[playerID]; ok {
		return s
	}
	return StatusNotCalled
}

// Players lists the active players in call-up order.
func (r *Roster) Players() []club.PlayerInfo {
	out := make([]club.PlayerInfo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.players[id])
	}
	return out
}

// FieldPlayers lists the active non-goalkeepers in call-up order.
func (r *Roster) FieldPlayers() []club.PlayerInfo {
	var out []club.PlayerInfo
	for _, p := range r.Players() {
		if !p.IsGoalkeeper {
			out = append(out, p)
		}
	}
	return out
}

// Goalkeepers lists the active goalkeepers in call-up order.
func (r *Roster) Goalkeepers() []club.PlayerInfo {
	var out []club.PlayerInfo
	for _, p := range r.Players() {
		if p.IsGoalkeeper {
			out = append(out, p)
		}
	}
	return out
}

// Len is the number of active players.
func (r *Roster) Len() int { return len(r.order) }

// MaxField is the field player call-up limit.
func (r *Roster) MaxField() int { return r.maxField }

func (r *Roster) activate(p club.PlayerInfo) {
	r.players[p.ID] = p
	r.order = append(r.order, p.ID)
	r.history[p.ID] = StatusActive
	r.records.Create(p.ID)
}

func (r *Roster) deactivate(playerID string, status Status) {
	delete(r.players, playerID)
	if i := r.indexOf(playerID); i >= 0 {
		r.order = append(r.order[:i], r.order[i+1:]...)
	}
	r.history[playerID] = status
}

func (r *Roster) fieldCount() int {
	n := 0
	for _, p := range r.players {
		if !p.IsGoalkeeper {
			n++
		}
	}
	return n
}

func (r *Roster) indexOf(playerID string) int {
	for i, id := range r.order {
		if id == playerID {
			return i
		}
	}
	return -1
}
