package roster

import (
	"errors"

	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/stats"
)

// DefaultMaxFieldPlayers is the call-up limit for non-goalkeepers.
const DefaultMaxFieldPlayers = 12

var (
	ErrRosterFull      = errors.New("field player call-up limit reached")
	ErrAlreadyCalledUp = errors.New("player is already called up")
	ErrNotCalledUp     = errors.New("player is not called up")
	ErrPlayerHasStats  = errors.New("player has recorded statistics")
	ErrSamePlayer      = errors.New("a player cannot be substituted for themselves")
)

// Status is the call-up state of a player within one match.
type Status string

const (
	StatusNotCalled      Status = "NOT_CALLED"
	StatusActive         Status = "ACTIVE"
	StatusSubstitutedOut Status = "SUBSTITUTED_OUT"
	StatusRemoved        Status = "REMOVED"
)

// Records is the part of the stat store the roster drives: each active
// player owns exactly one record.
type Records interface {
	Create(playerID string) stats.Record
	Delete(playerID string)
	HasStats(playerID string) bool
}

// Roster tracks the players called up for the match being edited.
type Roster struct {
	records  Records
	maxField int
	order    []string
	players  map[string]club.PlayerInfo
	history  map[string]Status
}
