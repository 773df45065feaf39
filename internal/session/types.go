package session

import (
	"errors"
	"sync"

	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/roster"
	"github.com/mauv0809/polo-stats/internal/score"
	"github.com/mauv0809/polo-stats/internal/shootout"
	"github.com/mauv0809/polo-stats/internal/stats"
)

var (
	ErrOpponentRequired = errors.New("opponent name is required")
	ErrSaveFailed       = errors.New("failed to save match")
	ErrSessionNotFound  = errors.New("edit session not found")
	ErrNotGoalkeeper    = errors.New("player is not a called-up goalkeeper")
	ErrInvalidShot      = errors.New("shot needs a known result and coordinates within the unit square")
	ErrShotNotFound     = errors.New("goalkeeper shot not found")
)

// ValidationError is a user-correctable reason that blocks a save. Nothing is
// written when Save returns one.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// PlayerSource resolves player ids to squad members.
type PlayerSource interface {
	GetPlayers(playerIDs []string) ([]club.PlayerInfo, error)
}

// Info is the editable match metadata.
type Info struct {
	Date          string `json:"match_date"`
	Opponent      string `json:"opponent"`
	Location      string `json:"location,omitempty"`
	IsHome        bool   `json:"is_home"`
	Season        string `json:"season,omitempty"`
	Matchday      int    `json:"jornada"`
	CompetitionID string `json:"competition_id,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// Session is the in-memory state of one match being entered or edited. It
// is not safe for concurrent use; the Manager serialises access.
type Session struct {
	id      string
	matchID string
	info    Info

	records  stats.RecordStore
	roster   *roster.Roster
	board    score.Board
	total    score.Score
	active   int
	sprints  [score.Quarters]string
	shootout *shootout.Shootout

	penaltyHome *int
	penaltyAway *int

	// goalkeeper id -> shots in entry order
	shots map[string][]match.KeeperShot
}

// PlayerView is a called-up player with their current counters.
type PlayerView struct {
	club.PlayerInfo
	Stats map[string]int `json:"stats"`
}

// View is a read-only snapshot of a session.
type View struct {
	SessionID       string                        `json:"session_id"`
	MatchID         string                        `json:"match_id,omitempty"`
	Info            Info                          `json:"info"`
	Players         []PlayerView                  `json:"players"`
	MaxFieldPlayers int                           `json:"max_field_players"`
	Score           score.Score                   `json:"score"`
	Quarters        score.Board                   `json:"quarters"`
	ActiveQuarter   int                           `json:"active_quarter"`
	SprintWinners   [score.Quarters]string        `json:"sprint_winners"`
	NeedsShootout   bool                          `json:"needs_shootout"`
	Shooters        []shootout.Shooter            `json:"shooters"`
	Rivals          []shootout.RivalAttempt       `json:"rivals"`
	PenaltyHome     *int                          `json:"penalty_home_score,omitempty"`
	PenaltyAway     *int                          `json:"penalty_away_score,omitempty"`
	KeeperShots     map[string][]match.KeeperShot `json:"keeper_shots"`
}

// Manager keeps the open edit sessions. Each session has its own lock so a
// mutation runs to completion before the next one starts.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	maxField int
}

type entry struct {
	mu sync.Mutex
	s  *Session
}
