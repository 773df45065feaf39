package match

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

var ErrMatchNotFound = errors.New("match not found")

// ProcessingStatus tracks what has been done with a saved match after the
// edit session ended.
type ProcessingStatus string

const (
	StatusSaved          ProcessingStatus = "SAVED"
	StatusResultNotified ProcessingStatus = "RESULT_NOTIFIED"
	StatusStatsPublished ProcessingStatus = "STATS_PUBLISHED"
	StatusCompleted      ProcessingStatus = "COMPLETED"
)

// ShotResult is the outcome of a shot faced by a goalkeeper.
type ShotResult string

const (
	ShotGoal ShotResult = "goal"
	ShotSave ShotResult = "save"
	ShotOut  ShotResult = "out"
)

func (r ShotResult) Valid() bool {
	return r == ShotGoal || r == ShotSave || r == ShotOut
}

// QuarterScore is the persisted score of one quarter. A quarter is only
// stored once it was closed, so both values are nil for open quarters.
type QuarterScore struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Match is a row of the matches table.
type Match struct {
	ID               string           `json:"id"`
	Date             string           `json:"match_date"` // YYYY-MM-DD
	Opponent         string           `json:"opponent"`
	Location         string           `json:"location,omitempty"`
	IsHome           bool             `json:"is_home"`
	Season           string           `json:"season,omitempty"`
	Matchday         int              `json:"jornada"`
	HomeScore        int              `json:"home_score"`
	AwayScore        int              `json:"away_score"`
	Quarters         [4]QuarterScore  `json:"quarters"`
	SprintWinners    [4]string        `json:"sprint_winners"`
	PenaltyHome      *int             `json:"penalty_home_score,omitempty"`
	PenaltyAway      *int             `json:"penalty_away_score,omitempty"`
	CompetitionID    string           `json:"competition_id,omitempty"`
	MaxPlayers       int              `json:"max_players"`
	Notes            string           `json:"notes,omitempty"`
	ProcessingStatus ProcessingStatus `json:"processing_status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// StatRow is the counter set of one player in one match, keyed by wire name.
type StatRow struct {
	MatchID  string         `json:"match_id"`
	PlayerID string         `json:"player_id"`
	Counters map[string]int `json:"counters"`
}

// KeeperShot is one shot faced by a goalkeeper, located on the unit square.
type KeeperShot struct {
	MatchID      string     `json:"match_id"`
	GoalkeeperID string     `json:"goalkeeper_id"`
	ShotIndex    int        `json:"shot_index"`
	Result       ShotResult `json:"result"`
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
}

// store persists matches and their dependent rows.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
