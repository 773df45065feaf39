package shootout

import "errors"

// Result is the outcome of a single penalty attempt.
type Result string

const (
	ResultScored Result = "scored"
	ResultSaved  Result = "saved"
	ResultMissed Result = "missed"
)

// Valid reports whether r is one of the known outcomes.
func (r Result) Valid() bool {
	switch r {
	case ResultScored, ResultSaved, ResultMissed:
		return true
	}
	return false
}

var (
	ErrUnknownResult   = errors.New("unknown penalty result")
	ErrUnknownAttempt  = errors.New("penalty attempt not found")
	ErrMissingScores   = errors.New("tied match needs both penalty shootout scores")
	ErrTiedShootout    = errors.New("penalty shootout cannot end in a tie")
	ErrNoShooters      = errors.New("tied match needs at least one own penalty shooter")
	ErrMissingPlayerID = errors.New("penalty shooter needs a player id")
)

// Shooter is one of our own attempts.
type Shooter struct {
	PlayerID string `json:"player_id"`
	Scored   bool   `json:"scored"`
}

// RivalAttempt is one of the opponent's attempts. GoalkeeperID is only set
// for saved attempts.
type RivalAttempt struct {
	ID           string `json:"id"`
	Result       Result `json:"result"`
	GoalkeeperID string `json:"goalkeeper_id,omitempty"`
}

// Attempt is a persisted shootout row. An empty PlayerID marks a rival
// attempt.
type Attempt struct {
	MatchID      string `json:"match_id"`
	PlayerID     string `json:"player_id,omitempty"`
	ShotOrder    int    `json:"shot_order"`
	Scored       bool   `json:"scored"`
	ResultType   Result `json:"result_type"`
	GoalkeeperID string `json:"goalkeeper_id,omitempty"`
}

// Shootout collects both sides' attempts while a tied match is edited.
type Shootout struct {
	shooters []Shooter
	rivals   []RivalAttempt
	// rival attempt id -> goalkeeper credited with the save
	keepers map[string]string
}
