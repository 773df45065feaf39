package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventMatchSaved EventType = "match-saved"
)

// PlayerLine is one player's headline numbers in a MatchSavedEvent.
type PlayerLine struct {
	PlayerID     string `msgpack:"player_id"`
	Goals        int    `msgpack:"goals"`
	Shots        int    `msgpack:"shots"`
	Efficiency   int    `msgpack:"efficiency"`
	Saves        int    `msgpack:"saves"`
	GoalsAgainst int    `msgpack:"goals_against"`
}

// MatchSavedEvent is published once a saved match has been announced, for
// the read-side consumers (season totals, charts).
type MatchSavedEvent struct {
	MatchID     string       `msgpack:"match_id"`
	Date        string       `msgpack:"match_date"`
	Opponent    string       `msgpack:"opponent"`
	HomeScore   int          `msgpack:"home_score"`
	AwayScore   int          `msgpack:"away_score"`
	PenaltyHome *int         `msgpack:"penalty_home_score"`
	PenaltyAway *int         `msgpack:"penalty_away_score"`
	Players     []PlayerLine `msgpack:"players"`
}
