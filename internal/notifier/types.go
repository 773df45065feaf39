package notifier

import "github.com/mauv0809/polo-stats/internal/match"

// MatchSummary is what gets announced about a saved match.
type MatchSummary struct {
	Match   *match.Match
	Scorers []Scorer
	Keepers []KeeperLine
}

// Scorer is a player who scored in the match.
type Scorer struct {
	Name   string
	Number int
	Goals  int
	Shots  int
}

// KeeperLine is a goalkeeper's line in the match.
type KeeperLine struct {
	Name         string
	Number       int
	Saves        int
	GoalsAgainst int
}
