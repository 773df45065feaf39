package processor

import (
	"context"

	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/notifier"
)

// MatchStore defines the match operations required by the processor.
type MatchStore interface {
	GetMatchesForProcessing() ([]*match.Match, error)
	UpdateProcessingStatus(matchID string, status match.ProcessingStatus) error
	GetStats(ctx context.Context, matchID string) ([]match.StatRow, error)
}

// PlayerStore resolves the squad members named in a match.
type PlayerStore interface {
	GetPlayers(playerIDs []string) ([]club.PlayerInfo, error)
}

// Notifier defines the notification operations required by the processor.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
