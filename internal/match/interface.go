package match

import (
	"context"

	"github.com/mauv0809/polo-stats/internal/shootout"
)

// Store is the relational store behind the match editor. Dependent rows are
// always replaced as a whole: delete everything for the match, then insert.
type Store interface {
	UpsertMatch(ctx context.Context, m *Match) error
	GetMatch(ctx context.Context, matchID string) (*Match, error)
	ListMatches(ctx context.Context) ([]Match, error)

	DeleteStats(ctx context.Context, matchID string) error
	InsertStats(ctx context.Context, rows []StatRow) error
	GetStats(ctx context.Context, matchID string) ([]StatRow, error)

	DeletePenalties(ctx context.Context, matchID string) error
	InsertPenalties(ctx context.Context, attempts []shootout.Attempt) error
	GetPenalties(ctx context.Context, matchID string) ([]shootout.Attempt, error)

	DeleteKeeperShots(ctx context.Context, matchID string) error
	InsertKeeperShots(ctx context.Context, shots []KeeperShot) error
	GetKeeperShots(ctx context.Context, matchID string) ([]KeeperShot, error)

	// GetMatchesForProcessing returns saved matches whose post-save
	// processing has not completed yet.
	GetMatchesForProcessing() ([]*Match, error)
	UpdateProcessingStatus(matchID string, status ProcessingStatus) error
}
