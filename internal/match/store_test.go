package match_test

import (
	"context"
	"testing"

	"github.com/mauv0809/polo-stats/internal/database"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/shootout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (match.Store, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return match.New(db), teardown
}

func intPtr(v int) *int { return &v }

func newMatch() *match.Match {
	return &match.Match{
		Date:       "2025-02-08",
		Opponent:   "CN Rival",
		Location:   "Piscina Municipal",
		IsHome:     true,
		Season:     "2024-25",
		Matchday:   12,
		HomeScore:  9,
		AwayScore:  7,
		MaxPlayers: 12,
		Quarters: [4]match.QuarterScore{
			{Home: intPtr(3), Away: intPtr(2)},
			{Home: intPtr(2), Away: intPtr(1)},
		},
		SprintWinners: [4]string{"p4", "", "p4", ""},
	}
}

func TestUpsertAndGetMatch(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	m := newMatch()
	require.NoError(t, store.UpsertMatch(ctx, m))
	require.NotEmpty(t, m.ID, "an id is generated for new matches")

	got, err := store.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "CN Rival", got.Opponent)
	assert.Equal(t, 12, got.Matchday)
	assert.Equal(t, match.StatusSaved, got.ProcessingStatus)
	require.NotNil(t, got.Quarters[0].Home)
	assert.Equal(t, 3, *got.Quarters[0].Home)
	assert.Nil(t, got.Quarters[2].Home, "open quarters are stored as NULL")
	assert.Nil(t, got.PenaltyHome)
	assert.Equal(t, "p4", got.SprintWinners[2])
	assert.Empty(t, got.SprintWinners[1])

	t.Run("update keeps the id and resets processing", func(t *testing.T) {
		require.NoError(t, store.UpdateProcessingStatus(m.ID, match.StatusCompleted))

		m.HomeScore, m.AwayScore = 8, 8
		m.PenaltyHome, m.PenaltyAway = intPtr(4), intPtr(3)
		require.NoError(t, store.UpsertMatch(ctx, m))

		got, err := store.GetMatch(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, 8, got.AwayScore)
		assert.Equal(t, 4, *got.PenaltyHome)
		assert.Equal(t, match.StatusSaved, got.ProcessingStatus)

		all, err := store.ListMatches(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("unknown match", func(t *testing.T) {
		_, err := store.GetMatch(ctx, "missing")
		assert.ErrorIs(t, err, match.ErrMatchNotFound)
	})
}

func TestStatsRoundTrip(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	m := newMatch()
	require.NoError(t, store.UpsertMatch(ctx, m))

	rows := []match.StatRow{
		{MatchID: m.ID, PlayerID: "p4", Counters: map[string]int{"goles_boya_jugada": 2, "goles_totales": 2, "tiros_totales": 2, "tiros_eficiencia": 100}},
		{MatchID: m.ID, PlayerID: "gk1", Counters: map[string]int{"portero_paradas_fuera": 3, "portero_paradas_totales": 3}},
	}
	require.NoError(t, store.InsertStats(ctx, rows))

	got, err := store.GetStats(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "gk1", got[0].PlayerID)
	assert.Equal(t, 3, got[0].Counters["portero_paradas_totales"])
	assert.Equal(t, rows[0].Counters, got[1].Counters)

	require.NoError(t, store.DeleteStats(ctx, m.ID))
	got, err = store.GetStats(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPenaltiesRoundTrip(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	m := newMatch()
	require.NoError(t, store.UpsertMatch(ctx, m))

	attempts := []shootout.Attempt{
		{MatchID: m.ID, PlayerID: "p4", ShotOrder: 1, Scored: true, ResultType: shootout.ResultScored},
		{MatchID: m.ID, ShotOrder: 2, ResultType: shootout.ResultSaved, GoalkeeperID: "gk1"},
	}
	require.NoError(t, store.InsertPenalties(ctx, attempts))

	got, err := store.GetPenalties(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, attempts, got)

	require.NoError(t, store.DeletePenalties(ctx, m.ID))
	got, err = store.GetPenalties(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestKeeperShotsRoundTrip(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	m := newMatch()
	require.NoError(t, store.UpsertMatch(ctx, m))

	shots := []match.KeeperShot{
		{MatchID: m.ID, GoalkeeperID: "gk1", ShotIndex: 0, Result: match.ShotSave, X: 0.25, Y: 0.5},
		{MatchID: m.ID, GoalkeeperID: "gk1", ShotIndex: 1, Result: match.ShotGoal, X: 0.9, Y: 0.1},
	}
	require.NoError(t, store.InsertKeeperShots(ctx, shots))

	got, err := store.GetKeeperShots(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, shots, got)

	require.NoError(t, store.DeleteKeeperShots(ctx, m.ID))
	got, err = store.GetKeeperShots(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDependentRowsNeedMatch(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	err := store.InsertStats(context.Background(), []match.StatRow{
		{MatchID: "missing", PlayerID: "p4", Counters: map[string]int{}},
	})
	assert.Error(t, err, "foreign keys are enforced")
}

func TestGetMatchesForProcessing(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	first, second := newMatch(), newMatch()
	require.NoError(t, store.UpsertMatch(ctx, first))
	require.NoError(t, store.UpsertMatch(ctx, second))
	require.NoError(t, store.UpdateProcessingStatus(second.ID, match.StatusCompleted))

	pending, err := store.GetMatchesForProcessing()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	err = store.UpdateProcessingStatus("missing", match.StatusCompleted)
	assert.ErrorIs(t, err, match.ErrMatchNotFound)
}
