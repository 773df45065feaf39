package club_test

import (
	"database/sql"
	"testing"

	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (club.ClubStore, *sql.DB, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	return club.New(db), db, teardown
}

func TestAddAndGetPlayers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.AddPlayer(club.PlayerInfo{ID: "p1", Number: 4, Name: "Player One"}))
	require.NoError(t, store.AddPlayer(club.PlayerInfo{ID: "gk1", Number: 1, Name: "Keeper One", IsGoalkeeper: true}))

	assert.True(t, store.IsKnownPlayer("p1"))
	assert.False(t, store.IsKnownPlayer("p3"))

	allPlayers, err := store.GetAllPlayers()
	require.NoError(t, err)
	require.Len(t, allPlayers, 2)
	assert.Equal(t, "gk1", allPlayers[0].ID, "players are ordered by cap number")
	assert.True(t, allPlayers[0].IsGoalkeeper)
}

func TestAddPlayer_UpdatesExisting(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, store.AddPlayer(club.PlayerInfo{ID: "p1", Number: 4, Name: "Player One"}))
	require.NoError(t, store.AddPlayer(club.PlayerInfo{ID: "p1", Number: 7, Name: "Player One", PhotoURL: "https://img/p1.png"}))

	p, err := store.GetPlayer("p1")
	require.NoError(t, err)
	assert.Equal(t, 7, p.Number)
	assert.Equal(t, "https://img/p1.png", p.PhotoURL)
}

func TestGetPlayers(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	_, err := db.Exec(`INSERT INTO players (id, number, name, is_goalkeeper) VALUES
		('p1', 2, 'Player One', 0),
		('p2', 3, 'Player Two', 0),
		('p3', 1, 'Player Three', 1)`)
	require.NoError(t, err)

	t.Run("gets multiple players", func(t *testing.T) {
		players, err := store.GetPlayers([]string{"p1", "p3"})
		require.NoError(t, err)
		require.Len(t, players, 2)

		playerMap := make(map[string]club.PlayerInfo)
		for _, p := range players {
			playerMap[p.ID] = p
		}
		assert.Equal(t, "Player One", playerMap["p1"].Name)
		assert.True(t, playerMap["p3"].IsGoalkeeper)
	})

	t.Run("returns empty slice for no matches", func(t *testing.T) {
		players, err := store.GetPlayers([]string{"p4", "p5"})
		require.NoError(t, err)
		assert.Len(t, players, 0)
	})

	t.Run("returns empty slice for empty id slice", func(t *testing.T) {
		players, err := store.GetPlayers([]string{})
		require.NoError(t, err)
		assert.Len(t, players, 0)
	})
}

func TestUpsertPlayersAndRemove(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	err := store.UpsertPlayers([]club.PlayerInfo{
		{ID: "p1", Number: 2, Name: "A"},
		{ID: "p2", Number: 3, Name: "B"},
	})
	require.NoError(t, err)

	require.NoError(t, store.RemovePlayer("p1"))
	assert.False(t, store.IsKnownPlayer("p1"))

	err = store.RemovePlayer("p1")
	assert.ErrorIs(t, err, club.ErrPlayerNotFound)

	_, err = store.GetPlayer("p1")
	assert.ErrorIs(t, err, club.ErrPlayerNotFound)
}
