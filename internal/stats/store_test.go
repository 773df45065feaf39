package stats_test

import (
	"math"
	"testing"

	"github.com/mauv0809/polo-stats/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive_FieldPlayerScenario(t *testing.T) {
	store := stats.NewStore()
	store.Create("p1")

	_, err := store.Set("p1", stats.GolesBoyaJugada, 2)
	require.NoError(t, err)
	_, err = store.Set("p1", stats.GolesLanzamiento, 1)
	require.NoError(t, err)
	rec, err := store.Set("p1", stats.TirosFuera, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, rec[stats.GolesTotales])
	assert.Equal(t, 4, rec[stats.TirosTotales])
	assert.Equal(t, 75, rec[stats.TirosEficiencia])
	assert.Equal(t, 75, rec[stats.GolesEficiencia])
}

func TestDerive_GoalkeeperSaves(t *testing.T) {
	store := stats.NewStore()
	store.Create("gk")

	_, err := store.Set("gk", stats.PorteroTirosParadaRecup, 5)
	require.NoError(t, err)
	rec, err := store.Set("gk", stats.PorteroParadasFuera, 2)
	require.NoError(t, err)

	assert.Equal(t, 7, rec[stats.PorteroParadasTotales])
}

func TestDerive_GoalkeeperConceded(t *testing.T) {
	rec := stats.Template()
	for i, f := range stats.FieldsIn(stats.CategoryConcede) {
		rec[f] = i + 1
	}
	out := stats.Derive(rec)

	assert.Equal(t, 36, out[stats.PorteroGolesTotales], "all eight concede fields are summed")
	assert.Equal(t, 28, stats.RivalGoals(out), "own goals are not part of the rival score")
}

func TestDerive_ZeroShotsHasZeroEfficiency(t *testing.T) {
	out := stats.Derive(stats.Template())
	assert.Equal(t, 0, out[stats.TirosTotales])
	assert.Equal(t, 0, out[stats.TirosEficiencia])
}

func TestDerive_IsIdempotent(t *testing.T) {
	rec := stats.Template()
	rec[stats.GolesHombreMas] = 3
	rec[stats.TirosPalo] = 2
	rec[stats.PorteroParadasHombreMenos] = 4

	once := stats.Derive(rec)
	twice := stats.Derive(once)
	assert.Equal(t, once, twice)
}

func TestDerive_InvariantsHoldAfterEdits(t *testing.T) {
	store := stats.NewStore()
	store.Create("p1")

	edits := []struct {
		field stats.Field
		value int
	}{
		{stats.GolesContraataque, 1},
		{stats.TirosParados, 4},
		{stats.GolesPenaltiAnotado, 2},
		{stats.TirosBloqueado, 1},
		{stats.GolesContraataque, 0},
		{stats.TirosPenaltiFallado, 3},
	}
	for _, e := range edits {
		rec, err := store.Set("p1", e.field, e.value)
		require.NoError(t, err)

		goals := 0
		for _, f := range stats.FieldsIn(stats.CategoryGoal) {
			goals += rec[f]
		}
		misses := 0
		for _, f := range stats.FieldsIn(stats.CategoryMiss) {
			misses += rec[f]
		}
		assert.Equal(t, goals, rec[stats.GolesTotales])
		assert.Equal(t, goals+misses, rec[stats.TirosTotales])
		if rec[stats.TirosTotales] > 0 {
			want := int(math.Floor(float64(goals)/float64(goals+misses)*100 + 0.5))
			assert.Equal(t, want, rec[stats.TirosEficiencia])
		}
	}
}

func TestEfficiency_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, 13, stats.Efficiency(1, 8))
	assert.Equal(t, 33, stats.Efficiency(1, 3))
	assert.Equal(t, 67, stats.Efficiency(2, 3))
	assert.Equal(t, 100, stats.Efficiency(5, 5))
	assert.Equal(t, 0, stats.Efficiency(0, 0))
}

func TestSafeNumber(t *testing.T) {
	assert.Equal(t, 0, stats.SafeNumber(math.NaN()))
	assert.Equal(t, 0, stats.SafeNumber(math.Inf(1)))
	assert.Equal(t, 0, stats.SafeNumber(-3))
	assert.Equal(t, 3, stats.SafeNumber(2.5))
	assert.Equal(t, 7, stats.SafeNumber(7))
}

func TestStore_RejectsInvalidWrites(t *testing.T) {
	store := stats.NewStore()
	store.Create("p1")

	t.Run("derived field", func(t *testing.T) {
		_, err := store.Set("p1", stats.GolesTotales, 9)
		assert.ErrorIs(t, err, stats.ErrDerivedField)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := store.Set("p1", stats.Field("goles_imaginarios"), 1)
		assert.ErrorIs(t, err, stats.ErrUnknownField)
	})

	t.Run("unknown player", func(t *testing.T) {
		_, err := store.Set("p2", stats.GolesRebote, 1)
		assert.ErrorIs(t, err, stats.ErrUnknownPlayer)
	})

	t.Run("negative values clamp to zero", func(t *testing.T) {
		rec, err := store.Set("p1", stats.GolesRebote, -4)
		require.NoError(t, err)
		assert.Equal(t, 0, rec[stats.GolesRebote])
	})
}

func TestStore_HasStatsAndDelete(t *testing.T) {
	store := stats.NewStore()
	store.Create("p1")
	assert.False(t, store.HasStats("p1"))

	_, err := store.Set("p1", "acciones_asistencias", 1)
	require.NoError(t, err)
	assert.True(t, store.HasStats("p1"))

	store.Delete("p1")
	_, ok := store.Get("p1")
	assert.False(t, ok)
	assert.Empty(t, store.IDs())
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := stats.NewStore()
	store.Create("p1")

	rec, _ := store.Get("p1")
	rec[stats.GolesRebote] = 10

	again, _ := store.Get("p1")
	assert.Equal(t, 0, again[stats.GolesRebote])
}

func TestMerge_DefaultsMissingFields(t *testing.T) {
	persisted := map[string]int{
		"goles_boya_jugada": 2,
		"tiros_fuera":       2,
		"columna_retirada":  5,
	}
	rec := stats.Merge(persisted)

	assert.Equal(t, 0, rec[stats.PorteroGolesPropiaMeta], "fields absent from the row default to zero")
	assert.Equal(t, 2, rec[stats.GolesTotales])
	assert.Equal(t, 4, rec[stats.TirosTotales])
	assert.Equal(t, 50, rec[stats.TirosEficiencia])
	assert.Len(t, rec, len(stats.Template()))
}
