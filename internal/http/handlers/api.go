package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/metrics"
	"github.com/mauv0809/polo-stats/internal/shootout"
)

func ListPlayersHandler(store club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := store.GetAllPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		writeJSON(w, http.StatusOK, players)
	}
}

func ListMatchesHandler(store match.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := store.ListMatches(r.Context())
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

// matchDetail is a saved match with every dependent row.
type matchDetail struct {
	*match.Match
	Stats       []match.StatRow    `json:"stats"`
	Penalties   []shootout.Attempt `json:"penalties"`
	KeeperShots []match.KeeperShot `json:"keeper_shots"`
}

func GetMatchHandler(store match.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := r.PathValue("id")
		m, err := store.GetMatch(ctx, id)
		if err != nil {
			writeError(w, err)
			return
		}
		rows, err := store.GetStats(ctx, id)
		if err != nil {
			writeError(w, err)
			return
		}
		penalties, err := store.GetPenalties(ctx, id)
		if err != nil {
			writeError(w, err)
			return
		}
		shots, err := store.GetKeeperShots(ctx, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matchDetail{Match: m, Stats: rows, Penalties: penalties, KeeperShots: shots})
	}
}

func UsageHandler(counters metrics.CounterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		usage, err := counters.GetAll()
		if err != nil {
			http.Error(w, "Failed to get usage counters", http.StatusInternalServerError)
			log.Error("Failed to get usage counters", "error", err)
			return
		}
		writeJSON(w, http.StatusOK, usage)
	}
}
