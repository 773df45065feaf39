package session

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/shootout"
	"github.com/mauv0809/polo-stats/internal/stats"
)

// Save validates the session and writes it as one sequence: match upsert,
// then every dependent table replaced. Calls run one after the other and a
// failure stops the sequence without rolling back what was already written.
func (s *Session) Save(ctx context.Context, store match.Store) (*match.Match, error) {
	if err := s.Validate(); err != nil {
		log.Warn("Match rejected", "sessionID", s.id, "reason", err)
		return nil, err
	}

	isUpdate := s.matchID != ""
	m := s.matchRow()
	tied := s.total.IsTied()

	if err := store.UpsertMatch(ctx, m); err != nil {
		return nil, s.saveFailed("upsert match", err)
	}
	// A retry after a partial failure must update this match, not create
	// another one.
	matchID := m.ID
	s.matchID = matchID

	if err := store.DeleteStats(ctx, matchID); err != nil {
		return nil, s.saveFailed("delete stats", err)
	}
	if err := store.InsertStats(ctx, s.statRows(matchID, tied)); err != nil {
		return nil, s.saveFailed("insert stats", err)
	}

	if err := store.DeletePenalties(ctx, matchID); err != nil {
		return nil, s.saveFailed("delete penalties", err)
	}
	if tied {
		if err := store.InsertPenalties(ctx, s.shootout.Build(matchID)); err != nil {
			return nil, s.saveFailed("insert penalties", err)
		}
	}

	shots := s.keeperShots(matchID)
	if isUpdate && len(shots) == 0 {
		log.Warn("No goalkeeper shots in session, keeping stored shots", "matchID", matchID)
	} else {
		if err := store.DeleteKeeperShots(ctx, matchID); err != nil {
			return nil, s.saveFailed("delete goalkeeper shots", err)
		}
		if err := store.InsertKeeperShots(ctx, shots); err != nil {
			return nil, s.saveFailed("insert goalkeeper shots", err)
		}
	}

	log.Info("Match saved", "sessionID", s.id, "matchID", matchID, "update", isUpdate, "home", s.total.Home, "away", s.total.Away)
	return m, nil
}

func (s *Session) saveFailed(step string, err error) error {
	log.Error("Failed to save match", "sessionID", s.id, "matchID", s.matchID, "step", step, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrSaveFailed, step, err)
}

// matchRow builds the matches row. Only closed quarters are stored; open
// ones are recomputed from the records when the match is loaded again.
func (s *Session) matchRow() *match.Match {
	m := &match.Match{
		ID:            s.matchID,
		Date:          s.info.Date,
		Opponent:      s.info.Opponent,
		Location:      s.info.Location,
		IsHome:        s.info.IsHome,
		Season:        s.info.Season,
		Matchday:      s.info.Matchday,
		HomeScore:     s.total.Home,
		AwayScore:     s.total.Away,
		SprintWinners: s.sprints,
		CompetitionID: s.info.CompetitionID,
		MaxPlayers:    s.roster.MaxField(),
		Notes:         s.info.Notes,
	}
	for i, q := range s.board {
		if !q.Closed {
			continue
		}
		home, away := q.Home, q.Away
		m.Quarters[i] = match.QuarterScore{Home: &home, Away: &away}
	}
	if s.total.IsTied() {
		m.PenaltyHome = s.penaltyHome
		m.PenaltyAway = s.penaltyAway
	}
	return m
}

// statRows renders every record for persistence. Rival penalties saved in a
// shootout are added to the goalkeeper's penalty saves on the way out; the
// session keeps match-play saves only.
func (s *Session) statRows(matchID string, tied bool) []match.StatRow {
	records := s.records.Snapshot()
	if tied {
		foldShootoutSaves(records, s.shootout)
	}
	rows := make([]match.StatRow, 0, len(records))
	for _, p := range s.roster.Players() {
		rec, ok := records[p.ID]
		if !ok {
			continue
		}
		rows = append(rows, match.StatRow{MatchID: matchID, PlayerID: p.ID, Counters: rec.Wire()})
	}
	return rows
}

func foldShootoutSaves(records map[string]stats.Record, so *shootout.Shootout) {
	for gk, n := range so.SavedByKeeper() {
		rec, ok := records[gk]
		if !ok {
			continue
		}
		rec[stats.PorteroParadasPenaltiParado] += n
		records[gk] = stats.Derive(rec)
	}
}

func (s *Session) keeperShots(matchID string) []match.KeeperShot {
	keepers := make([]string, 0, len(s.shots))
	for gk := range s.shots {
		keepers = append(keepers, gk)
	}
	sort.Strings(keepers)

	var out []match.KeeperShot
	for _, gk := range keepers {
		for _, sh := range s.shots[gk] {
			sh.MatchID = matchID
			out = append(out, sh)
		}
	}
	return out
}
