package session

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/score"
	"github.com/mauv0809/polo-stats/internal/shootout"
	"github.com/mauv0809/polo-stats/internal/stats"
	"golang.org/x/sync/errgroup"
)

// Load rebuilds an edit session from a saved match. Each stored counter set
// is laid over a fresh template, so counters added since the match was saved
// start at zero.
func Load(ctx context.Context, store match.Store, players PlayerSource, matchID string, maxField int) (*Session, error) {
	m, err := store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	var (
		rows     []match.StatRow
		attempts []shootout.Attempt
		shots    []match.KeeperShot
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if rows, err = store.GetStats(gCtx, matchID); err != nil {
			return fmt.Errorf("failed to load stats for match %s: %w", matchID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if attempts, err = store.GetPenalties(gCtx, matchID); err != nil {
			return fmt.Errorf("failed to load penalties for match %s: %w", matchID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if shots, err = store.GetKeeperShots(gCtx, matchID); err != nil {
			return fmt.Errorf("failed to load goalkeeper shots for match %s: %w", matchID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.PlayerID
	}
	squad, err := players.GetPlayers(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load players for match %s: %w", matchID, err)
	}
	known := make(map[string]club.PlayerInfo, len(squad))
	for _, p := range squad {
		known[p.ID] = p
	}

	if m.MaxPlayers > 0 {
		maxField = m.MaxPlayers
	}
	s := New(maxField)
	s.matchID = m.ID
	s.info = Info{
		Date:          m.Date,
		Opponent:      m.Opponent,
		Location:      m.Location,
		IsHome:        m.IsHome,
		Season:        m.Season,
		Matchday:      m.Matchday,
		CompetitionID: m.CompetitionID,
		Notes:         m.Notes,
	}

	for _, r := range rows {
		rec := stats.Merge(r.Counters)
		p, ok := known[r.PlayerID]
		if !ok {
			p = club.PlayerInfo{ID: r.PlayerID, Name: r.PlayerID, IsGoalkeeper: looksLikeGoalkeeper(rec)}
			log.Warn("Player of saved match is no longer in the squad", "matchID", matchID, "playerID", r.PlayerID)
		}
		s.roster.Restore(p)
		s.records.Put(p.ID, rec)
	}

	s.board = boardFrom(m.Quarters)
	s.sprints = m.SprintWinners
	s.penaltyHome = m.PenaltyHome
	s.penaltyAway = m.PenaltyAway
	s.shootout = shootout.FromAttempts(attempts)
	s.unfoldShootoutSaves()

	for _, sh := range shots {
		s.shots[sh.GoalkeeperID] = append(s.shots[sh.GoalkeeperID], sh)
	}

	s.reconcile()
	log.Info("Match loaded for editing", "sessionID", s.id, "matchID", matchID, "players", len(rows), "penalties", len(attempts), "shots", len(shots))
	return s, nil
}

// unfoldShootoutSaves takes the shootout saves added at save time back out
// of the goalkeepers' records, so saving again does not count them twice.
func (s *Session) unfoldShootoutSaves() {
	for gk, n := range s.shootout.SavedByKeeper() {
		rec, ok := s.records.Get(gk)
		if !ok {
			continue
		}
		v := rec[stats.PorteroParadasPenaltiParado] - n
		if v < 0 {
			v = 0
		}
		if _, err := s.records.Set(gk, stats.PorteroParadasPenaltiParado, v); err != nil {
			log.Error("Failed to restore goalkeeper penalty saves", "playerID", gk, "error", err)
		}
	}
}

// boardFrom infers the closed quarters of a saved match: a quarter was closed
// when both of its scores are present.
func boardFrom(quarters [score.Quarters]match.QuarterScore) score.Board {
	var b score.Board
	for i, q := range quarters {
		if q.Home != nil && q.Away != nil {
			b[i] = score.Quarter{Home: *q.Home, Away: *q.Away, Closed: true}
		}
	}
	return b
}

func looksLikeGoalkeeper(rec stats.Record) bool {
	return rec[stats.PorteroParadasTotales] > 0 || rec[stats.PorteroGolesTotales] > 0 || rec[stats.PorteroGolAnotado] > 0
}
