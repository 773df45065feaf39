package notifier

import (
	"sort"

	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/stats"
)

// Summarize builds the announcement for a match from its stored rows.
// Players missing from the squad are shown by id.
func Summarize(m *match.Match, rows []match.StatRow, players []club.PlayerInfo) *MatchSummary {
	byID := make(map[string]club.PlayerInfo, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	summary := &MatchSummary{Match: m}
	for _, r := range rows {
		p, ok := byID[r.PlayerID]
		if !ok {
			p = club.PlayerInfo{ID: r.PlayerID, Name: r.PlayerID}
		}
		if p.IsGoalkeeper {
			summary.Keepers = append(summary.Keepers, KeeperLine{
				Name:         p.Name,
				Number:       p.Number,
				Saves:        r.Counters[string(stats.PorteroParadasTotales)],
				GoalsAgainst: r.Counters[string(stats.PorteroGolesTotales)],
			})
			if g := r.Counters[string(stats.PorteroGolAnotado)]; g > 0 {
				summary.Scorers = append(summary.Scorers, Scorer{Name: p.Name, Number: p.Number, Goals: g, Shots: g})
			}
			continue
		}
		if g := r.Counters[string(stats.GolesTotales)]; g > 0 {
			summary.Scorers = append(summary.Scorers, Scorer{
				Name:   p.Name,
				Number: p.Number,
				Goals:  g,
				Shots:  r.Counters[string(stats.TirosTotales)],
			})
		}
	}

	sort.SliceStable(summary.Scorers, func(i, j int) bool {
		if summary.Scorers[i].Goals != summary.Scorers[j].Goals {
			return summary.Scorers[i].Goals > summary.Scorers[j].Goals
		}
		return summary.Scorers[i].Number < summary.Scorers[j].Number
	})
	sort.SliceStable(summary.Keepers, func(i, j int) bool { return summary.Keepers[i].Number < summary.Keepers[j].Number })
	return summary
}
