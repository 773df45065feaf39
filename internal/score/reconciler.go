package score

import (
	"github.com/mauv0809/polo-stats/internal/stats"
)

// Totals derives the match score from every record of the match. Field
// players contribute their goals, goalkeepers the goals they scored
// themselves; the rival score is inferred from what our goalkeepers conceded.
func Totals(records map[string]stats.Record, isGoalkeeper func(playerID string) bool) Score {
	var s Score
	for id, rec := range records {
		if isGoalkeeper(id) {
			s.Home += rec[stats.PorteroGolAnotado]
			s.Away += stats.RivalGoals(rec)
			continue
		}
		s.Home += rec[stats.GolesTotales]
	}
	return s
}

// Active returns the 1-based number of the lowest quarter still open, or 0
// when every quarter is closed.
func (b Board) Active() int {
	for i, q := range b {
		if !q.Closed {
			return i + 1
		}
	}
	return 0
}

// Reconcile apportions the match total into the active quarter so that the
// quarters add up to it. Closed quarters are left as they are and open
// quarters after the active one are cleared. When all four are closed the
// board is returned unchanged with active quarter 0.
func (b Board) Reconcile(total Score) (Board, int) {
	active := b.Active()
	if active == 0 {
		return b, 0
	}
	// Every quarter below the active one is closed. A quarter above it can
	// only be closed if an earlier one was reopened; it still counts.
	var frozen Score
	for i, q := range b {
		if i == active-1 {
			continue
		}
		if q.Closed {
			frozen.Home += q.Home
			frozen.Away += q.Away
			continue
		}
		b[i].Home, b[i].Away = 0, 0
	}
	b[active-1].Home = total.Home - frozen.Home
	b[active-1].Away = total.Away - frozen.Away
	return b, active
}

// Close freezes quarter q.
func (b Board) Close(q int) (Board, error) {
	if q < 1 || q > Quarters {
		return b, ErrInvalidQuarter
	}
	b[q-1].Closed = true
	return b, nil
}

// Reopen makes quarter q editable again. Its values are kept until the next
// reconciliation.
func (b Board) Reopen(q int) (Board, error) {
	if q < 1 || q > Quarters {
		return b, ErrInvalidQuarter
	}
	b[q-1].Closed = false
	return b, nil
}

// Sum adds up all four quarters.
func (b Board) Sum() Score {
	var s Score
	for _, q := range b {
		s.Home += q.Home
		s.Away += q.Away
	}
	return s
}

// IsTied reports a level score other than 0-0, which needs a shootout.
func (s Score) IsTied() bool {
	return s.Home == s.Away && s.Home != 0
}
