package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/roster"
	"github.com/mauv0809/polo-stats/internal/score"
	"github.com/mauv0809/polo-stats/internal/shootout"
	"github.com/mauv0809/polo-stats/internal/stats"
)

// New starts an empty session for a match that has not been saved yet.
func New(maxField int) *Session {
	records := stats.NewStore()
	return &Session{
		id:       uuid.NewString(),
		records:  records,
		roster:   roster.New(records, maxField),
		active:   1,
		shootout: shootout.New(),
		shots:    make(map[string][]match.KeeperShot),
	}
}

// ID is the session id handed to clients.
func (s *Session) ID() string { return s.id }

// MatchID is the persisted match id, empty until the first save.
func (s *Session) MatchID() string { return s.matchID }

// Score is the current match score derived from all records.
func (s *Session) Score() score.Score { return s.total }

// SetField writes one counter of a called-up player. The value goes through
// the safe number policy and the score is reconciled afterwards.
func (s *Session) SetField(playerID, name string, value float64) (stats.Record, error) {
	f, ok := stats.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", stats.ErrUnknownField, name)
	}
	if !s.roster.Contains(playerID) {
		return nil, fmt.Errorf("%w: %s", stats.ErrUnknownPlayer, playerID)
	}
	rec, err := s.records.Set(playerID, f, stats.SafeNumber(value))
	if err != nil {
		return nil, err
	}
	s.reconcile()
	return rec, nil
}

// AddPlayer calls up a squad member.
func (s *Session) AddPlayer(p club.PlayerInfo) error {
	if err := s.roster.Add(p); err != nil {
		return err
	}
	s.reconcile()
	return nil
}

// RemovePlayer drops an all-zero player and every reference to them.
func (s *Session) RemovePlayer(playerID string) error {
	if err := s.roster.Remove(playerID); err != nil {
		return err
	}
	s.forget(playerID)
	s.reconcile()
	return nil
}

// Substitute swaps outID for in. The incoming player starts from zero.
func (s *Session) Substitute(outID string, in club.PlayerInfo) error {
	if err := s.roster.Substitute(outID, in); err != nil {
		return err
	}
	s.forget(outID)
	s.reconcile()
	return nil
}

// CloseQuarter freezes quarter q with its current score.
func (s *Session) CloseQuarter(q int) error {
	board, err := s.board.Close(q)
	if err != nil {
		return err
	}
	s.board = board
	s.reconcile()
	log.Debug("Quarter closed", "sessionID", s.id, "quarter", q, "home", board[q-1].Home, "away", board[q-1].Away)
	return nil
}

func (s *Session) ReopenQuarter(q int) error {
	board, err := s.board.Reopen(q)
	if err != nil {
		return err
	}
	s.board = board
	s.reconcile()
	return nil
}

// SetSprintWinner records who won the opening sprint of quarter q. An empty
// id clears it.
func (s *Session) SetSprintWinner(q int, playerID string) error {
	if q < 1 || q > score.Quarters {
		return score.ErrInvalidQuarter
	}
	if playerID != "" && !s.roster.Contains(playerID) {
		return fmt.Errorf("%w: %s", roster.ErrNotCalledUp, playerID)
	}
	s.sprints[q-1] = playerID
	return nil
}

func (s *Session) AddShooter(playerID string, scored bool) error {
	if !s.roster.Contains(playerID) {
		return fmt.Errorf("%w: %s", roster.ErrNotCalledUp, playerID)
	}
	return s.shootout.AddShooter(playerID, scored)
}

func (s *Session) SetShooter(i int, playerID string, scored bool) error {
	if !s.roster.Contains(playerID) {
		return fmt.Errorf("%w: %s", roster.ErrNotCalledUp, playerID)
	}
	return s.shootout.SetShooter(i, playerID, scored)
}

func (s *Session) RemoveShooter(i int) error {
	return s.shootout.RemoveShooter(i)
}

// AddRival records a rival penalty. keeperID credits a save to one of our
// goalkeepers.
func (s *Session) AddRival(result shootout.Result, keeperID string) (string, error) {
	if err := s.checkKeeper(keeperID); err != nil {
		return "", err
	}
	return s.shootout.AddRival(result, keeperID)
}

func (s *Session) SetRival(id string, result shootout.Result, keeperID string) error {
	if err := s.checkKeeper(keeperID); err != nil {
		return err
	}
	return s.shootout.SetRival(id, result, keeperID)
}

func (s *Session) RemoveRival(id string) error {
	return s.shootout.RemoveRival(id)
}

// SetPenaltyScores records the shootout result. Nil clears a side.
func (s *Session) SetPenaltyScores(home, away *int) {
	s.penaltyHome = nonNegative(home)
	s.penaltyAway = nonNegative(away)
}

// AddKeeperShot appends a located shot to a goalkeeper's chart.
func (s *Session) AddKeeperShot(goalkeeperID string, result match.ShotResult, x, y float64) (match.KeeperShot, error) {
	if !s.roster.Contains(goalkeeperID) || !s.roster.IsGoalkeeper(goalkeeperID) {
		return match.KeeperShot{}, fmt.Errorf("%w: %s", ErrNotGoalkeeper, goalkeeperID)
	}
	if !result.Valid() || x < 0 || x > 1 || y < 0 || y > 1 {
		return match.KeeperShot{}, ErrInvalidShot
	}
	shot := match.KeeperShot{
		MatchID:      s.matchID,
		GoalkeeperID: goalkeeperID,
		ShotIndex:    len(s.shots[goalkeeperID]),
		Result:       result,
		X:            x,
		Y:            y,
	}
	s.shots[goalkeeperID] = append(s.shots[goalkeeperID], shot)
	return shot, nil
}

// RemoveKeeperShot deletes shot i of a goalkeeper and renumbers the rest.
func (s *Session) RemoveKeeperShot(goalkeeperID string, i int) error {
	list := s.shots[goalkeeperID]
	if i < 0 || i >= len(list) {
		return fmt.Errorf("%w: %s #%d", ErrShotNotFound, goalkeeperID, i)
	}
	list = append(list[:i], list[i+1:]...)
	for j := range list {
		list[j].ShotIndex = j
	}
	s.shots[goalkeeperID] = list
	return nil
}

func (s *Session) ClearKeeperShots(goalkeeperID string) {
	delete(s.shots, goalkeeperID)
}

// SetInfo replaces the match metadata.
func (s *Session) SetInfo(info Info) {
	info.Opponent = strings.TrimSpace(info.Opponent)
	s.info = info
}

// Validate returns a ValidationError when the match cannot be saved as is.
func (s *Session) Validate() error {
	if strings.TrimSpace(s.info.Opponent) == "" {
		return &ValidationError{Err: ErrOpponentRequired}
	}
	if err := s.shootout.Validate(s.total, s.penaltyHome, s.penaltyAway); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// HasStats reports whether a called-up player has any recorded counter.
func (s *Session) HasStats(playerID string) bool {
	return s.records.HasStats(playerID)
}

// View returns a snapshot of the session for clients.
func (s *Session) View() View {
	players := s.roster.Players()
	v := View{
		SessionID:       s.id,
		MatchID:         s.matchID,
		Info:            s.info,
		Players:         make([]PlayerView, 0, len(players)),
		MaxFieldPlayers: s.roster.MaxField(),
		Score:           s.total,
		Quarters:        s.board,
		ActiveQuarter:   s.active,
		SprintWinners:   s.sprints,
		NeedsShootout:   s.total.IsTied(),
		Shooters:        s.shootout.Shooters(),
		Rivals:          s.shootout.Rivals(),
		PenaltyHome:     s.penaltyHome,
		PenaltyAway:     s.penaltyAway,
		KeeperShots:     make(map[string][]match.KeeperShot, len(s.shots)),
	}
	for _, p := range players {
		rec, _ := s.records.Get(p.ID)
		v.Players = append(v.Players, PlayerView{PlayerInfo: p, Stats: rec.Wire()})
	}
	for gk, list := range s.shots {
		v.KeeperShots[gk] = append([]match.KeeperShot{}, list...)
	}
	return v
}

// reconcile recomputes the score from the whole store and apportions it into
// the active quarter. It runs after every mutation that can change a record.
func (s *Session) reconcile() {
	s.total = score.Totals(s.records.Snapshot(), s.roster.IsGoalkeeper)
	s.board, s.active = s.board.Reconcile(s.total)
	if s.active == 0 {
		log.Debug("All quarters closed, score not apportioned", "sessionID", s.id, "home", s.total.Home, "away", s.total.Away)
	}
}

// forget drops references to a player who left the roster.
func (s *Session) forget(playerID string) {
	s.shootout.Forget(playerID)
	delete(s.shots, playerID)
	for i, id := range s.sprints {
		if id == playerID {
			s.sprints[i] = ""
		}
	}
}

func (s *Session) checkKeeper(keeperID string) error {
	if keeperID == "" {
		return nil
	}
	if !s.roster.Contains(keeperID) || !s.roster.IsGoalkeeper(keeperID) {
		return fmt.Errorf("%w: %s", ErrNotGoalkeeper, keeperID)
	}
	return nil
}

func nonNegative(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	if n < 0 {
		n = 0
	}
	return &n
}
