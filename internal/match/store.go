package match

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/polo-stats/internal/shootout"
	"github.com/mauv0809/polo-stats/internal/stats"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a new match Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

const matchColumns = `id, match_date, opponent, location, is_home, season, jornada,
	home_score, away_score,
	q1_home, q1_away, q2_home, q2_away, q3_home, q3_away, q4_home, q4_away,
	q1_sprint_winner, q2_sprint_winner, q3_sprint_winner, q4_sprint_winner,
	penalty_home_score, penalty_away_score, competition_id, max_players, notes,
	processing_status, created_at, updated_at`

// UpsertMatch inserts or updates the match row. A missing id is generated.
// Every save puts the match back into the SAVED processing state so the
// result is announced again.
func (s *store) UpsertMatch(ctx context.Context, m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	m.ProcessingStatus = StatusSaved

	q := m.Quarters
	sw := m.SprintWinners
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (`+matchColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			match_date = excluded.match_date,
			opponent = excluded.opponent,
			location = excluded.location,
			is_home = excluded.is_home,
			season = excluded.season,
			jornada = excluded.jornada,
			home_score = excluded.home_score,
			away_score = excluded.away_score,
			q1_home = excluded.q1_home, q1_away = excluded.q1_away,
			q2_home = excluded.q2_home, q2_away = excluded.q2_away,
			q3_home = excluded.q3_home, q3_away = excluded.q3_away,
			q4_home = excluded.q4_home, q4_away = excluded.q4_away,
			q1_sprint_winner = excluded.q1_sprint_winner,
			q2_sprint_winner = excluded.q2_sprint_winner,
			q3_sprint_winner = excluded.q3_sprint_winner,
			q4_sprint_winner = excluded.q4_sprint_winner,
			penalty_home_score = excluded.penalty_home_score,
			penalty_away_score = excluded.penalty_away_score,
			competition_id = excluded.competition_id,
			max_players = excluded.max_players,
			notes = excluded.notes,
			processing_status = excluded.processing_status,
			updated_at = excluded.updated_at`,
		m.ID, m.Date, m.Opponent, nullString(m.Location), m.IsHome, nullString(m.Season), m.Matchday,
		m.HomeScore, m.AwayScore,
		nullInt(q[0].Home), nullInt(q[0].Away), nullInt(q[1].Home), nullInt(q[1].Away),
		nullInt(q[2].Home), nullInt(q[2].Away), nullInt(q[3].Home), nullInt(q[3].Away),
		nullString(sw[0]), nullString(sw[1]), nullString(sw[2]), nullString(sw[3]),
		nullInt(m.PenaltyHome), nullInt(m.PenaltyAway), nullString(m.CompetitionID), m.MaxPlayers, nullString(m.Notes),
		string(m.ProcessingStatus), m.CreatedAt.Unix(), m.UpdatedAt.Unix(),
	)
	if err != nil {
		log.Error("Failed to upsert match", "error", err, "matchID", m.ID)
		return fmt.Errorf("failed to upsert match %s: %w", m.ID, err)
	}
	log.Info("Stored match", "matchID", m.ID, "opponent", m.Opponent, "home", m.HomeScore, "away", m.AwayScore)
	return nil
}

// GetMatch returns a single match or ErrMatchNotFound.
func (s *store) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+matchColumns+" FROM matches WHERE id = ?", matchID)
	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return m, nil
}

// ListMatches returns every match, most recent first.
func (s *store) ListMatches(ctx context.Context) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+matchColumns+" FROM matches ORDER BY match_date DESC, created_at DESC")
	if err != nil {
		log.Error("Failed to query matches", "error", err)
		return nil, err
	}
	defer rows.Close()

	matches := []Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}

func (s *store) DeleteStats(ctx context.Context, matchID string) error {
	return s.deleteFor(ctx, "match_stats", matchID)
}

// InsertStats stores the counter sets. The full set is kept as a msgpack
// blob so new counters never need a migration; the totals are duplicated
// into plain columns for the read side.
func (s *store) InsertStats(ctx context.Context, rows []StatRow) error {
	if len(rows) == 0 {
		return nil
	}
	return s.insertBatch(ctx, "match stats", `
		INSERT INTO match_stats (match_id, player_id, goles_totales, tiros_totales, tiros_eficiencia,
			portero_paradas_totales, portero_goles_totales, counters_blob)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		len(rows), func(stmt *sql.Stmt, i int) error {
			r := rows[i]
			blob, err := msgpack.Marshal(r.Counters)
			if err != nil {
				return fmt.Errorf("failed to encode counters for player %s: %w", r.PlayerID, err)
			}
			_, err = stmt.ExecContext(ctx, r.MatchID, r.PlayerID,
				r.Counters[string(stats.GolesTotales)],
				r.Counters[string(stats.TirosTotales)],
				r.Counters[string(stats.TirosEficiencia)],
				r.Counters[string(stats.PorteroParadasTotales)],
				r.Counters[string(stats.PorteroGolesTotales)],
				blob,
			)
			return err
		})
}

func (s *store) GetStats(ctx context.Context, matchID string) ([]StatRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT match_id, player_id, counters_blob FROM match_stats WHERE match_id = ? ORDER BY player_id", matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query match stats: %w", err)
	}
	defer rows.Close()

	out := []StatRow{}
	for rows.Next() {
		var r StatRow
		var blob []byte
		if err := rows.Scan(&r.MatchID, &r.PlayerID, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan match stats row: %w", err)
		}
		if err := msgpack.Unmarshal(blob, &r.Counters); err != nil {
			return nil, fmt.Errorf("failed to decode counters for player %s: %w", r.PlayerID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *store) DeletePenalties(ctx context.Context, matchID string) error {
	return s.deleteFor(ctx, "penalty_shootout_players", matchID)
}

func (s *store) InsertPenalties(ctx context.Context, attempts []shootout.Attempt) error {
	if len(attempts) == 0 {
		return nil
	}
	return s.insertBatch(ctx, "penalties", `
		INSERT INTO penalty_shootout_players (match_id, player_id, shot_order, scored, result_type, goalkeeper_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		len(attempts), func(stmt *sql.Stmt, i int) error {
			a := attempts[i]
			_, err := stmt.ExecContext(ctx, a.MatchID, nullString(a.PlayerID), a.ShotOrder, a.Scored,
				string(a.ResultType), nullString(a.GoalkeeperID))
			return err
		})
}

func (s *store) GetPenalties(ctx context.Context, matchID string) ([]shootout.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT match_id, player_id, shot_order, scored, result_type, goalkeeper_id
		FROM penalty_shootout_players WHERE match_id = ? ORDER BY shot_order`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query penalties: %w", err)
	}
	defer rows.Close()

	out := []shootout.Attempt{}
	for rows.Next() {
		var a shootout.Attempt
		var playerID, keeperID sql.NullString
		var result string
		if err := rows.Scan(&a.MatchID, &playerID, &a.ShotOrder, &a.Scored, &result, &keeperID); err != nil {
			return nil, fmt.Errorf("failed to scan penalty row: %w", err)
		}
		a.PlayerID = playerID.String
		a.GoalkeeperID = keeperID.String
		a.ResultType = shootout.Result(result)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *store) DeleteKeeperShots(ctx context.Context, matchID string) error {
	return s.deleteFor(ctx, "goalkeeper_shots", matchID)
}

func (s *store) InsertKeeperShots(ctx context.Context, shots []KeeperShot) error {
	if len(shots) == 0 {
		return nil
	}
	return s.insertBatch(ctx, "goalkeeper shots", `
		INSERT INTO goalkeeper_shots (match_id, goalkeeper_id, shot_index, result, x, y)
		VALUES (?, ?, ?, ?, ?, ?)`,
		len(shots), func(stmt *sql.Stmt, i int) error {
			sh := shots[i]
			_, err := stmt.ExecContext(ctx, sh.MatchID, sh.GoalkeeperID, sh.ShotIndex, string(sh.Result), sh.X, sh.Y)
			return err
		})
}

func (s *store) GetKeeperShots(ctx context.Context, matchID string) ([]KeeperShot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT match_id, goalkeeper_id, shot_index, result, x, y
		FROM goalkeeper_shots WHERE match_id = ? ORDER BY goalkeeper_id, shot_index`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goalkeeper shots: %w", err)
	}
	defer rows.Close()

	out := []KeeperShot{}
	for rows.Next() {
		var sh KeeperShot
		var result string
		if err := rows.Scan(&sh.MatchID, &sh.GoalkeeperID, &sh.ShotIndex, &result, &sh.X, &sh.Y); err != nil {
			return nil, fmt.Errorf("failed to scan goalkeeper shot row: %w", err)
		}
		sh.Result = ShotResult(result)
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *store) GetMatchesForProcessing() ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT "+matchColumns+" FROM matches WHERE processing_status != ? ORDER BY updated_at", string(StatusCompleted))
	if err != nil {
		log.Error("Failed to query matches for processing", "error", err)
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match for processing", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *store) UpdateProcessingStatus(matchID string, status ProcessingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE matches SET processing_status = ? WHERE id = ?", string(status), matchID)
	if err != nil {
		log.Error("Failed to update processing status", "error", err, "matchID", matchID, "status", status)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	log.Debug("Updated processing status", "matchID", matchID, "status", status)
	return nil
}

func (s *store) deleteFor(ctx context.Context, table, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE match_id = ?", matchID)
	if err != nil {
		return fmt.Errorf("failed to delete %s for match %s: %w", table, matchID, err)
	}
	n, _ := res.RowsAffected()
	log.Debug("Deleted dependent rows", "table", table, "matchID", matchID, "rows", n)
	return nil
}

// insertBatch runs one prepared statement per row inside a transaction.
func (s *store) insertBatch(ctx context.Context, what, query string, n int, exec func(stmt *sql.Stmt, i int) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert %s: %w", what, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug("Inserted rows", "what", what, "count", n)
	return nil
}

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var (
		m                       Match
		location, season, notes sql.NullString
		competition             sql.NullString
		quarters                [8]sql.NullInt64
		sprints                 [4]sql.NullString
		penHome, penAway        sql.NullInt64
		status                  string
		createdAt, updatedAt    int64
	)
	err := scanner.Scan(
		&m.ID, &m.Date, &m.Opponent, &location, &m.IsHome, &season, &m.Matchday,
		&m.HomeScore, &m.AwayScore,
		&quarters[0], &quarters[1], &quarters[2], &quarters[3],
		&quarters[4], &quarters[5], &quarters[6], &quarters[7],
		&sprints[0], &sprints[1], &sprints[2], &sprints[3],
		&penHome, &penAway, &competition, &m.MaxPlayers, &notes,
		&status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Location = location.String
	m.Season = season.String
	m.Notes = notes.String
	m.CompetitionID = competition.String
	for i := range m.Quarters {
		m.Quarters[i] = QuarterScore{Home: intPtr(quarters[2*i]), Away: intPtr(quarters[2*i+1])}
		m.SprintWinners[i] = sprints[i].String
	}
	m.PenaltyHome = intPtr(penHome)
	m.PenaltyAway = intPtr(penAway)
	m.ProcessingStatus = ProcessingStatus(status)
	m.CreatedAt = time.Unix(createdAt, 0)
	m.UpdatedAt = time.Unix(updatedAt, 0)
	return &m, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
