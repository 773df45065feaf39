package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/database"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/roster"
	"github.com/mauv0809/polo-stats/internal/session"
	"github.com/mauv0809/polo-stats/internal/stats"
	"github.com/spf13/cobra"
)

var (
	squadFile  string
	numMatches int
)

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "Seed the squad and, optionally, demo matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return seed(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&squadFile, "squad", "", "JSON file with the squad (list of players); a demo squad is used when empty")
	rootCmd.Flags().IntVar(&numMatches, "matches", 0, "Number of demo matches to record")
}

func seed(ctx context.Context) error {
	log.Info("Starting database seeder...")
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "polo.db"
	}

	db, teardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer teardown()

	squad, err := loadSquad()
	if err != nil {
		return err
	}
	players := club.New(db)
	if err := players.UpsertPlayers(squad); err != nil {
		return fmt.Errorf("failed to upsert squad: %w", err)
	}
	log.Info("Squad seeded", "players", len(squad))

	if numMatches <= 0 {
		return nil
	}
	matches := match.New(db)
	startTime := time.Now()
	for i := 0; i < numMatches; i++ {
		m, err := demoMatch(ctx, matches, squad, i)
		if err != nil {
			return fmt.Errorf("failed to seed match %d: %w", i+1, err)
		}
		log.Info("Seeded match", "matchID", m.ID, "opponent", m.Opponent, "home", m.HomeScore, "away", m.AwayScore)
	}
	log.Info("Successfully inserted all demo matches.", "total", numMatches, "duration", time.Since(startTime))
	return nil
}

func loadSquad() ([]club.PlayerInfo, error) {
	if squadFile == "" {
		return demoSquad(), nil
	}
	raw, err := os.ReadFile(squadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read squad file: %w", err)
	}
	var squad []club.PlayerInfo
	if err := json.Unmarshal(raw, &squad); err != nil {
		return nil, fmt.Errorf("failed to parse squad file: %w", err)
	}
	for i := range squad {
		if squad[i].ID == "" {
			squad[i].ID = uuid.NewString()
		}
	}
	return squad, nil
}

// demoSquad is two goalkeepers and a full bench of field players.
func demoSquad() []club.PlayerInfo {
	squad := []club.PlayerInfo{
		{ID: uuid.NewString(), Number: 1, Name: "Seeder Keeper A", IsGoalkeeper: true},
		{ID: uuid.NewString(), Number: 14, Name: "Seeder Keeper B", IsGoalkeeper: true},
	}
	for n := 2; n <= roster.DefaultMaxFieldPlayers+1; n++ {
		squad = append(squad, club.PlayerInfo{ID: uuid.NewString(), Number: n, Name: fmt.Sprintf("Seeder Player %d", n)})
	}
	return squad
}

var demoOpponents = []string{"CN Barcelona", "CN Sabadell", "CN Terrassa", "CN Mataró", "CN Atlètic-Barceloneta"}

// demoMatch records a match through an edit session, the same way the HTTP
// API does.
func demoMatch(ctx context.Context, store match.Store, squad []club.PlayerInfo, i int) (*match.Match, error) {
	s := session.New(roster.DefaultMaxFieldPlayers)
	s.SetInfo(session.Info{
		Date:     time.Now().AddDate(0, 0, -7*(i+1)).Format("2006-01-02"),
		Opponent: demoOpponents[i%len(demoOpponents)],
		IsHome:   i%2 == 0,
		Matchday: i + 1,
	})

	var (
		field  []string
		keeper string
	)
	for _, p := range squad {
		if err := s.AddPlayer(p); err != nil {
			// The bench is full; skip the extra field players.
			continue
		}
		switch {
		case !p.IsGoalkeeper:
			field = append(field, p.ID)
		case keeper == "":
			keeper = p.ID
		}
	}
	if len(field) == 0 || keeper == "" {
		return nil, fmt.Errorf("squad needs at least one goalkeeper and one field player")
	}

	goals := []stats.Field{stats.GolesBoyaJugada, stats.GolesHombreMas, stats.GolesLanzamiento, stats.GolesContraataque}
	misses := []stats.Field{stats.TirosFuera, stats.TirosParados, stats.TirosBloqueado, stats.TirosPalo}
	for q := 1; q <= 4; q++ {
		for _, id := range field {
			if rand.Intn(3) == 0 {
				if err := add(s, id, goals[rand.Intn(len(goals))]); err != nil {
					return nil, err
				}
			}
			if rand.Intn(2) == 0 {
				if err := add(s, id, misses[rand.Intn(len(misses))]); err != nil {
					return nil, err
				}
			}
		}
		for n := rand.Intn(4); n > 0; n-- {
			if err := add(s, keeper, stats.PorteroGolesBoya); err != nil {
				return nil, err
			}
		}
		for n := rand.Intn(5); n > 0; n-- {
			if err := add(s, keeper, stats.PorteroParadasFuera); err != nil {
				return nil, err
			}
		}
		if err := s.CloseQuarter(q); err != nil {
			return nil, err
		}
	}

	// Demo matches never go to penalties.
	if s.Score().IsTied() {
		if err := s.ReopenQuarter(4); err != nil {
			return nil, err
		}
		if err := add(s, field[0], stats.GolesBoyaJugada); err != nil {
			return nil, err
		}
		if err := s.CloseQuarter(4); err != nil {
			return nil, err
		}
	}
	return s.Save(ctx, store)
}

// add increments one counter of a player.
func add(s *session.Session, playerID string, f stats.Field) error {
	current := s.View()
	for _, p := range current.Players {
		if p.ID == playerID {
			_, err := s.SetField(playerID, string(f), float64(p.Stats[string(f)]+1))
			return err
		}
	}
	return fmt.Errorf("player %s is not called up", playerID)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Seeder failed: %s", err)
	}
}
