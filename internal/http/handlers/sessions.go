package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/metrics"
	"github.com/mauv0809/polo-stats/internal/session"
	"github.com/mauv0809/polo-stats/internal/shootout"
)

// mutate runs fn on the session named in the path and answers with the
// resulting view.
func mutate(w http.ResponseWriter, r *http.Request, sessions *session.Manager, fn func(s *session.Session) error) {
	var view session.View
	err := sessions.Do(r.PathValue("id"), func(s *session.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		view = s.View()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func CreateSessionHandler(sessions *session.Manager, metrics metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var info session.Info
		if r.ContentLength > 0 && !decodeBody(w, r, &info) {
			return
		}
		s := session.New(sessions.MaxField())
		s.SetInfo(info)
		sessions.Add(s)
		metrics.IncSessionsOpened()
		writeJSON(w, http.StatusCreated, s.View())
	}
}

func LoadSessionHandler(sessions *session.Manager, store match.Store, players club.ClubStore, metrics metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "matchID is required"})
			return
		}
		s, err := session.Load(r.Context(), store, players, matchID, sessions.MaxField())
		if err != nil {
			writeError(w, err)
			return
		}
		sessions.Add(s)
		metrics.IncSessionsOpened()
		writeJSON(w, http.StatusCreated, s.View())
	}
}

func GetSessionHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mutate(w, r, sessions, func(*session.Session) error { return nil })
	}
}

func CloseSessionHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Close(r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type statRequest struct {
	PlayerID string  `json:"player_id"`
	Field    string  `json:"field"`
	Value    float64 `json:"value"`
}

func SetStatHandler(sessions *session.Manager, metrics metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statRequest
		if !decodeBody(w, r, &req) {
			return
		}
		mutate(w, r, sessions, func(s *session.Session) error {
			if _, err := s.SetField(req.PlayerID, req.Field, req.Value); err != nil {
				return err
			}
			metrics.IncStatEdits()
			return nil
		})
	}
}

type rosterRequest struct {
	PlayerID string `json:"player_id"`
}

func AddRosterPlayerHandler(sessions *session.Manager, players club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rosterRequest
		if !decodeBody(w, r, &req) {
			return
		}
		p, err := players.GetPlayer(req.PlayerID)
		if err != nil {
			writeError(w, err)
			return
		}
		mutate(w, r, sessions, func(s *session.Session) error { return s.AddPlayer(*p) })
	}
}

func RemoveRosterPlayerHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("player")
		mutate(w, r, sessions, func(s *session.Session) error { return s.RemovePlayer(playerID) })
	}
}

type substitutionRequest struct {
	Out string `json:"out"`
	In  string `json:"in"`
}

func SubstituteHandler(sessions *session.Manager, players club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req substitutionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		in, err := players.GetPlayer(req.In)
		if err != nil {
			writeError(w, err)
			return
		}
		mutate(w, r, sessions, func(s *session.Session) error { return s.Substitute(req.Out, *in) })
	}
}

// QuarterHandler closes or reopens a quarter; the action is the last path segment.
func QuarterHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := pathInt(w, r, "q")
		if !ok {
			return
		}
		switch r.PathValue("action") {
		case "close":
			mutate(w, r, sessions, func(s *session.Session) error { return s.CloseQuarter(q) })
		case "reopen":
			mutate(w, r, sessions, func(s *session.Session) error { return s.ReopenQuarter(q) })
		default:
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown quarter action"})
		}
	}
}

type sprintRequest struct {
	Quarter  int    `json:"quarter"`
	PlayerID string `json:"player_id"`
}

func SprintHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sprintRequest
		if !decodeBody(w, r, &req) {
			return
		}
		mutate(w, r, sessions, func(s *session.Session) error { return s.SetSprintWinner(req.Quarter, req.PlayerID) })
	}
}

type shooterRequest struct {
	PlayerID string `json:"player_id"`
	Scored   bool   `json:"scored"`
}

func AddShooterHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req shooterRequest
		if !decodeBody(w, r, &req) {
			return
		}
		mutate(w, r, sessions, func(s *session.Session) error { return s.AddShooter(req.PlayerID, req.Scored) })
	}
}

func SetShooterHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, ok := pathInt(w, r, "index")
		if !ok {
			return
		}
		var req shooterRequest
		if !decodeBody(w, r, &req) {
			return
		}
		mutate(w, r, sessions, func(s *session.Session) error { return s.SetShooter(i, req.PlayerID, req.Scored) })
	}
}

func RemoveShooterHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, ok := pathInt(w, r, "index")
		if !ok {
			return
		}
		mutate(w, r, sessions, func(s *session.Session) error { return s.RemoveShooter(i) })
	}
}

type rivalRequest struct {
	Result       shootout.Result `json:"result"`
	GoalkeeperID string          `json:"goalkeeper_id"`
}

func AddRivalHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rivalRequest
		if !decodeBody(w, r, &req) {
			return
		}
		mutate(w, r, sessions, func(s *session.Session) error {
			_, err := s.AddRival(req.Result, req.GoalkeeperID)
			return err
		})
	}
}

func SetRivalHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rivalRequest
		if !decodeBody(w, r, &req) {
			return
		}
		id := r.PathValue("rival")
		mutate(w, r, sessions, func(s *session.Session) error { return s.SetRival(id, req.Result, req.GoalkeeperID) })
	}
}

func RemoveRivalHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("rival")
		mutate(w, r, sessions, func(s *session.Session) error { return s.RemoveRival(id) })
	}
}

type penaltyScoresRequest struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func PenaltyScoresHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req penaltyScoresRequest
		if !decodeBody(w, r, &req) {
			return
		}
		mutate(w, r, sessions, func(s *session.Session) error {
			s.SetPenaltyScores(req.Home, req.Away)
			return nil
		})
	}
}

type keeperShotRequest struct {
	GoalkeeperID string           `json:"goalkeeper_id"`
	Result       match.ShotResult `json:"result"`
	X            float64          `json:"x"`
	Y            float64          `json:"y"`
}

func AddKeeperShotHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req keeperShotRequest
		if !decodeBody(w, r, &req) {
			return
		}
		mutate(w, r, sessions, func(s *session.Session) error {
			_, err := s.AddKeeperShot(req.GoalkeeperID, req.Result, req.X, req.Y)
			return err
		})
	}
}

// RemoveKeeperShotsHandler deletes one shot when ?index= is given, otherwise
// the goalkeeper's whole chart.
func RemoveKeeperShotsHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gk := r.PathValue("gk")
		raw := r.URL.Query().Get("index")
		if raw == "" {
			mutate(w, r, sessions, func(s *session.Session) error {
				s.ClearKeeperShots(gk)
				return nil
			})
			return
		}
		i, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "index must be an integer"})
			return
		}
		mutate(w, r, sessions, func(s *session.Session) error { return s.RemoveKeeperShot(gk, i) })
	}
}

func SetInfoHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var info session.Info
		if !decodeBody(w, r, &info) {
			return
		}
		mutate(w, r, sessions, func(s *session.Session) error {
			s.SetInfo(info)
			return nil
		})
	}
}

func SaveSessionHandler(sessions *session.Manager, store match.Store, m metrics.Metrics, counters metrics.CounterStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		var (
			saved *match.Match
			isNew bool
		)
		err := sessions.Do(r.PathValue("id"), func(s *session.Session) error {
			isNew = s.MatchID() == ""
			var err error
			saved, err = s.Save(r.Context(), store)
			return err
		})
		if err != nil {
			var verr *session.ValidationError
			switch {
			case errors.As(err, &verr):
				m.IncValidationRejections()
			case errors.Is(err, session.ErrSaveFailed):
				m.IncSaveFailures()
			}
			writeError(w, err)
			return
		}

		m.ObserveSaveDuration(float64(time.Since(start).Milliseconds()))
		m.IncMatchesSaved()
		if isNew {
			counters.Increment(metrics.CounterMatchesCreated)
		} else {
			counters.Increment(metrics.CounterMatchesUpdated)
		}
		log.Info("Match saved", "matchID", saved.ID, "new", isNew)
		writeJSON(w, http.StatusOK, saved)
	}
}
