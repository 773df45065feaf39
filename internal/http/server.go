package http

import (
	"net/http"

	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/config"
	"github.com/mauv0809/polo-stats/internal/http/handlers"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/metrics"
	"github.com/mauv0809/polo-stats/internal/notifier"
	"github.com/mauv0809/polo-stats/internal/processor"
	"github.com/mauv0809/polo-stats/internal/pubsub"
	"github.com/mauv0809/polo-stats/internal/session"
)

func NewServer(players club.ClubStore, matches match.Store, sessions *session.Manager, metricsSvc metrics.Metrics, counters metrics.CounterStore, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Players:        players,
		Matches:        matches,
		Sessions:       sessions,
		Metrics:        metricsSvc,
		Counters:       counters,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	slackAuth := slackVerificationMiddleware(s.Cfg.Slack.SigningSecret)

	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /usage", Chain(handlers.UsageHandler(s.Counters), paramsMiddleware))
	s.Router.Handle("GET /players", Chain(handlers.ListPlayersHandler(s.Players), paramsMiddleware))
	s.Router.Handle("GET /matches", Chain(handlers.ListMatchesHandler(s.Matches), paramsMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(handlers.GetMatchHandler(s.Matches), paramsMiddleware))

	s.Router.Handle("POST /sessions", Chain(handlers.CreateSessionHandler(s.Sessions, s.Metrics), paramsMiddleware))
	s.Router.Handle("POST /sessions/load", Chain(handlers.LoadSessionHandler(s.Sessions, s.Matches, s.Players, s.Metrics), paramsMiddleware))
	s.Router.Handle("GET /sessions/{id}", Chain(handlers.GetSessionHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("DELETE /sessions/{id}", Chain(handlers.CloseSessionHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/stats", Chain(handlers.SetStatHandler(s.Sessions, s.Metrics), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/roster", Chain(handlers.AddRosterPlayerHandler(s.Sessions, s.Players), paramsMiddleware))
	s.Router.Handle("DELETE /sessions/{id}/roster/{player}", Chain(handlers.RemoveRosterPlayerHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/substitutions", Chain(handlers.SubstituteHandler(s.Sessions, s.Players), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/quarters/{q}/{action}", Chain(handlers.QuarterHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/sprints", Chain(handlers.SprintHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/shootout/shooters", Chain(handlers.AddShooterHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("PUT /sessions/{id}/shootout/shooters/{index}", Chain(handlers.SetShooterHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("DELETE /sessions/{id}/shootout/shooters/{index}", Chain(handlers.RemoveShooterHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/shootout/rivals", Chain(handlers.AddRivalHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("PUT /sessions/{id}/shootout/rivals/{rival}", Chain(handlers.SetRivalHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("DELETE /sessions/{id}/shootout/rivals/{rival}", Chain(handlers.RemoveRivalHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/shootout/scores", Chain(handlers.PenaltyScoresHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/keeper-shots", Chain(handlers.AddKeeperShotHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("DELETE /sessions/{id}/keeper-shots/{gk}", Chain(handlers.RemoveKeeperShotsHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("PUT /sessions/{id}/info", Chain(handlers.SetInfoHandler(s.Sessions), paramsMiddleware))
	s.Router.Handle("POST /sessions/{id}/save", Chain(handlers.SaveSessionHandler(s.Sessions, s.Matches, s.Metrics, s.Counters), paramsMiddleware))

	s.Router.Handle("POST /process", Chain(handlers.ProcessMatchesHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("POST /events/match-saved", Chain(handlers.MatchSavedEventHandler(s.pubsub), paramsMiddleware))
	s.Router.Handle("POST /slack/command/match", Chain(handlers.MatchCommandHandler(s.Matches, s.Processor, s.Notifier), paramsMiddleware, slackAuth))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
