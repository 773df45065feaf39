package http

import (
	"net/http"

	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/config"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/metrics"
	"github.com/mauv0809/polo-stats/internal/notifier"
	"github.com/mauv0809/polo-stats/internal/processor"
	"github.com/mauv0809/polo-stats/internal/pubsub"
	"github.com/mauv0809/polo-stats/internal/session"
)

type Server struct {
	Players        club.ClubStore
	Matches        match.Store
	Sessions       *session.Manager
	Metrics        metrics.Metrics
	Counters       metrics.CounterStore
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
