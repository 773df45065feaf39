package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SessionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "polo_edit_sessions_opened_total",
			Help: "The total number of match edit sessions opened, new or loaded.",
		}),
		StatEdits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "polo_stat_edits_total",
			Help: "The total number of single counter edits accepted.",
		}),
		MatchesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "polo_matches_saved_total",
			Help: "The total number of matches saved successfully.",
		}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "polo_match_save_failures_total",
			Help: "The total number of saves that failed in the store.",
		}),
		ValidationRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "polo_match_validation_rejections_total",
			Help: "The total number of saves rejected by validation.",
		}),
		SaveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "polo_match_save_duration_seconds",
			Help:    "The duration of the full save sequence.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		MatchesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "polo_matches_processed_total",
			Help: "The total number of matches processed by the state machine.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "polo_match_processing_duration_seconds",
			Help:    "The duration of individual match processing.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "polo_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "polo_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "polo_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.SessionsOpened,
		s.StatEdits,
		s.MatchesSaved,
		s.SaveFailures,
		s.ValidationRejections,
		s.SaveDuration,
		s.MatchesProcessed,
		s.ProcessingDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncSessionsOpened() {
	s.SessionsOpened.Inc()
}

func (s *Service) IncStatEdits() {
	s.StatEdits.Inc()
}

func (s *Service) IncMatchesSaved() {
	s.MatchesSaved.Inc()
}

func (s *Service) IncSaveFailures() {
	s.SaveFailures.Inc()
}

func (s *Service) IncValidationRejections() {
	s.ValidationRejections.Inc()
}

func (s *Service) ObserveSaveDuration(duration float64) {
	s.SaveDuration.Observe(duration)
}

func (s *Service) IncMatchesProcessed() {
	s.MatchesProcessed.Inc()
}

func (s *Service) ObserveProcessingDuration(duration float64) {
	s.ProcessingDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
