package metrics

import (
	"database/sql"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Usage counter keys.
const (
	CounterMatchesCreated = "matches_created"
	CounterMatchesUpdated = "matches_updated"
	CounterResultsPosted  = "results_posted"
)

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	SessionsOpened       prometheus.Counter
	StatEdits            prometheus.Counter
	MatchesSaved         prometheus.Counter
	SaveFailures         prometheus.Counter
	ValidationRejections prometheus.Counter
	SaveDuration         prometheus.Histogram
	MatchesProcessed     prometheus.Counter
	ProcessingDuration   prometheus.Histogram
	SlackNotifSent       prometheus.Counter
	SlackNotifFailed     prometheus.Counter
	StartupTimeSeconds   prometheus.Gauge
}

// store handles usage counter database operations.
type store struct {
	db *sql.DB
	mu sync.Mutex
}
