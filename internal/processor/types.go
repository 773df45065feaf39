package processor

import (
	"github.com/mauv0809/polo-stats/internal/metrics"
	"github.com/mauv0809/polo-stats/internal/pubsub"
)

// Processor handles the business logic of processing saved matches.
type Processor struct {
	matches  MatchStore
	players  PlayerStore
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
	counters metrics.CounterStore
}
