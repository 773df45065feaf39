package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncSessionsOpened()
	IncStatEdits()
	IncMatchesSaved()
	IncSaveFailures()
	IncValidationRejections()
	ObserveSaveDuration(duration float64)
	IncMatchesProcessed()
	ObserveProcessingDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// CounterStore keeps lifetime usage counters that survive restarts, unlike
// the Prometheus series.
type CounterStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
