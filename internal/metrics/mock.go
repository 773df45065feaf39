package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	sessionsOpened       int
	statEdits            int
	matchesSaved         int
	saveFailures         int
	validationRejections int
	saveDurations        []float64
	matchesProcessed     int
	processingDurations  []float64
	slackNotifSent       int
	slackNotifFailed     int
	startupTime          float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		processingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncSessionsOpened() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsOpened++
}

func (m *Mock) IncStatEdits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statEdits++
}

func (m *Mock) IncMatchesSaved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesSaved++
}

func (m *Mock) IncSaveFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveFailures++
}

func (m *Mock) IncValidationRejections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validationRejections++
}

func (m *Mock) ObserveSaveDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveDurations = append(m.saveDurations, duration)
}

func (m *Mock) IncMatchesProcessed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesProcessed++
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// SessionsOpened returns the number of times IncSessionsOpened was called.
func (m *Mock) SessionsOpened() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionsOpened
}

// StatEdits returns the number of times IncStatEdits was called.
func (m *Mock) StatEdits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statEdits
}

// MatchesSaved returns the number of times IncMatchesSaved was called.
func (m *Mock) MatchesSaved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesSaved
}

// SaveFailures returns the number of times IncSaveFailures was called.
func (m *Mock) SaveFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveFailures
}

// ValidationRejections returns the number of times IncValidationRejections was called.
func (m *Mock) ValidationRejections() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validationRejections
}

// MatchesProcessed returns the number of times IncMatchesProcessed was called.
func (m *Mock) MatchesProcessed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesProcessed
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// CounterMock is an in-memory CounterStore.
type CounterMock struct {
	mu       sync.Mutex
	counters map[string]int
}

func NewCounterMock() *CounterMock {
	return &CounterMock{counters: make(map[string]int)}
}

func (m *CounterMock) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
}

func (m *CounterMock) GetAll() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out, nil
}
