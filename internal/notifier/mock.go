package notifier

import (
	"sync"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendResultNotificationFunc func(summary *MatchSummary, dryRun bool) error

	// Call records
	SendResultNotificationCalls []*MatchSummary
	FormatMatchSummaryCalls     []*MatchSummary
	FormatMatchNotFoundCalls    []string
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = nil
	m.FormatMatchSummaryCalls = nil
	m.FormatMatchNotFoundCalls = nil
}

func (m *Mock) SendResultNotification(summary *MatchSummary, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, summary)
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(summary, dryRun)
	}
	return nil
}

func (m *Mock) FormatMatchSummaryResponse(summary *MatchSummary) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatMatchSummaryCalls = append(m.FormatMatchSummaryCalls, summary)
	return "formatted_match_summary", nil
}

func (m *Mock) FormatMatchListResponse(summaries []*MatchSummary) (any, error) {
	return "formatted_match_list", nil
}

func (m *Mock) FormatMatchNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatMatchNotFoundCalls = append(m.FormatMatchNotFoundCalls, query)
	return "formatted_match_not_found", nil
}
