package notifier

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For saved matches
	SendResultNotification(summary *MatchSummary, dryRun bool) error

	// For formatting responses for slash commands
	FormatMatchSummaryResponse(summary *MatchSummary) (any, error)
	FormatMatchListResponse(summaries []*MatchSummary) (any, error)
	FormatMatchNotFoundResponse(query string) (any, error)
}
