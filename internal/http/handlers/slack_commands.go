package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/notifier"
)

// latestMatches is how many results the bare /match command lists.
const latestMatches = 5

// MatchSummarizer gathers a saved match into a notifier summary.
type MatchSummarizer interface {
	Summary(ctx context.Context, m *match.Match) (*notifier.MatchSummary, error)
}

// findMatch resolves the command text to a match: an exact id first, then
// the most recent match whose opponent contains the text.
func findMatch(matches []match.Match, query string) (*match.Match, bool) {
	for i := range matches {
		if matches[i].ID == query {
			return &matches[i], true
		}
	}
	q := strings.ToLower(query)
	for i := range matches {
		if strings.Contains(strings.ToLower(matches[i].Opponent), q) {
			return &matches[i], true
		}
	}
	return nil, false
}

// MatchCommandHandler serves the /match Slack command. Without text it lists
// the latest results; otherwise it shows the matching result.
func MatchCommandHandler(store match.Store, summarizer MatchSummarizer, notif notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		query := strings.TrimSpace(r.FormValue("text"))
		log.Info("Received match command", "query", query)

		// ListMatches is ordered newest first.
		matches, err := store.ListMatches(r.Context())
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}

		var msg any
		if query == "" {
			n := min(len(matches), latestMatches)
			summaries := make([]*notifier.MatchSummary, 0, n)
			for i := range matches[:n] {
				summaries = append(summaries, &notifier.MatchSummary{Match: &matches[i]})
			}
			msg, err = notif.FormatMatchListResponse(summaries)
		} else if m, ok := findMatch(matches, query); ok {
			var summary *notifier.MatchSummary
			summary, err = summarizer.Summary(r.Context(), m)
			if err == nil {
				msg, err = notif.FormatMatchSummaryResponse(summary)
			}
		} else {
			log.Warn("Could not find match", "query", query)
			msg, err = notif.FormatMatchNotFoundResponse(query)
		}

		if err != nil {
			http.Error(w, "Failed to format match response", http.StatusInternalServerError)
			log.Error("Failed to format match response", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}
