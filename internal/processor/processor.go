package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/metrics"
	"github.com/mauv0809/polo-stats/internal/notifier"
	"github.com/mauv0809/polo-stats/internal/pubsub"
	"github.com/mauv0809/polo-stats/internal/stats"
)

// New creates a new Processor.
func New(matches MatchStore, players PlayerStore, notifier Notifier, metrics metrics.Metrics, counters metrics.CounterStore, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		matches:  matches,
		players:  players,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		counters: counters,
	}
}

// ProcessMatches fetches matches that need processing and advances them through the state machine.
func (p *Processor) ProcessMatches(ctx context.Context, dryRun bool) {
	log.Info("Starting match processing...")
	matches, err := p.matches.GetMatchesForProcessing()
	if err != nil {
		log.Error("Failed to get matches for processing", "error", err)
		return
	}

	if len(matches) == 0 {
		log.Info("No matches to process.")
		return
	}

	log.Info("Found matches to process", "count", len(matches))
	for _, m := range matches {
		startTime := time.Now()
		p.processMatch(ctx, m, dryRun)
		duration := time.Since(startTime).Milliseconds()
		p.metrics.ObserveProcessingDuration(float64(duration))
	}
	log.Info("Match processing finished.")
}

func (p *Processor) processMatch(ctx context.Context, m *match.Match, dryRun bool) {
	log.Info("Processing match", "matchID", m.ID, "initial_status", m.ProcessingStatus)
	for {
		currentState := m.ProcessingStatus
		log.Debug("Evaluating match state", "matchID", m.ID, "status", currentState)

		switch currentState {
		case match.StatusSaved:
			log.Info("Match saved. Sending result notification.", "matchID", m.ID)
			summary, err := p.Summary(ctx, m)
			if err != nil {
				log.Error("Failed to build match summary", "error", err, "matchID", m.ID)
				break
			}
			if err := p.notifier.SendResultNotification(summary, dryRun); err != nil {
				log.Error("Failed to send result notification", "error", err, "matchID", m.ID)
				break
			}
			if !dryRun {
				p.counters.Increment(metrics.CounterResultsPosted)
			}
			p.updateStatus(m, match.StatusResultNotified, dryRun)

		case match.StatusResultNotified:
			log.Info("Match result has been notified. Publishing player stats.", "matchID", m.ID)
			if !dryRun {
				event, err := p.savedEvent(ctx, m)
				if err != nil {
					log.Error("Failed to build match saved event", "error", err, "matchID", m.ID)
					break
				}
				if err := p.pubsub.SendMessage(pubsub.EventMatchSaved, event); err != nil {
					log.Error("Failed to publish match saved event", "error", err, "matchID", m.ID)
					break
				}
			}
			p.updateStatus(m, match.StatusStatsPublished, dryRun)

		case match.StatusStatsPublished:
			log.Info("Player stats published. Marking match as complete.", "matchID", m.ID)
			p.updateStatus(m, match.StatusCompleted, dryRun)
			if m.ProcessingStatus == match.StatusCompleted {
				p.metrics.IncMatchesProcessed()
			}

		case match.StatusCompleted:
			log.Debug("Match is complete. No further processing needed.", "matchID", m.ID)
			return // End of the line for this match

		default:
			log.Warn("Unknown processing status", "status", currentState, "matchID", m.ID)
			return // Exit if status is unknown
		}

		// If the status hasn't changed, we're done with this match for now.
		if m.ProcessingStatus == currentState {
			log.Debug("Match state did not change. Finished processing for now.", "matchID", m.ID, "status", currentState)
			break
		}
	}
	log.Info("Finished processing match", "matchID", m.ID, "final_status", m.ProcessingStatus)
}

// Summary gathers the stat rows and squad details of a saved match into
// the shape the notifier renders.
func (p *Processor) Summary(ctx context.Context, m *match.Match) (*notifier.MatchSummary, error) {
	rows, err := p.matches.GetStats(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.PlayerID
	}
	players, err := p.players.GetPlayers(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	return notifier.Summarize(m, rows, players), nil
}

func (p *Processor) savedEvent(ctx context.Context, m *match.Match) (pubsub.MatchSavedEvent, error) {
	rows, err := p.matches.GetStats(ctx, m.ID)
	if err != nil {
		return pubsub.MatchSavedEvent{}, fmt.Errorf("failed to load stats: %w", err)
	}
	event := pubsub.MatchSavedEvent{
		MatchID:     m.ID,
		Date:        m.Date,
		Opponent:    m.Opponent,
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
		PenaltyHome: m.PenaltyHome,
		PenaltyAway: m.PenaltyAway,
		Players:     make([]pubsub.PlayerLine, 0, len(rows)),
	}
	for _, r := range rows {
		c := r.Counters
		event.Players = append(event.Players, pubsub.PlayerLine{
			PlayerID:     r.PlayerID,
			Goals:        c[string(stats.GolesTotales)],
			Shots:        c[string(stats.TirosTotales)],
			Efficiency:   c[string(stats.TirosEficiencia)],
			Saves:        c[string(stats.PorteroParadasTotales)],
			GoalsAgainst: c[string(stats.PorteroGolesTotales)],
		})
	}
	return event, nil
}

func (p *Processor) updateStatus(m *match.Match, newStatus match.ProcessingStatus, dryRun bool) {
	if dryRun {
		log.Info("[Dry Run] Would update match status", "matchID", m.ID, "from", m.ProcessingStatus, "to", newStatus)
		m.ProcessingStatus = newStatus // Update in-memory for the loop
		return
	}

	err := p.matches.UpdateProcessingStatus(m.ID, newStatus)
	if err != nil {
		log.Error("Failed to update processing status", "error", err, "matchID", m.ID)
	} else {
		log.Debug("Successfully updated status", "matchID", m.ID, "from", m.ProcessingStatus, "to", newStatus)
		m.ProcessingStatus = newStatus // Keep the in-memory object in sync
	}
}
