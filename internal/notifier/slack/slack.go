package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/metrics"
	"github.com/mauv0809/polo-stats/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	teamName  string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID, teamName string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return NewNotifierWithAPI(api, channelID, teamName, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID, teamName string, metrics metrics.Metrics) *Notifier {
	if teamName == "" {
		teamName = "Our team"
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		teamName:  teamName,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendResultNotification(summary *notifier.MatchSummary, dryRun bool) error {
	msg := s.formatResultNotification(summary)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatMatchSummaryResponse formats a match result for a slash command response.
func (s *Notifier) FormatMatchSummaryResponse(summary *notifier.MatchSummary) (any, error) {
	return s.formatResultNotification(summary), nil
}

// FormatMatchListResponse formats the latest results for a slash command response.
func (s *Notifier) FormatMatchListResponse(summaries []*notifier.MatchSummary) (any, error) {
	return s.formatMatchList(summaries), nil
}

// FormatMatchNotFoundResponse formats a match not found message for a slash command response.
func (s *Notifier) FormatMatchNotFoundResponse(query string) (any, error) {
	return s.formatMatchNotFound(query), nil
}

// formatResultNotification creates the Slack message for a saved match using Block Kit.
func (s *Notifier) formatResultNotification(summary *notifier.MatchSummary) slack.Message {
	m := summary.Match
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🤽 "+s.scoreLine(m), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Quarters and shootout
	var details []string
	var quarters []string
	for i, q := range m.Quarters {
		if q.Home == nil || q.Away == nil {
			continue
		}
		quarters = append(quarters, fmt.Sprintf("Q%d %d-%d", i+1, *q.Home, *q.Away))
	}
	if len(quarters) > 0 {
		details = append(details, strings.Join(quarters, " | "))
	}
	if m.PenaltyHome != nil && m.PenaltyAway != nil {
		details = append(details, fmt.Sprintf("Penalties: %d-%d", *m.PenaltyHome, *m.PenaltyAway))
	}
	if len(details) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(details, "\n"), true, false), nil, nil))
	}

	if len(summary.Scorers) > 0 || len(summary.Keepers) > 0 {
		var fields []*slack.TextBlockObject
		if len(summary.Scorers) > 0 {
			lines := []string{"*Scorers*"}
			for _, sc := range summary.Scorers {
				lines = append(lines, fmt.Sprintf("• #%d %s: %d/%d", sc.Number, sc.Name, sc.Goals, sc.Shots))
			}
			fields = append(fields, slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false))
		}
		if len(summary.Keepers) > 0 {
			lines := []string{"*Goalkeepers*"}
			for _, gk := range summary.Keepers {
				lines = append(lines, fmt.Sprintf("• #%d %s: %d saves, %d against", gk.Number, gk.Name, gk.Saves, gk.GoalsAgainst))
			}
			fields = append(fields, slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false))
		}
		blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))
	}

	var contextElements []slack.MixedElement
	if ctxText := contextLine(m); ctxText != "" {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", ctxText, true, false))
	}
	if len(contextElements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatMatchList creates a Slack message with one line per match.
func (s *Notifier) formatMatchList(summaries []*notifier.MatchSummary) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🤽 Latest results", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(summaries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No matches saved yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	lines := make([]string, 0, len(summaries))
	for _, sm := range summaries {
		lines = append(lines, fmt.Sprintf("• %s  %s  `%s`", sm.Match.Date, s.scoreLine(sm.Match), sm.Match.ID))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", strings.Join(lines, "\n"), false, false), nil, nil))
	return slack.NewBlockMessage(blocks...)
}

// formatMatchNotFound creates a Slack message for when a match cannot be found.
func (s *Notifier) formatMatchNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a match for *%s*. Try `/match` to list the latest results.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

// scoreLine lists the home side first.
func (s *Notifier) scoreLine(m *match.Match) string {
	if m.IsHome {
		return fmt.Sprintf("%s %d - %d %s", s.teamName, m.HomeScore, m.AwayScore, m.Opponent)
	}
	return fmt.Sprintf("%s %d - %d %s", m.Opponent, m.AwayScore, m.HomeScore, s.teamName)
}

func contextLine(m *match.Match) string {
	var parts []string
	if m.Date != "" {
		if d, err := time.Parse("2006-01-02", m.Date); err == nil {
			parts = append(parts, d.Format("Monday 02 Jan 2006"))
		} else {
			parts = append(parts, m.Date)
		}
	}
	if m.Matchday > 0 {
		parts = append(parts, fmt.Sprintf("Matchday %d", m.Matchday))
	}
	if m.Location != "" {
		parts = append(parts, m.Location)
	}
	return strings.Join(parts, " · ")
}
