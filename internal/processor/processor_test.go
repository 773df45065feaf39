package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/metrics"
	"github.com/mauv0809/polo-stats/internal/notifier"
	"github.com/mauv0809/polo-stats/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	matches  *match.MockStore
	players  *club.MockStore
	notif    *notifier.Mock
	metr     *metrics.Mock
	counters *metrics.CounterMock
	pubsub   *pubsub.MockPubSubClient
	p        *Processor
}

func setup(t *testing.T, status match.ProcessingStatus) *fixture {
	t.Helper()
	f := &fixture{
		matches:  match.NewMock(),
		players:  club.NewMock(club.PlayerInfo{ID: "p4", Number: 4, Name: "Four"}),
		notif:    notifier.NewMock(),
		metr:     metrics.NewMock(),
		counters: metrics.NewCounterMock(),
		pubsub:   pubsub.NewMock(),
	}
	f.p = New(f.matches, f.players, f.notif, f.metr, f.counters, f.pubsub)

	f.matches.Matches["m1"] = &match.Match{ID: "m1", Opponent: "CN Rival", HomeScore: 9, AwayScore: 7, ProcessingStatus: status}
	f.matches.Stats["m1"] = []match.StatRow{{
		MatchID:  "m1",
		PlayerID: "p4",
		Counters: map[string]int{"goles_totales": 3, "tiros_totales": 4, "tiros_eficiencia": 75},
	}}
	return f
}

func TestProcessor_ProcessMatches(t *testing.T) {
	t.Run("saved match is announced, published and completed", func(t *testing.T) {
		f := setup(t, match.StatusSaved)

		f.p.ProcessMatches(context.Background(), false)

		require.Len(t, f.notif.SendResultNotificationCalls, 1, "A result notification should be sent")
		summary := f.notif.SendResultNotificationCalls[0]
		assert.Equal(t, "m1", summary.Match.ID)
		require.Len(t, summary.Scorers, 1)
		assert.Equal(t, "Four", summary.Scorers[0].Name)

		require.Len(t, f.pubsub.SendMessageCalls, 1, "A pubsub message should be sent to publish stats")
		assert.Equal(t, pubsub.EventMatchSaved, f.pubsub.SendMessageCalls[0].Topic)
		event, ok := f.pubsub.SendMessageCalls[0].Data.(pubsub.MatchSavedEvent)
		require.True(t, ok, "Data sent to pubsub should be a MatchSavedEvent")
		assert.Equal(t, "m1", event.MatchID)
		require.Len(t, event.Players, 1)
		assert.Equal(t, pubsub.PlayerLine{PlayerID: "p4", Goals: 3, Shots: 4, Efficiency: 75}, event.Players[0])

		assert.Equal(t, []match.ProcessingStatus{
			match.StatusResultNotified,
			match.StatusStatsPublished,
			match.StatusCompleted,
		}, f.matches.UpdateProcessingStatusCalls)
		assert.Equal(t, 1, f.metr.MatchesProcessed())

		counters, err := f.counters.GetAll()
		require.NoError(t, err)
		assert.Equal(t, 1, counters[metrics.CounterResultsPosted])
	})

	t.Run("notified match only publishes stats", func(t *testing.T) {
		f := setup(t, match.StatusResultNotified)

		f.p.ProcessMatches(context.Background(), false)

		require.Len(t, f.notif.SendResultNotificationCalls, 0, "Result notification should not be sent again")
		require.Len(t, f.pubsub.SendMessageCalls, 1)
		assert.Equal(t, []match.ProcessingStatus{match.StatusStatsPublished, match.StatusCompleted}, f.matches.UpdateProcessingStatusCalls)
	})

	t.Run("failed notification leaves the match saved", func(t *testing.T) {
		f := setup(t, match.StatusSaved)
		f.notif.SendResultNotificationFunc = func(summary *notifier.MatchSummary, dryRun bool) error {
			return errors.New("slack is down")
		}

		f.p.ProcessMatches(context.Background(), false)

		require.Len(t, f.notif.SendResultNotificationCalls, 1)
		assert.Empty(t, f.pubsub.SendMessageCalls)
		assert.Empty(t, f.matches.UpdateProcessingStatusCalls)
		assert.Equal(t, match.StatusSaved, f.matches.Matches["m1"].ProcessingStatus)
	})

	t.Run("failed publish is retried on the next run", func(t *testing.T) {
		f := setup(t, match.StatusSaved)
		calls := 0
		f.pubsub.SendMessageFunc = func(topic pubsub.EventType, data any) error {
			calls++
			if calls == 1 {
				return errors.New("topic unavailable")
			}
			return nil
		}

		f.p.ProcessMatches(context.Background(), false)
		assert.Equal(t, match.StatusResultNotified, f.matches.Matches["m1"].ProcessingStatus)

		f.p.ProcessMatches(context.Background(), false)
		assert.Equal(t, match.StatusCompleted, f.matches.Matches["m1"].ProcessingStatus)
		require.Len(t, f.notif.SendResultNotificationCalls, 1, "The result is only announced once")
	})

	t.Run("completed matches are not picked up", func(t *testing.T) {
		f := setup(t, match.StatusCompleted)

		f.p.ProcessMatches(context.Background(), false)

		assert.Empty(t, f.notif.SendResultNotificationCalls)
		assert.Empty(t, f.matches.UpdateProcessingStatusCalls)
	})

	t.Run("dry run touches neither store nor pubsub", func(t *testing.T) {
		f := setup(t, match.StatusSaved)
		var dryRuns []bool
		f.notif.SendResultNotificationFunc = func(summary *notifier.MatchSummary, dryRun bool) error {
			dryRuns = append(dryRuns, dryRun)
			return nil
		}

		f.p.ProcessMatches(context.Background(), true)

		assert.Equal(t, []bool{true}, dryRuns)
		assert.Empty(t, f.pubsub.SendMessageCalls)
		assert.Empty(t, f.matches.UpdateProcessingStatusCalls)
		assert.Equal(t, match.StatusSaved, f.matches.Matches["m1"].ProcessingStatus)
		counters, err := f.counters.GetAll()
		require.NoError(t, err)
		assert.Empty(t, counters)
	})
}

func TestProcessor_Summary(t *testing.T) {
	f := setup(t, match.StatusSaved)
	f.players.GetPlayersFunc = func(ids []string) ([]club.PlayerInfo, error) {
		return nil, errors.New("db closed")
	}

	_, err := f.p.Summary(context.Background(), f.matches.Matches["m1"])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load players")
}
