package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestProcessMessage_DecodesMatchSavedEvent(t *testing.T) {
	penalties := 4
	event := MatchSavedEvent{
		MatchID:     "m1",
		Opponent:    "CN Rival",
		HomeScore:   8,
		AwayScore:   8,
		PenaltyHome: &penalties,
		Players:     []PlayerLine{{PlayerID: "p4", Goals: 3, Shots: 4, Efficiency: 75}},
	}
	data, err := msgpack.Marshal(event)
	require.NoError(t, err)

	c := &client{}
	var got MatchSavedEvent
	require.NoError(t, c.ProcessMessage(data, &got))
	assert.Equal(t, event, got)

	assert.Error(t, c.ProcessMessage([]byte{0xc1}, &got), "0xc1 is never valid msgpack")
}

func TestMock_RecordsCalls(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.SendMessage(EventMatchSaved, MatchSavedEvent{MatchID: "m1"}))
	require.Len(t, m.SendMessageCalls, 1)
	assert.Equal(t, EventMatchSaved, m.SendMessageCalls[0].Topic)

	m.Reset()
	assert.Empty(t, m.SendMessageCalls)
}
