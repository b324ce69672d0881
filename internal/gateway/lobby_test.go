package gateway

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostBroadcastsToEveryConnection(t *testing.T) {
	hub := NewHub()
	a, b := &memorySink{}, &memorySink{}
	hub.Register("aaaabbbb-1111", a)
	hub.Register("ccccdddd-2222", b)

	lobby := NewLobby(hub, 50)
	lobby.Post("aaaabbbb-1111", "hello lobby")

	require.Equal(t, []string{EventLobbyMessage}, a.eventTypes(t))
	require.Equal(t, []string{EventLobbyMessage}, b.eventTypes(t))

	var msg struct {
		Sender string `json:"sender"`
		Text   string `json:"text"`
	}
	b.payloadInto(t, 0, &msg)
	assert.Equal(t, "aaaabbbb", msg.Sender)
	assert.Equal(t, "hello lobby", msg.Text)
}

func TestHistoryEvictsOldestBeyondCapacity(t *testing.T) {
	hub := NewHub()
	lobby := NewLobby(hub, 50)

	for i := 1; i <= 51; i++ {
		lobby.Post("sender-1", fmt.Sprintf("msg-%d", i))
	}

	event := lobby.HistoryEvent()
	assert.Equal(t, EventLobbyHistory, event.Type)
	payload, ok := event.Payload.(LobbyHistoryPayload)
	require.True(t, ok)
	require.Len(t, payload.Messages, 50)
	assert.Equal(t, "msg-2", payload.Messages[0].Text)
	assert.Equal(t, "msg-51", payload.Messages[49].Text)
	assert.Equal(t, 50, lobby.Len())
}

func TestHistoryEventForEmptyLobby(t *testing.T) {
	lobby := NewLobby(NewHub(), 50)
	payload, ok := lobby.HistoryEvent().Payload.(LobbyHistoryPayload)
	require.True(t, ok)
	assert.Empty(t, payload.Messages)
}

