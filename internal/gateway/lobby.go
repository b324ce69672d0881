package gateway

import (
	"time"

	"github.com/cory-johannsen/geoguess/internal/game/chat"
)

// Lobby is the room-independent chat channel available to every connection.
type Lobby struct {
	log *chat.Log
	hub *Hub
}

// NewLobby creates a Lobby with a bounded history.
//
// Precondition: hub must be non-nil; capacity must be >= 1.
func NewLobby(hub *Hub, capacity int) *Lobby {
	return &Lobby{
		log: chat.NewLog(capacity),
		hub: hub,
	}
}

// HistoryEvent snapshots the lobby chat for a newly connected client.
func (l *Lobby) HistoryEvent() Event {
	return Event{
		Type:    EventLobbyHistory,
		Payload: LobbyHistoryPayload{Messages: l.log.Messages()},
	}
}

// Post appends a lobby message and broadcasts it to every connection.
//
// Postcondition: The message is in the bounded log, most recent last, and
// queued to all live connections.
func (l *Lobby) Post(senderID, text string) {
	msg := chat.Message{
		Sender: chat.DisplayName(senderID),
		Text:   text,
		SentAt: time.Now().UTC(),
	}
	l.log.Append(msg)
	l.hub.BroadcastAll(Event{Type: EventLobbyMessage, Payload: msg})
}

// Len returns the number of messages currently held.
func (l *Lobby) Len() int {
	return l.log.Len()
}
