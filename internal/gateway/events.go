// Package gateway binds websocket connections to game rooms: it validates
// and routes client actions, and broadcasts the resulting state to the
// lobby or to a room's full membership.
package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/cory-johannsen/geoguess/internal/game/chat"
	"github.com/cory-johannsen/geoguess/internal/game/room"
)

// Client action types.
const (
	ActionLobbyChat   = "lobbyChat"
	ActionCreateRoom  = "createRoom"
	ActionJoinRoom    = "joinRoom"
	ActionRoomChat    = "roomChat"
	ActionRequestHint = "requestHint"
	ActionSubmitGuess = "submitGuess"
)

// Server event types.
const (
	EventLobbyHistory      = "lobbyHistory"
	EventLobbyMessage      = "lobbyMessage"
	EventRoomCreated       = "roomCreated"
	EventRoomJoined        = "roomJoined"
	EventParticipantJoined = "participantJoined"
	EventRoomMessage       = "roomMessage"
	EventHintRevealed      = "hintRevealed"
	EventGuessResult       = "guessResult"
	EventGameOver          = "gameOver"
	EventParticipantLeft   = "participantLeft"
	EventError             = "error"
)

// ClientAction is the tagged envelope every client message decodes into.
// Fields beyond Type are populated per action and validated at dispatch.
type ClientAction struct {
	Type          string            `json:"type"`
	Text          string            `json:"text,omitempty"`
	Mode          string            `json:"mode,omitempty"`
	Code          string            `json:"code,omitempty"`
	Guess         string            `json:"guess,omitempty"`
	AvatarStyle   string            `json:"avatarStyle,omitempty"`
	AvatarOptions map[string]string `json:"avatarOptions,omitempty"`
}

// DecodeAction parses a raw client frame into a ClientAction.
//
// Postcondition: Returns a non-nil error for malformed JSON or a missing type tag.
func DecodeAction(data []byte) (ClientAction, error) {
	var action ClientAction
	if err := json.Unmarshal(data, &action); err != nil {
		return ClientAction{}, fmt.Errorf("malformed action: %w", err)
	}
	if action.Type == "" {
		return ClientAction{}, fmt.Errorf("action is missing a type tag")
	}
	return action, nil
}

// Event is the tagged envelope for every server-to-client message.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Encode serializes the event for the wire.
func (e Event) Encode() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		// Event payloads are plain structs and maps; marshalling them
		// cannot fail at runtime without a programming error.
		return []byte(`{"type":"error","payload":{"message":"internal error"}}`)
	}
	return data
}

// LobbyHistoryPayload snapshots the lobby chat for a newly connected client.
type LobbyHistoryPayload struct {
	Messages []chat.Message `json:"messages"`
}

// RoomCreatedPayload announces a freshly created room to its creator.
type RoomCreatedPayload struct {
	Code string `json:"code"`
}

// ParticipantJoinedPayload announces a new participant to a room.
type ParticipantJoinedPayload struct {
	Participant room.RosterEntry `json:"participant"`
}

// ParticipantLeftPayload announces a departure to a room.
type ParticipantLeftPayload struct {
	ID string `json:"id"`
}

// GameOverPayload closes out a finished room for every participant.
type GameOverPayload struct {
	Winner string `json:"winner,omitempty"`
	Word   string `json:"word"`
	Clue   string `json:"clue"`
}

// ErrorPayload reports a rejected action to its originating connection.
type ErrorPayload struct {
	Message string `json:"message"`
}

func errorEvent(message string) Event {
	return Event{Type: EventError, Payload: ErrorPayload{Message: message}}
}
