package gateway

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cory-johannsen/geoguess/internal/game/chat"
	"github.com/cory-johannsen/geoguess/internal/game/room"
)

// Session is the per-connection controller. It binds one connection to at
// most one room at a time, validates every client action against current
// state, routes it into room operations, and broadcasts the results.
//
// A session's frames arrive sequentially from its connection's read loop;
// room-scoped actions additionally serialize against other sessions of the
// same room through the hub's per-room lock, so broadcasts go out in
// mutation order.
type Session struct {
	id          string
	hub         *Hub
	registry    *room.Registry
	lobby       *Lobby
	limiter     *rate.Limiter
	logger      *zap.Logger
	currentRoom string
}

// NewSession creates a Session for one live connection.
//
// Precondition: id must be unique among live connections; hub, registry,
// lobby, and logger must be non-nil.
func NewSession(id string, hub *Hub, registry *room.Registry, lobby *Lobby, logger *zap.Logger) *Session {
	return &Session{
		id:       id,
		hub:      hub,
		registry: registry,
		lobby:    lobby,
		limiter:  rate.NewLimiter(rate.Every(100*time.Millisecond), 20),
		logger:   logger.With(zap.String("connection", chat.DisplayName(id))),
	}
}

// ID returns the session's connection identifier.
func (s *Session) ID() string { return s.id }

// CurrentRoom returns the code of the bound room, or "" when unbound.
func (s *Session) CurrentRoom() string { return s.currentRoom }

// HandleConnect sends the lobby history snapshot to the new connection.
func (s *Session) HandleConnect() {
	s.hub.SendTo(s.id, s.lobby.HistoryEvent())
}

// HandleFrame validates and dispatches one raw client frame. Every rejected
// action produces an explicit error event; a panic inside a handler is
// caught, logged, and reported as a generic failure so the connection's
// read loop survives.
func (s *Session) HandleFrame(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic handling client action", zap.Any("panic", r))
			s.fail("something went wrong handling that action")
		}
	}()

	if !s.limiter.Allow() {
		s.fail("too many actions, slow down")
		return
	}

	action, err := DecodeAction(data)
	if err != nil {
		s.fail("could not understand that action")
		return
	}

	switch action.Type {
	case ActionLobbyChat:
		s.handleLobbyChat(action)
	case ActionCreateRoom:
		s.handleCreateRoom(action)
	case ActionJoinRoom:
		s.handleJoinRoom(action)
	case ActionRoomChat:
		s.handleRoomChat(action)
	case ActionRequestHint:
		s.handleRequestHint()
	case ActionSubmitGuess:
		s.handleSubmitGuess(action)
	default:
		s.fail("unknown action type")
	}
}

// HandleDisconnect broadcasts the departure to the bound room, removes the
// participant (destroying the room when the roster empties), and drops the
// connection from the hub.
func (s *Session) HandleDisconnect() {
	if code := s.currentRoom; code != "" {
		lock := s.hub.RoomLock(code)
		lock.Lock()
		s.hub.BroadcastRoomExcept(code, s.id, Event{
			Type:    EventParticipantLeft,
			Payload: ParticipantLeftPayload{ID: s.id},
		})
		if _, err := s.registry.Leave(code, s.id); err != nil && !errors.Is(err, room.ErrRoomNotFound) {
			s.logger.Warn("removing participant on disconnect", zap.String("code", code), zap.Error(err))
		}
		lock.Unlock()
		s.hub.UnbindRoom(s.id, code)
		s.currentRoom = ""
	}
	s.hub.Unregister(s.id)
}

func (s *Session) handleLobbyChat(action ClientAction) {
	if action.Text == "" {
		s.fail("lobby message is empty")
		return
	}
	s.lobby.Post(s.id, action.Text)
}

func (s *Session) handleCreateRoom(action ClientAction) {
	if s.currentRoom != "" {
		s.fail("already in a room")
		return
	}

	r, err := s.registry.Create(action.Mode)
	if err != nil {
		s.fail(err.Error())
		return
	}

	state, err := r.Join(s.id, action.AvatarStyle, action.AvatarOptions)
	if err != nil {
		// The creator is the only one who knows the code at this point,
		// so a failed join leaves an unreachable room behind.
		s.registry.Remove(r.Code())
		s.fail(err.Error())
		return
	}

	s.currentRoom = r.Code()
	s.hub.BindRoom(s.id, r.Code())
	s.hub.SendTo(s.id, Event{Type: EventRoomCreated, Payload: RoomCreatedPayload{Code: r.Code()}})
	s.hub.SendTo(s.id, Event{Type: EventRoomJoined, Payload: state})

	s.logger.Info("room created and joined", zap.String("code", r.Code()))
}

func (s *Session) handleJoinRoom(action ClientAction) {
	if s.currentRoom != "" {
		s.fail("already in a room")
		return
	}

	r, err := s.registry.Get(action.Code)
	if err != nil {
		s.fail("no room with that code")
		return
	}

	lock := s.hub.RoomLock(r.Code())
	lock.Lock()
	defer lock.Unlock()

	// The last participant may have left between the registry lookup and
	// taking the lock; a destroyed room must not hand out a snapshot.
	if _, err := s.registry.Get(action.Code); err != nil {
		s.fail("no room with that code")
		return
	}

	state, err := r.Join(s.id, action.AvatarStyle, action.AvatarOptions)
	if err != nil {
		s.fail(err.Error())
		return
	}

	s.currentRoom = r.Code()
	s.hub.BindRoom(s.id, r.Code())
	s.hub.SendTo(s.id, Event{Type: EventRoomJoined, Payload: state})
	s.hub.BroadcastRoomExcept(r.Code(), s.id, Event{
		Type: EventParticipantJoined,
		Payload: ParticipantJoinedPayload{
			Participant: state.Roster[len(state.Roster)-1],
		},
	})

	s.logger.Info("joined room", zap.String("code", r.Code()))
}

func (s *Session) handleRoomChat(action ClientAction) {
	r, ok := s.boundRoom()
	if !ok {
		return
	}
	if action.Text == "" {
		s.fail("room message is empty")
		return
	}

	lock := s.hub.RoomLock(r.Code())
	lock.Lock()
	defer lock.Unlock()

	msg, err := r.PostChat(s.id, action.Text)
	if err != nil {
		s.fail(err.Error())
		return
	}
	// The stored message already carries the truncated sender, so the
	// broadcast and a late joiner's snapshot show the same string.
	s.hub.BroadcastRoom(r.Code(), Event{Type: EventRoomMessage, Payload: msg})
}

func (s *Session) handleRequestHint() {
	r, ok := s.boundRoom()
	if !ok {
		return
	}

	lock := s.hub.RoomLock(r.Code())
	lock.Lock()
	defer lock.Unlock()

	reveal, err := r.RequestHint()
	if err != nil {
		s.fail(err.Error())
		return
	}
	s.hub.BroadcastRoom(r.Code(), Event{Type: EventHintRevealed, Payload: reveal})
}

func (s *Session) handleSubmitGuess(action ClientAction) {
	r, ok := s.boundRoom()
	if !ok {
		return
	}

	lock := s.hub.RoomLock(r.Code())
	lock.Lock()
	defer lock.Unlock()

	outcome, err := r.SubmitGuess(s.id, action.Guess)
	if err != nil {
		s.fail(err.Error())
		return
	}

	s.hub.BroadcastRoom(r.Code(), Event{Type: EventGuessResult, Payload: outcome})

	if outcome.GameOver {
		s.hub.BroadcastRoom(r.Code(), Event{
			Type: EventGameOver,
			Payload: GameOverPayload{
				Winner: outcome.Winner,
				Word:   r.Target(),
				Clue:   r.Clue(),
			},
		})
		s.registry.Remove(r.Code())
		s.logger.Info("game over",
			zap.String("code", r.Code()),
			zap.String("winner", outcome.Winner),
		)
	}
}

// boundRoom resolves the session's current room, reporting a state error to
// the connection when unbound or when the room no longer exists. A stale
// binding to a destroyed room is cleared on the way out.
func (s *Session) boundRoom() (*room.Room, bool) {
	if s.currentRoom == "" {
		s.fail("not in a room")
		return nil, false
	}
	r, err := s.registry.Get(s.currentRoom)
	if err != nil {
		s.hub.UnbindRoom(s.id, s.currentRoom)
		s.currentRoom = ""
		s.fail("that room is gone")
		return nil, false
	}
	return r, true
}

func (s *Session) fail(message string) {
	s.hub.SendTo(s.id, errorEvent(message))
}
