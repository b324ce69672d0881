package gateway

import (
	"sync"

	"github.com/samber/lo"
)

// Sink receives encoded server events for one connection. Push must not
// block; implementations report an error when the connection can no longer
// accept events.
type Sink interface {
	Push(data []byte) error
}

// Hub tracks every live connection and which room each one occupies, and
// addresses broadcasts to one connection, one room's membership, or all
// connections. All methods are safe for concurrent use.
type Hub struct {
	mu       sync.RWMutex
	sinks    map[string]Sink            // connection ID → sink
	roomSets map[string]map[string]bool // room code → set of connection IDs
	locks    map[string]*sync.Mutex     // room code → action serialization lock
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		sinks:    make(map[string]Sink),
		roomSets: make(map[string]map[string]bool),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Register adds a connection's sink under its ID.
func (h *Hub) Register(id string, sink Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks[id] = sink
}

// Unregister removes a connection and any room membership it still holds.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.sinks, id)
	for code, ids := range h.roomSets {
		if ids[id] {
			delete(ids, id)
			if len(ids) == 0 {
				delete(h.roomSets, code)
			}
		}
	}
}

// BindRoom records that the connection occupies the given room.
func (h *Hub) BindRoom(id, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.roomSets[code] == nil {
		h.roomSets[code] = make(map[string]bool)
	}
	h.roomSets[code][id] = true
}

// UnbindRoom removes the connection from the given room's broadcast group.
func (h *Hub) UnbindRoom(id, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids, ok := h.roomSets[code]
	if !ok {
		return
	}
	delete(ids, id)
	if len(ids) == 0 {
		delete(h.roomSets, code)
	}
}

// RoomLock returns the mutex serializing room-scoped actions for code.
// Holding it across mutate-then-broadcast keeps every participant's view in
// mutation order. A code's mutex lives for the hub's lifetime, so two
// sessions never serialize the same code on different mutexes.
func (h *Hub) RoomLock(code string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.locks[code] == nil {
		h.locks[code] = &sync.Mutex{}
	}
	return h.locks[code]
}

// SendTo delivers an event to a single connection. Unknown IDs and push
// failures are ignored; a dead connection cleans itself up via its read loop.
func (h *Hub) SendTo(id string, event Event) {
	h.mu.RLock()
	sink, ok := h.sinks[id]
	h.mu.RUnlock()
	if ok {
		_ = sink.Push(event.Encode())
	}
}

// BroadcastRoom delivers an event to every connection in the room.
func (h *Hub) BroadcastRoom(code string, event Event) {
	h.broadcastRoom(code, "", event)
}

// BroadcastRoomExcept delivers an event to every connection in the room
// except the named one.
func (h *Hub) BroadcastRoomExcept(code, exceptID string, event Event) {
	h.broadcastRoom(code, exceptID, event)
}

func (h *Hub) broadcastRoom(code, exceptID string, event Event) {
	data := event.Encode()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id := range h.roomSets[code] {
		if id == exceptID {
			continue
		}
		if sink, ok := h.sinks[id]; ok {
			_ = sink.Push(data)
		}
	}
}

// BroadcastAll delivers an event to every live connection.
func (h *Hub) BroadcastAll(event Event) {
	data := event.Encode()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sink := range h.sinks {
		_ = sink.Push(data)
	}
}

// ConnectionCount returns the number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sinks)
}

// ConnectionsInRoom returns the connection IDs in the given room.
func (h *Hub) ConnectionsInRoom(code string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Keys(h.roomSets[code])
}
