package room

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/geoguess/internal/game/hint"
	"github.com/cory-johannsen/geoguess/internal/game/words"
)

// codeAlphabet is the alphabet room codes are drawn from.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Registry owns every live room and hands out collision-free room codes.
// Registry mutation is guarded separately from each room's own mutex.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]*Room
	pool       *words.Pool
	hints      *hint.Provider
	codeLength int
	maxGuesses int
	chatLimit  int
	logger     *zap.Logger
}

// NewRegistry creates an empty Registry.
//
// Precondition: pool, hints, and logger must be non-nil; codeLength,
// maxGuesses, and chatLimit must be >= 1.
func NewRegistry(pool *words.Pool, hints *hint.Provider, codeLength, maxGuesses, chatLimit int, logger *zap.Logger) *Registry {
	return &Registry{
		rooms:      make(map[string]*Room),
		pool:       pool,
		hints:      hints,
		codeLength: codeLength,
		maxGuesses: maxGuesses,
		chatLimit:  chatLimit,
		logger:     logger,
	}
}

// Create draws a target word for the given mode, generates a code that
// collides with no live room, and registers the new room.
//
// Postcondition: Returns the new open Room, or a non-nil error for an
// invalid mode. No two live rooms ever share a code.
func (g *Registry) Create(rawMode string) (*Room, error) {
	mode, err := words.ParseMode(rawMode)
	if err != nil {
		return nil, err
	}

	target, err := g.pool.Draw(mode)
	if err != nil {
		return nil, fmt.Errorf("drawing target word: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	code := g.generateCodeLocked()
	r := newRoom(code, mode, target, g.hints.LocationClue(target), g.maxGuesses, g.chatLimit)
	g.rooms[code] = r

	g.logger.Info("room created",
		zap.String("code", code),
		zap.String("mode", string(mode)),
		zap.Int("word_length", len(target)),
	)
	return r, nil
}

// Get resolves a code to its live room.
//
// Postcondition: Returns ErrRoomNotFound for any code without a live room,
// including codes of rooms already destroyed.
func (g *Registry) Get(code string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Remove deletes the room for code and transitions it to its terminal
// state, so a stale pointer held by another session rejects every mutation.
// Removal is idempotent; a removed code stays dead until garbage-collected
// here, it is never resurrected.
func (g *Registry) Remove(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.rooms[code]
	if !ok {
		return
	}
	r.markRemoved()
	delete(g.rooms, code)
	g.logger.Info("room removed", zap.String("code", code))
}

// Leave removes a participant from the room for code and destroys the room
// when the roster empties, regardless of game outcome.
//
// Postcondition: Returns the remaining participant count, or an error when
// the room or participant does not exist.
func (g *Registry) Leave(code, participantID string) (remaining int, err error) {
	r, err := g.Get(code)
	if err != nil {
		return 0, err
	}
	remaining, err = r.Leave(participantID)
	if err != nil {
		return remaining, err
	}
	if remaining == 0 {
		g.Remove(code)
	}
	return remaining, nil
}

// Count returns the number of live rooms.
func (g *Registry) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

func (g *Registry) generateCodeLocked() string {
	buf := make([]byte, g.codeLength)
	for {
		for i := range buf {
			buf[i] = codeAlphabet[randomBelow(len(codeAlphabet))]
		}
		code := string(buf)
		if _, taken := g.rooms[code]; !taken {
			return code
		}
	}
}
