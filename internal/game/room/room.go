// Package room implements the per-session game state machine: the target
// word, the participant roster, guess evaluation, letter hints, and room
// chat, plus the registry that owns all live rooms.
package room

import (
	"crypto/rand"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/geoguess/internal/game/chat"
	"github.com/cory-johannsen/geoguess/internal/game/words"
)

// State is the room lifecycle phase.
type State int

const (
	// StateOpen accepts participants, guesses, hints, and chat.
	StateOpen State = iota
	// StateFinished means a winning guess was made or a participant
	// exhausted the attempt budget. Finished rooms leave the registry.
	StateFinished
	// StateRemoved marks a room deleted from the registry. Stale pointers
	// to a removed room reject every mutation.
	StateRemoved
)

// Avatar describes how a participant is rendered by the external avatar
// provider. The server never interprets it beyond passing it through.
type Avatar struct {
	Style   string            `json:"style"`
	Options map[string]string `json:"options"`
	Seed    string            `json:"seed"`
}

// Participant is one connected player inside a room.
type Participant struct {
	ID      string
	Avatar  Avatar
	Guesses []string
}

// RosterEntry is the broadcast-safe view of a participant.
type RosterEntry struct {
	ID     string `json:"id"`
	Avatar Avatar `json:"avatar"`
}

// JoinState is the full snapshot a joining connection needs to reconstruct
// room state without replaying past events.
type JoinState struct {
	Code       string         `json:"code"`
	WordLength int            `json:"wordLength"`
	MaxGuesses int            `json:"maxGuesses"`
	Clue       string         `json:"clue"`
	You        string         `json:"you"`
	Roster     []RosterEntry  `json:"roster"`
	Chat       []chat.Message `json:"chat"`
}

// HintReveal is the result of a successful hint request, identical for
// every participant of the room.
type HintReveal struct {
	Index  int    `json:"index"`
	Letter string `json:"letter"`
	Clue   string `json:"clue"`
}

// GuessOutcome is the result of an accepted guess.
type GuessOutcome struct {
	Participant string       `json:"participant"`
	Guess       string       `json:"guess"`
	Feedback    []LetterMark `json:"feedback"`
	GameOver    bool         `json:"gameOver"`
	Winner      string       `json:"winner,omitempty"`
}

// Room is one game session bound to a single target word. All methods are
// safe for concurrent use; every read-modify-write runs under the room mutex
// so participants observe guesses, hints, and chat in mutation order.
type Room struct {
	mu           sync.Mutex
	code         string
	mode         words.Mode
	target       string
	clue         string
	maxGuesses   int
	state        State
	participants map[string]*Participant
	order        []string
	revealed     map[int]struct{}
	chat         *chat.Log
}

func newRoom(code string, mode words.Mode, target, clue string, maxGuesses, chatLimit int) *Room {
	return &Room{
		code:         code,
		mode:         mode,
		target:       target,
		clue:         clue,
		maxGuesses:   maxGuesses,
		state:        StateOpen,
		participants: make(map[string]*Participant),
		revealed:     make(map[int]struct{}),
		chat:         chat.NewLog(chatLimit),
	}
}

// Code returns the room's registry code.
func (r *Room) Code() string { return r.code }

// Mode returns the word pool mode the room was created with.
func (r *Room) Mode() words.Mode { return r.mode }

// Target returns the hidden target word. Callers must only disclose it to
// clients once the room has finished.
func (r *Room) Target() string { return r.target }

// Clue returns the location clue for the target word.
func (r *Room) Clue() string { return r.clue }

// WordLength returns the target word length reported to all clients.
func (r *Room) WordLength() int { return len(r.target) }

// State returns the current lifecycle phase.
func (r *Room) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// ParticipantCount returns the current roster size.
func (r *Room) ParticipantCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants)
}

// Join adds a participant with an empty guess history and a freshly
// generated avatar seed, and returns the full join snapshot.
//
// Precondition: id must be unique among live connections.
// Postcondition: Returns the JoinState, or ErrDuplicateParticipant /
// ErrRoomFinished without mutating the room.
func (r *Room) Join(id string, style string, options map[string]string) (JoinState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateOpen {
		return JoinState{}, ErrRoomFinished
	}
	if _, exists := r.participants[id]; exists {
		return JoinState{}, ErrDuplicateParticipant
	}

	r.participants[id] = &Participant{
		ID: id,
		Avatar: Avatar{
			Style:   style,
			Options: options,
			Seed:    uuid.NewString(),
		},
	}
	r.order = append(r.order, id)

	return JoinState{
		Code:       r.code,
		WordLength: len(r.target),
		MaxGuesses: r.maxGuesses,
		Clue:       r.clue,
		You:        id,
		Roster:     r.rosterLocked(),
		Chat:       r.chat.Messages(),
	}, nil
}

// Leave removes a participant and reports how many remain. The caller is
// responsible for destroying the room when the roster empties.
//
// Postcondition: Returns ErrUnknownParticipant if id is not present.
func (r *Room) Leave(id string) (remaining int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.participants[id]; !exists {
		return len(r.participants), ErrUnknownParticipant
	}
	delete(r.participants, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return len(r.participants), nil
}

// RequestHint reveals one uniformly chosen letter index that has not been
// revealed before. Hints are room-global and consumed once.
//
// Postcondition: Returns ErrNoHintsLeft once every index is revealed; the
// same index is never revealed twice within a room's lifetime.
func (r *Room) RequestHint() (HintReveal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateOpen {
		return HintReveal{}, ErrRoomFinished
	}

	unrevealed := make([]int, 0, len(r.target))
	for i := 0; i < len(r.target); i++ {
		if _, done := r.revealed[i]; !done {
			unrevealed = append(unrevealed, i)
		}
	}
	if len(unrevealed) == 0 {
		return HintReveal{}, ErrNoHintsLeft
	}

	idx := unrevealed[randomBelow(len(unrevealed))]
	r.revealed[idx] = struct{}{}

	return HintReveal{
		Index:  idx,
		Letter: string(r.target[idx]),
		Clue:   r.clue,
	}, nil
}

// SubmitGuess normalizes and evaluates a guess for the given participant.
// A guess equal to the target finishes the room with that participant as
// winner; a participant spending their attempt budget finishes the room
// with no winner.
//
// Postcondition: On success the guess is appended to the participant's
// history and feedback covers every letter position. Validation failures
// leave the room unchanged.
func (r *Room) SubmitGuess(id, raw string) (GuessOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateOpen {
		return GuessOutcome{}, ErrRoomFinished
	}

	p, exists := r.participants[id]
	if !exists {
		return GuessOutcome{}, ErrUnknownParticipant
	}

	guess := strings.ToUpper(strings.TrimSpace(raw))
	if guess == "" {
		return GuessOutcome{}, ErrEmptyGuess
	}
	// Targets are plain A-Z, so a multibyte or digit-bearing guess can never
	// match and would produce per-byte feedback fragments.
	for _, c := range guess {
		if c < 'A' || c > 'Z' {
			return GuessOutcome{}, ErrInvalidCharacters
		}
	}
	if len(guess) != len(r.target) {
		return GuessOutcome{}, ErrWrongLength
	}

	p.Guesses = append(p.Guesses, guess)

	outcome := GuessOutcome{
		Participant: id,
		Guess:       guess,
		Feedback:    Evaluate(guess, r.target),
	}

	switch {
	case guess == r.target:
		r.state = StateFinished
		outcome.GameOver = true
		outcome.Winner = id
	case len(p.Guesses) >= r.maxGuesses:
		r.state = StateFinished
		outcome.GameOver = true
	}
	return outcome, nil
}

// PostChat appends a message to the room chat log, evicting the oldest
// entry when the bounded capacity is exceeded.
//
// Postcondition: Returns the stored message, or ErrUnknownParticipant /
// ErrRoomFinished without side effect.
func (r *Room) PostChat(id, text string) (chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateOpen {
		return chat.Message{}, ErrRoomFinished
	}
	if _, exists := r.participants[id]; !exists {
		return chat.Message{}, ErrUnknownParticipant
	}

	msg := chat.Message{Sender: chat.DisplayName(id), Text: text, SentAt: time.Now().UTC()}
	r.chat.Append(msg)
	return msg, nil
}

// markRemoved transitions the room to its terminal removed state. Only the
// registry calls this, as the single deletion path.
func (r *Room) markRemoved() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = StateRemoved
}

// Roster returns the broadcast-safe participant list in join order.
func (r *Room) Roster() []RosterEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rosterLocked()
}

func (r *Room) rosterLocked() []RosterEntry {
	roster := make([]RosterEntry, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.participants[id]; ok {
			roster = append(roster, RosterEntry{ID: p.ID, Avatar: p.Avatar})
		}
	}
	return roster
}

// RevealedCount returns how many letter indices have been revealed so far.
func (r *Room) RevealedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.revealed)
}

// GuessCount returns how many guesses the given participant has submitted.
func (r *Room) GuessCount(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.participants[id]; ok {
		return len(p.Guesses)
	}
	return 0
}

func randomBelow(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
