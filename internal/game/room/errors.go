package room

import "errors"

var (
	// ErrRoomNotFound is returned when a code resolves to no live room.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomFinished is returned for any operation on a finished room.
	ErrRoomFinished = errors.New("room already finished")
	// ErrDuplicateParticipant is returned when a participant ID is already present.
	ErrDuplicateParticipant = errors.New("participant already in room")
	// ErrUnknownParticipant is returned when an operation names an absent participant.
	ErrUnknownParticipant = errors.New("participant not in room")
	// ErrNoHintsLeft is returned once every letter index has been revealed.
	ErrNoHintsLeft = errors.New("no unrevealed letters left")
	// ErrInvalidCharacters is returned when a guess contains anything other
	// than letters after normalization.
	ErrInvalidCharacters = errors.New("guess may only contain letters")
	// ErrWrongLength is returned when a guess length differs from the target length.
	ErrWrongLength = errors.New("guess length does not match target word")
	// ErrEmptyGuess is returned when a guess is empty after normalization.
	ErrEmptyGuess = errors.New("guess is empty")
)
