package room

import "strings"

// Mark classifies a single guessed letter against the target word.
type Mark string

const (
	MarkCorrect Mark = "correct"
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
)

// LetterMark pairs a guessed letter with its classification.
type LetterMark struct {
	Letter string `json:"letter"`
	Mark   Mark   `json:"mark"`
}

// Evaluate compares a guess against the target word position by position.
// Both strings must have equal length. A letter that misses its position is
// marked present whenever the target contains it anywhere; the test is plain
// membership, deliberately not frequency-limited, so a letter appearing once
// in the target can mark present at several guess positions.
//
// Precondition: len(guess) == len(target); both uppercase.
// Postcondition: Returns one LetterMark per position, never nil for non-empty input.
func Evaluate(guess, target string) []LetterMark {
	feedback := make([]LetterMark, len(guess))
	for i := 0; i < len(guess); i++ {
		letter := string(guess[i])
		switch {
		case guess[i] == target[i]:
			feedback[i] = LetterMark{Letter: letter, Mark: MarkCorrect}
		case strings.ContainsRune(target, rune(guess[i])):
			feedback[i] = LetterMark{Letter: letter, Mark: MarkPresent}
		default:
			feedback[i] = LetterMark{Letter: letter, Mark: MarkAbsent}
		}
	}
	return feedback
}
