// Package hint maps target words to human-readable location clues.
package hint

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/cory-johannsen/geoguess/internal/game/words"
)

// Provider resolves location clues for target words. It is stateless after
// construction and safe for concurrent use.
type Provider struct {
	clues map[string]string
}

// NewProvider builds a Provider from the dataset entries, keyed by
// normalized word. Entries without a clue fall through to the generic
// template at lookup time.
func NewProvider(entries []words.Entry) *Provider {
	withClues := lo.Filter(entries, func(e words.Entry, _ int) bool {
		return e.Clue != "" && words.Normalize(e.Name) != ""
	})
	return &Provider{
		clues: lo.Associate(withClues, func(e words.Entry) (string, string) {
			return words.Normalize(e.Name), e.Clue
		}),
	}
}

// LocationClue returns the clue for the given word, or a generic templated
// fallback for any word absent from the table.
//
// Postcondition: Returns a non-empty string for any non-empty word.
func (p *Provider) LocationClue(word string) string {
	if clue, ok := p.clues[word]; ok {
		return clue
	}
	return fmt.Sprintf("This %d letter location is waiting to be discovered!", len(word))
}
