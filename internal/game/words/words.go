// Package words provides the read-only word pools that supply target words
// for game rooms: countries, capital cities, and their union.
package words

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Mode selects which pool supplies a target word.
type Mode string

const (
	ModeCountries Mode = "countries"
	ModeCities    Mode = "cities"
	ModeBoth      Mode = "both"
)

// ParseMode validates a raw mode string.
//
// Postcondition: Returns the Mode, or a non-nil error for any unknown value.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeCountries, ModeCities, ModeBoth:
		return Mode(raw), nil
	default:
		return "", fmt.Errorf("unknown game mode %q", raw)
	}
}

// Entry is a single location word with its descriptive clue.
type Entry struct {
	Name string
	Clue string
}

// Pool holds the immutable word pools. It is built once at startup and is
// safe for concurrent reads.
type Pool struct {
	countries []string
	capitals  []string
	both      []string
}

// NewPool builds a Pool from country and capital entries. Names are
// normalized to uppercase letters only; duplicates within a pool collapse.
//
// Precondition: both slices must contain at least one entry with a non-empty
// normalized name.
// Postcondition: Returns a Pool whose three pools are all non-empty, or a
// non-nil error.
func NewPool(countries, capitals []Entry) (*Pool, error) {
	p := &Pool{}

	p.countries = absorb(countries)
	p.capitals = absorb(capitals)

	union := make(map[string]struct{}, len(p.countries)+len(p.capitals))
	for _, w := range p.countries {
		union[w] = struct{}{}
	}
	for _, w := range p.capitals {
		union[w] = struct{}{}
	}
	p.both = make([]string, 0, len(union))
	for w := range union {
		p.both = append(p.both, w)
	}
	sort.Strings(p.both)

	if len(p.countries) == 0 {
		return nil, fmt.Errorf("country pool is empty")
	}
	if len(p.capitals) == 0 {
		return nil, fmt.Errorf("capital pool is empty")
	}
	return p, nil
}

func absorb(entries []Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		w := Normalize(e.Name)
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Draw selects a uniform-random word from the pool for the given mode.
//
// Postcondition: Returns a non-empty uppercase alphabetic word belonging to
// the selected pool, or a non-nil error for an unknown mode.
func (p *Pool) Draw(mode Mode) (string, error) {
	pool, err := p.pool(mode)
	if err != nil {
		return "", err
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	if err != nil {
		// crypto/rand failing is unrecoverable enough that falling back
		// to the first entry keeps the room creation path alive.
		return pool[0], nil
	}
	return pool[n.Int64()], nil
}

// Contains reports whether word belongs to the pool for the given mode.
func (p *Pool) Contains(mode Mode, word string) bool {
	pool, err := p.pool(mode)
	if err != nil {
		return false
	}
	i := sort.SearchStrings(pool, word)
	return i < len(pool) && pool[i] == word
}

// Size returns the number of words in the pool for the given mode.
func (p *Pool) Size(mode Mode) int {
	pool, err := p.pool(mode)
	if err != nil {
		return 0
	}
	return len(pool)
}

func (p *Pool) pool(mode Mode) ([]string, error) {
	switch mode {
	case ModeCountries:
		return p.countries, nil
	case ModeCities:
		return p.capitals, nil
	case ModeBoth:
		return p.both, nil
	default:
		return nil, fmt.Errorf("unknown game mode %q", mode)
	}
}

// Normalize uppercases a location name and strips every non-letter rune,
// so "Sri Lanka" becomes "SRILANKA".
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
