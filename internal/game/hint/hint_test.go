package hint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/geoguess/internal/game/words"
)

func TestLocationClueFromTable(t *testing.T) {
	p := NewProvider([]words.Entry{
		{Name: "Spain", Clue: "Home of flamenco."},
		{Name: "Sri Lanka", Clue: "Teardrop island."},
	})

	assert.Equal(t, "Home of flamenco.", p.LocationClue("SPAIN"))
	assert.Equal(t, "Teardrop island.", p.LocationClue("SRILANKA"))
}

func TestLocationClueFallback(t *testing.T) {
	p := NewProvider([]words.Entry{{Name: "Spain", Clue: "Home of flamenco."}})

	assert.Equal(t,
		"This 4 letter location is waiting to be discovered!",
		p.LocationClue("PERU"),
	)
	assert.Equal(t,
		"This 6 letter location is waiting to be discovered!",
		p.LocationClue("MONACO"),
	)
}

func TestEntriesWithoutCluesFallThrough(t *testing.T) {
	p := NewProvider([]words.Entry{{Name: "Peru"}})
	assert.Equal(t,
		"This 4 letter location is waiting to be discovered!",
		p.LocationClue("PERU"),
	)
}

func TestNilEntries(t *testing.T) {
	p := NewProvider(nil)
	assert.NotEmpty(t, p.LocationClue("CHILE"))
}
