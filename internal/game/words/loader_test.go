package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEntriesFromBytes(t *testing.T) {
	entries, err := LoadEntriesFromBytes([]byte(`
words:
  - name: Spain
    clue: "Home of flamenco."
  - name: Japan
`))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Spain", entries[0].Name)
	assert.Equal(t, "Home of flamenco.", entries[0].Clue)
	assert.Empty(t, entries[1].Clue)
}

func TestLoadEntriesFromBytesMalformed(t *testing.T) {
	_, err := LoadEntriesFromBytes([]byte(`words: [`))
	assert.Error(t, err)
}

func TestLoadEntriesFromBytesEmpty(t *testing.T) {
	_, err := LoadEntriesFromBytes([]byte(`words: []`))
	assert.Error(t, err)
}

func TestLoadEntriesFromBytesRejectsLetterlessName(t *testing.T) {
	_, err := LoadEntriesFromBytes([]byte(`
words:
  - name: "1234"
`))
	assert.Error(t, err)
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "countries.yaml"), []byte(`
words:
  - name: Spain
    clue: "Flamenco."
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "capitals.yaml"), []byte(`
words:
  - name: Madrid
    clue: "Prado."
`), 0644))

	countries, capitals, err := LoadDataset(dir)
	require.NoError(t, err)
	assert.Len(t, countries, 1)
	assert.Len(t, capitals, 1)

	pool, err := NewPool(countries, capitals)
	require.NoError(t, err)
	assert.True(t, pool.Contains(ModeCountries, "SPAIN"))
	assert.True(t, pool.Contains(ModeCities, "MADRID"))
}

func TestLoadDatasetMissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "countries.yaml"), []byte(`
words:
  - name: Spain
`), 0644))

	_, _, err := LoadDataset(dir)
	assert.Error(t, err)
}
