package words

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// yamlWordFile is the top-level YAML structure for word dataset files.
type yamlWordFile struct {
	Words []yamlWord `yaml:"words"`
}

// yamlWord is the YAML representation of a single location entry.
type yamlWord struct {
	Name string `yaml:"name"`
	Clue string `yaml:"clue"`
}

// LoadEntriesFromBytes parses word entries from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the word file schema.
// Postcondition: Returns at least one entry or a non-nil error.
func LoadEntriesFromBytes(data []byte) ([]Entry, error) {
	var file yamlWordFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing word YAML: %w", err)
	}

	entries := make([]Entry, 0, len(file.Words))
	for i, w := range file.Words {
		if Normalize(w.Name) == "" {
			return nil, fmt.Errorf("word entry %d has no letters in name %q", i, w.Name)
		}
		entries = append(entries, Entry{Name: w.Name, Clue: w.Clue})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("word file contains no entries")
	}
	return entries, nil
}

// LoadEntriesFromFile reads and parses a single word dataset file.
//
// Precondition: path must point to a valid YAML word file.
// Postcondition: Returns the parsed entries or a non-nil error.
func LoadEntriesFromFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading word file %s: %w", path, err)
	}
	entries, err := LoadEntriesFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return entries, nil
}

// LoadDataset reads countries.yaml and capitals.yaml from a content
// directory.
//
// Precondition: dir must contain both dataset files.
// Postcondition: Returns both entry slices, each non-empty, or a non-nil error.
func LoadDataset(dir string) (countries, capitals []Entry, err error) {
	countries, err = LoadEntriesFromFile(filepath.Join(dir, "countries.yaml"))
	if err != nil {
		return nil, nil, err
	}
	capitals, err = LoadEntriesFromFile(filepath.Join(dir, "capitals.yaml"))
	if err != nil {
		return nil, nil, err
	}
	return countries, capitals, nil
}
