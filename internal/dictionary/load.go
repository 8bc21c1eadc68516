package dictionary

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/robalobadob/lexicle/apps/go-server/assets"
)

var (
	// ErrPath wraps failures to open or create a dictionary file.
	ErrPath = errors.New("dictionary: path error")
	// ErrParse wraps failures to decode or encode dictionary JSON.
	ErrParse = errors.New("dictionary: parse error")
	// ErrEmptyDictionary is returned when no word of the requested length exists.
	ErrEmptyDictionary = errors.New("dictionary: no word of the requested length")
	// ErrMissingDefinition is returned when a selected word has no definition.
	ErrMissingDefinition = errors.New("dictionary: selected word has no definition")
)

// Load decodes a JSON object of word → definition.
func Load(r io.Reader) (*Dictionary, error) {
	var raw map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return New(raw), nil
}

// LoadFile reads a JSON dictionary from path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPath, err)
	}
	defer f.Close()
	return Load(f)
}

// SaveFile writes d to path as indented JSON, replacing any existing file.
func SaveFile(d *Dictionary, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPath, err)
	}
	if err := d.WriteJSON(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrPath, err)
	}
	return nil
}

// Default returns the small dictionary embedded in the binary, so the server
// runs even when no DICTIONARY_FILE is configured.
func Default() (*Dictionary, error) {
	f, err := assets.DefaultDictionary()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPath, err)
	}
	defer f.Close()
	return Load(f)
}

// Open loads path when it is set and falls back to the embedded default
// otherwise. The result is cleaned to words of at most wordLength letters.
func Open(path string, wordLength int) (*Dictionary, error) {
	var (
		d   *Dictionary
		err error
	)
	if path != "" {
		d, err = LoadFile(path)
	} else {
		d, err = Default()
	}
	if err != nil {
		return nil, err
	}
	d = d.Clean(wordLength)
	if len(d.byLength[wordLength]) == 0 {
		return nil, ErrEmptyDictionary
	}
	return d, nil
}
