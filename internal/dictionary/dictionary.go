// apps/go-server/internal/dictionary/dictionary.go
//
// Read-only word → definition lookup used to validate guesses and to reveal
// the answer's meaning when a game ends.
//
// Responsibilities:
//   - Normalize keys once at construction (NFC, Unicode case folding, trim).
//   - Answer existence and definition lookups.
//   - Index words by length so selectors can pick a target cheaply.
//   - Produce a cleaned copy (short words of plain a–z) and write it as JSON.
//
// A *Dictionary is immutable after New and safe for concurrent readers.

package dictionary

import (
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Entry is a single word and its definition.
type Entry struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// Dictionary maps lowercase words to definitions.
type Dictionary struct {
	entries  map[string]string
	byLength map[int][]string // sorted words per rune length
}

// New builds a Dictionary from raw entries. Keys are normalized; blank keys
// are dropped. Case folding can merge distinct raw keys ("straße" and
// "strasse" both become "strasse"). On such a collision a raw key that is
// already the folded word, up to case, wins; otherwise the lexically smaller
// raw key wins, so the result does not depend on map order.
func New(raw map[string]string) *Dictionary {
	fold := cases.Fold()
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := &Dictionary{
		entries:  make(map[string]string, len(raw)),
		byLength: make(map[int][]string),
	}
	exact := make(map[string]bool, len(raw))
	for _, k := range keys {
		w := normalize(fold, k)
		if w == "" {
			continue
		}
		literal := strings.ToLower(strings.TrimSpace(k)) == w
		if _, dup := d.entries[w]; dup {
			if literal && !exact[w] {
				d.entries[w] = raw[k]
				exact[w] = true
			}
			continue
		}
		d.entries[w] = raw[k]
		exact[w] = literal
		n := utf8.RuneCountInString(w)
		d.byLength[n] = append(d.byLength[n], w)
	}
	for _, list := range d.byLength {
		sort.Strings(list)
	}
	return d
}

func normalize(fold cases.Caser, s string) string {
	return fold.String(norm.NFC.String(strings.TrimSpace(s)))
}

// Contains reports whether word is a key. word is expected lowercase.
// A nil Dictionary contains nothing.
func (d *Dictionary) Contains(word string) bool {
	if d == nil {
		return false
	}
	_, ok := d.entries[word]
	return ok
}

// Definition returns the definition of word, if present.
func (d *Dictionary) Definition(word string) (string, bool) {
	if d == nil {
		return "", false
	}
	def, ok := d.entries[strings.ToLower(word)]
	return def, ok
}

// Len returns the number of words.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Words returns the sorted words of the given length, or all words when
// length <= 0. The returned slice is a copy.
func (d *Dictionary) Words(length int) []string {
	if d == nil {
		return nil
	}
	if length > 0 {
		return append([]string(nil), d.byLength[length]...)
	}
	out := make([]string, 0, len(d.entries))
	for w := range d.entries {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Pick selects one word of the given length using choose, which must return
// an index in [0, n). It fails with ErrEmptyDictionary when no word has that
// length and ErrMissingDefinition when the chosen word has a blank definition.
func (d *Dictionary) Pick(length int, choose func(n int) int) (Entry, error) {
	if d == nil {
		return Entry{}, ErrEmptyDictionary
	}
	list := d.byLength[length]
	if len(list) == 0 {
		return Entry{}, ErrEmptyDictionary
	}
	i := choose(len(list))
	if i < 0 || i >= len(list) {
		i = 0
	}
	w := list[i]
	def := d.entries[w]
	if strings.TrimSpace(def) == "" {
		return Entry{Word: w}, ErrMissingDefinition
	}
	return Entry{Word: w, Definition: def}, nil
}

// Clean returns a copy holding only words of at most maxLen letters made
// solely of a–z. Hyphens, spaces, apostrophes and accented letters are
// dropped, since the engine only accepts ASCII targets and guesses.
// Shorter words are kept on purpose: they are the bases that inflected
// guesses ("boats" → "boat") are validated against.
func (d *Dictionary) Clean(maxLen int) *Dictionary {
	out := &Dictionary{
		entries:  make(map[string]string),
		byLength: make(map[int][]string),
	}
	if d == nil {
		return out
	}
	for n, list := range d.byLength {
		if n > maxLen {
			continue
		}
		for _, w := range list {
			if !plainWord(w) {
				continue
			}
			out.entries[w] = d.entries[w]
			out.byLength[n] = append(out.byLength[n], w)
		}
	}
	return out
}

// plainWord reports whether w is non-empty and made only of a–z.
func plainWord(w string) bool {
	if w == "" {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

// WriteJSON writes the dictionary as an indented JSON object with sorted keys.
func (d *Dictionary) WriteJSON(w io.Writer) error {
	if d == nil {
		return errors.New("dictionary: nil")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	// encoding/json sorts map keys.
	return enc.Encode(d.entries)
}
