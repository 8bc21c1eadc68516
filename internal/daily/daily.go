// apps/go-server/internal/daily/daily.go
//
// Deterministic "word of the day" selection.
// Every player gets the same target on the same UTC date; the index into the
// sorted word list is HMAC(salt, YYYY-MM-DD) so the sequence cannot be
// predicted without the salt.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/lexicle/apps/go-server/internal/dictionary"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Selector picks the word of the day from a dictionary.
// It satisfies dictionary.Selector.
type Selector struct {
	Dict *dictionary.Dictionary
	Salt string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Select returns today's word of the given length.
func (s *Selector) Select(length int) (dictionary.Entry, error) {
	e, _, err := s.SelectFor(s.now(), length)
	return e, err
}

// SelectFor returns the word for date together with its index in the
// sorted word list.
func (s *Selector) SelectFor(date time.Time, length int) (dictionary.Entry, int, error) {
	idx := -1
	e, err := s.Dict.Pick(length, func(n int) int {
		idx = WordIndex(date, s.Salt, n)
		return idx
	})
	return e, idx, err
}

// SelectToday returns today's word, the date key it belongs to and its index.
func (s *Selector) SelectToday(length int) (dictionary.Entry, string, int, error) {
	now := s.now()
	e, idx, err := s.SelectFor(now, length)
	return e, DateKey(now), idx, err
}

// Today returns the current date key.
func (s *Selector) Today() string { return DateKey(s.now()) }

func (s *Selector) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
