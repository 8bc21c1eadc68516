package dictionary

import (
	"crypto/rand"
	"math/big"
)

// Selector picks the target word for a new game.
type Selector interface {
	Select(length int) (Entry, error)
}

// RandomSelector picks uniformly among the words of the requested length.
type RandomSelector struct {
	dict *Dictionary
	// Intn returns an index in [0, n). Nil means crypto/rand.
	Intn func(n int) int
}

// NewRandomSelector returns a selector over d.
func NewRandomSelector(d *Dictionary) *RandomSelector {
	return &RandomSelector{dict: d}
}

// Select implements Selector.
func (s *RandomSelector) Select(length int) (Entry, error) {
	intn := s.Intn
	if intn == nil {
		intn = cryptoIntn
	}
	return s.dict.Pick(length, intn)
}

// cryptoIntn returns a cryptographically random index in [0, n).
func cryptoIntn(n int) int {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}
