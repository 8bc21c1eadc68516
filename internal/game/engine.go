// apps/go-server/internal/game/engine.go
//
// Guess engine for a single game.
// Responsibilities:
//   - Hold the target word, the current (unsubmitted) guess and the history
//     of accepted guesses.
//   - Edit the current guess letter by letter (type / backspace).
//   - Validate submissions (complete, known word or known word + suffix).
//   - Score guesses using the two-pass algorithm.
//   - Track alphabet knowledge and transitions: playing → won/lost.
//
// Notes:
//   - The engine never performs I/O; the dictionary is borrowed per call.
//   - Restarting a game means building a new Engine.
package game

import (
	"strings"
)

// Engine is the state machine for one game. It is not safe for concurrent
// use; callers own an Engine exclusively (see store.Session for locking).
type Engine struct {
	target   Letters
	current  Letters
	cursor   int
	history  []GuessRecord
	alphabet [26]LetterState
	status   Status
	policy   KnowledgePolicy
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithKnowledgePolicy replaces the default OverwritePolicy.
func WithKnowledgePolicy(p KnowledgePolicy) Option {
	return func(e *Engine) {
		if p != nil {
			e.policy = p
		}
	}
}

// New constructs an active engine for target. The target is matched
// case-insensitively and must be exactly WordLength ASCII letters.
func New(target string, opts ...Option) (*Engine, error) {
	target = strings.ToUpper(strings.TrimSpace(target))
	if len(target) != WordLength {
		return nil, ErrInvalidTarget
	}
	e := &Engine{policy: OverwritePolicy}
	for i := 0; i < WordLength; i++ {
		c := rune(target[i])
		if c < 'A' || c > 'Z' {
			return nil, ErrInvalidTarget
		}
		e.target[i] = c
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// TypeLetter writes r into the slot under the cursor and advances the
// cursor, which stops at the last slot. Non-letters are ignored, as is any
// input once the game is finished. It reports whether the buffer changed.
func (e *Engine) TypeLetter(r rune) bool {
	if e.status.Finished() {
		return false
	}
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	if r < 'A' || r > 'Z' {
		return false
	}
	e.current[e.cursor] = r
	if e.cursor < WordLength-1 {
		e.cursor++
	}
	return true
}

// Backspace clears the slot under the cursor if it holds a letter.
// Otherwise it steps the cursor back one slot (not past the first) and
// clears that slot instead.
func (e *Engine) Backspace() {
	if e.status.Finished() {
		return
	}
	if e.current[e.cursor] != 0 {
		e.current[e.cursor] = 0
		return
	}
	if e.cursor > 0 {
		e.cursor--
		e.current[e.cursor] = 0
	}
}

// ClearGuess empties the current guess and moves the cursor home.
func (e *Engine) ClearGuess() {
	e.current = Letters{}
	e.cursor = 0
}

// SubmitGuess validates the current guess against dict and, if accepted,
// scores it and records it.
//
// Rejections (InvalidGuess) and calls on a finished game leave the engine
// untouched; the returned error says which case applied:
//   - ErrGameOver:        the game already ended; its terminal outcome is re-reported.
//   - ErrIncompleteGuess: at least one slot is empty.
//   - ErrNotInDictionary: neither the word nor a suffix-stripped base is known.
func (e *Engine) SubmitGuess(dict Dictionary) (Outcome, error) {
	if e.status == StatusWon {
		return Won, ErrGameOver
	}
	if len(e.history) >= MaxAttempts {
		return Lost, ErrGameOver
	}

	for _, r := range e.current {
		if r == 0 {
			return InvalidGuess, ErrIncompleteGuess
		}
	}
	guess := e.current
	if !isKnownWord(strings.ToLower(string(guess[:])), dict) {
		return InvalidGuess, ErrNotInDictionary
	}

	fb := score(e.target, guess)
	e.history = append(e.history, GuessRecord{Letters: guess, Feedback: fb})
	e.ClearGuess()
	for i, r := range guess {
		j := idx(r)
		e.alphabet[j] = e.policy(e.alphabet[j], fb[i])
	}

	switch {
	case fb.Solved():
		e.status = StatusWon
		return Won, nil
	case len(e.history) >= MaxAttempts:
		e.status = StatusLost
		return Lost, nil
	}
	return Accepted, nil
}

// score implements the two-pass algorithm.
//
// Pass 1:
//   - Mark exact matches as Correct.
//   - Count the remaining (non-correct) target letters.
//
// Pass 2:
//   - For each non-correct guess letter: if a count remains for that letter,
//     mark Present and decrement; otherwise mark Wrong.
//
// A guess letter is therefore never reported Present more often than it
// occurs in the unmatched part of the target.
func score(target, guess Letters) Feedback {
	var fb Feedback
	var counts [26]int

	for i := 0; i < WordLength; i++ {
		if guess[i] == target[i] {
			fb[i] = Correct
		} else {
			counts[idx(target[i])]++
		}
	}

	for i := 0; i < WordLength; i++ {
		if fb[i] == Correct {
			continue
		}
		j := idx(guess[i])
		if counts[j] > 0 {
			fb[i] = Present
			counts[j]--
		} else {
			fb[i] = Wrong
		}
	}
	return fb
}

// suffixes are tried in order when the guess itself is not a dictionary key.
var suffixes = []string{"s", "es", "ed", "ing"}

// isKnownWord reports whether word, or word with one inflection suffix
// removed, is a dictionary key. word must already be lowercase.
func isKnownWord(word string, dict Dictionary) bool {
	if dict == nil {
		return false
	}
	if dict.Contains(word) {
		return true
	}
	for _, suf := range suffixes {
		if base, ok := strings.CutSuffix(word, suf); ok && base != "" && dict.Contains(base) {
			return true
		}
	}
	return false
}

// idx maps an uppercase ASCII letter to 0..25.
// Inputs are validated to A–Z before they reach the engine state.
func idx(r rune) int { return int(r - 'A') }

// ---------------------------------------------------------------- accessors

// Status reports where the engine is in its lifecycle.
func (e *Engine) Status() Status { return e.status }

// Attempts is the number of accepted guesses so far.
func (e *Engine) Attempts() int { return len(e.history) }

// Remaining is the number of attempts left.
func (e *Engine) Remaining() int { return MaxAttempts - len(e.history) }

// CurrentGuess returns a copy of the unsubmitted guess buffer.
func (e *Engine) CurrentGuess() Letters { return e.current }

// Cursor is the slot the next typed letter goes into.
func (e *Engine) Cursor() int { return e.cursor }

// History returns a copy of the accepted guesses, oldest first.
func (e *Engine) History() []GuessRecord {
	out := make([]GuessRecord, len(e.history))
	copy(out, e.history)
	return out
}

// Alphabet returns the known state of every letter A–Z.
func (e *Engine) Alphabet() map[rune]LetterState {
	out := make(map[rune]LetterState, len(e.alphabet))
	for i, s := range e.alphabet {
		out[rune('A'+i)] = s
	}
	return out
}

// LetterState returns the known state of a single letter; anything outside
// a–z/A–Z is Unknown.
func (e *Engine) LetterState(r rune) LetterState {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	if r < 'A' || r > 'Z' {
		return Unknown
	}
	return e.alphabet[idx(r)]
}

// Target returns the uppercase target word. Callers should only reveal it
// once Status().Finished() is true.
func (e *Engine) Target() string { return string(e.target[:]) }
