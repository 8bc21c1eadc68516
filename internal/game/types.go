// apps/go-server/internal/game/types.go
//
// Core type definitions for the guess engine.
// Defines:
//   - LetterState: per-letter feedback for a guess (correct/present/wrong),
//     plus Unknown for letters that have not been tried yet.
//   - Outcome: result of a single submission (accepted/invalid/won/lost).
//   - Status: coarse engine state (active/won/lost).
//   - GuessRecord: a frozen, accepted guess with its feedback.
//   - Dictionary: the lookup capability the engine consumes.

package game

import (
	"errors"
	"fmt"
)

const (
	// WordLength is the number of letters in every target and guess.
	WordLength = 5
	// MaxAttempts bounds the number of accepted guesses per game.
	MaxAttempts = 6
)

// Errors returned next to an Outcome to explain why a submission did not
// consume an attempt.
var (
	ErrInvalidTarget   = errors.New("target must be exactly 5 letters a-z")
	ErrIncompleteGuess = errors.New("guess is incomplete")
	ErrNotInDictionary = errors.New("not in dictionary")
	ErrGameOver        = errors.New("game is over")
)

// LetterState is the evaluation of a single letter.
//
// The numeric order is meaningful: Unknown < Wrong < Present < Correct.
// UpgradePolicy relies on it.
type LetterState uint8

const (
	Unknown LetterState = iota
	Wrong
	Present
	Correct
)

var letterStateNames = [...]string{
	Unknown: "unknown",
	Wrong:   "wrong",
	Present: "present",
	Correct: "correct",
}

func (s LetterState) String() string {
	if int(s) < len(letterStateNames) {
		return letterStateNames[s]
	}
	return fmt.Sprintf("LetterState(%d)", uint8(s))
}

// MarshalText encodes the state as its lowercase name for JSON payloads.
func (s LetterState) MarshalText() ([]byte, error) {
	if int(s) >= len(letterStateNames) {
		return nil, fmt.Errorf("game: unknown letter state %d", uint8(s))
	}
	return []byte(letterStateNames[s]), nil
}

// Outcome is the result of one SubmitGuess call. It is a closed set.
type Outcome uint8

const (
	// Accepted means the guess was a valid word and consumed an attempt,
	// but did not solve the puzzle.
	Accepted Outcome = iota + 1
	// InvalidGuess means the guess was incomplete or not a known word.
	// No attempt was consumed.
	InvalidGuess
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case InvalidGuess:
		return "invalid"
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// MarshalText encodes the outcome as its lowercase name.
func (o Outcome) MarshalText() ([]byte, error) {
	switch o {
	case Accepted, InvalidGuess, Won, Lost:
		return []byte(o.String()), nil
	}
	return nil, fmt.Errorf("game: unknown outcome %d", uint8(o))
}

// Status is the state machine position of an Engine.
type Status uint8

const (
	StatusActive Status = iota
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "playing"
	}
}

// MarshalText encodes the status as "playing", "won" or "lost".
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Finished reports whether the status is terminal.
func (s Status) Finished() bool { return s != StatusActive }

// Letters is a fixed-size row of uppercase letters. The zero rune marks an
// empty slot.
type Letters [WordLength]rune

// String renders the row, using a space for empty slots.
func (l Letters) String() string {
	b := make([]rune, WordLength)
	for i, r := range l {
		if r == 0 {
			r = ' '
		}
		b[i] = r
	}
	return string(b)
}

// Feedback is the per-position evaluation of one guess.
type Feedback [WordLength]LetterState

// Solved reports whether every position is Correct.
func (f Feedback) Solved() bool {
	for _, s := range f {
		if s != Correct {
			return false
		}
	}
	return true
}

// GuessRecord is an accepted guess together with its feedback.
// Records are handed out by value and never change once appended.
type GuessRecord struct {
	Letters  Letters
	Feedback Feedback
}

// Dictionary is the read-only lookup the engine validates guesses against.
// Keys are lowercase words.
type Dictionary interface {
	Contains(word string) bool
}
