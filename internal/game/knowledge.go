package game

import (
	"fmt"
	"strings"
)

// KnowledgePolicy merges a new observation of a letter into what is already
// known about it. It is the only place alphabet knowledge changes.
type KnowledgePolicy func(known, observed LetterState) LetterState

// OverwritePolicy keeps the latest observation, even if it is weaker than
// what was known before. A letter seen Correct in one guess and Wrong in a
// later one ends up Wrong. This is the default.
func OverwritePolicy(_, observed LetterState) LetterState { return observed }

// UpgradePolicy only ever strengthens knowledge: Unknown < Wrong < Present < Correct.
func UpgradePolicy(known, observed LetterState) LetterState {
	if observed > known {
		return observed
	}
	return known
}

// PolicyByName resolves a configuration value ("overwrite" or "upgrade").
// An empty name selects OverwritePolicy.
func PolicyByName(name string) (KnowledgePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "overwrite":
		return OverwritePolicy, nil
	case "upgrade":
		return UpgradePolicy, nil
	}
	return nil, fmt.Errorf("game: unknown knowledge policy %q", name)
}
