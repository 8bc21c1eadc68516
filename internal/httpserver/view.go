package httpserver

import (
	"strings"

	"github.com/robalobadob/lexicle/apps/go-server/internal/dictionary"
	"github.com/robalobadob/lexicle/apps/go-server/internal/game"
	"github.com/robalobadob/lexicle/apps/go-server/internal/store"
)

// rowView is one submitted guess.
type rowView struct {
	Letters string        `json:"letters"`
	Marks   game.Feedback `json:"marks"` // correct | present | wrong
}

// gameView is everything a client needs to draw the board and keyboard.
// Answer and Definition are only filled in once the game is over.
type gameView struct {
	GameID      string                      `json:"gameId"`
	Mode        string                      `json:"mode"`
	Date        string                      `json:"date,omitempty"`
	Status      game.Status                 `json:"status"`
	Rows        []rowView                   `json:"rows"`
	Current     string                      `json:"current"`
	Cursor      int                         `json:"cursor"`
	Attempts    int                         `json:"attempts"`
	Remaining   int                         `json:"remaining"`
	WordLength  int                         `json:"wordLength"`
	MaxAttempts int                         `json:"maxAttempts"`
	Alphabet    map[string]game.LetterState `json:"alphabet"`
	Answer      string                      `json:"answer,omitempty"`
	Definition  string                      `json:"definition,omitempty"`
}

// buildView renders e. It must be called from inside Session.Do.
func buildView(sess *store.Session, e *game.Engine, entry dictionary.Entry) gameView {
	v := gameView{
		GameID:      sess.ID,
		Mode:        sess.Mode,
		Date:        sess.Date,
		Status:      e.Status(),
		Rows:        []rowView{},
		Current:     strings.TrimRight(e.CurrentGuess().String(), " "),
		Cursor:      e.Cursor(),
		Attempts:    e.Attempts(),
		Remaining:   e.Remaining(),
		WordLength:  game.WordLength,
		MaxAttempts: game.MaxAttempts,
		Alphabet:    make(map[string]game.LetterState, 26),
	}
	for _, rec := range e.History() {
		v.Rows = append(v.Rows, rowView{Letters: rec.Letters.String(), Marks: rec.Feedback})
	}
	for r, st := range e.Alphabet() {
		v.Alphabet[string(r)] = st
	}
	if e.Status().Finished() {
		v.Answer = strings.ToLower(e.Target())
		v.Definition = entry.Definition
	}
	return v
}
