// apps/go-server/internal/httpserver/routes_game.go
//
// Classic game endpoints. Every handler resolves the session, checks that
// the caller owns it, then works on the engine under Session.Do.
//
//   - POST /game/new           → start a game with a random target
//   - GET  /game/{id}          → current view
//   - POST /game/{id}/key      → type one letter, backspace or clear
//   - POST /game/{id}/guess    → optionally fill the row, then submit it
//   - POST /game/{id}/restart  → abandon this game and start another

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lexicle/apps/go-server/internal/dictionary"
	"github.com/robalobadob/lexicle/apps/go-server/internal/game"
	"github.com/robalobadob/lexicle/apps/go-server/internal/sqlstore"
	"github.com/robalobadob/lexicle/apps/go-server/internal/store"
)

const (
	modeClassic = "classic"
	modeDaily   = "daily"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Get("/{id}", s.handleGetGame)
		r.Post("/{id}/key", s.handleKey)
		r.Post("/{id}/guess", s.handleGuess)
		r.Post("/{id}/restart", s.handleRestart)
	})
}

// owner identifies the caller, issuing a guest cookie when needed.
func (s *Server) owner(w http.ResponseWriter, r *http.Request) sqlstore.Owner {
	if me := currentUser(r); me != nil {
		return sqlstore.Owner{UserID: me.ID}
	}
	return sqlstore.Owner{AnonID: s.ensureAnonID(w, r)}
}

// owns reports whether the caller may see sess.
func owns(r *http.Request, sess *store.Session) bool {
	if me := currentUser(r); me != nil && sess.UserID != "" && sess.UserID == me.ID {
		return true
	}
	return sess.AnonID != "" && anonID(r) == sess.AnonID
}

// startGame builds an engine for entry, stores the session and records the
// game row.
func (s *Server) startGame(ctx context.Context, o sqlstore.Owner, mode string, entry dictionary.Entry) (*store.Session, error) {
	eng, err := game.New(entry.Word, game.WithKnowledgePolicy(s.policy))
	if err != nil {
		return nil, err
	}
	sess := store.NewSession(sqlstore.GenID(), mode, entry, eng)
	sess.UserID, sess.AnonID = o.UserID, o.AnonID
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.db.InsertGame(ctx, sess.ID, mode, o); err != nil {
		log.Warn().Err(err).Str("game", sess.ID).Msg("insert game")
	}
	return sess, nil
}

// writeSelectError maps word selection failures to responses.
func writeSelectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dictionary.ErrEmptyDictionary):
		writeError(w, http.StatusServiceUnavailable, "no_words")
	case errors.Is(err, dictionary.ErrMissingDefinition):
		log.Error().Err(err).Msg("select word")
		writeError(w, http.StatusInternalServerError, "missing_definition")
	default:
		log.Error().Err(err).Msg("select word")
		writeError(w, http.StatusInternalServerError, "start_failed")
	}
}

// session loads the {id} session and checks ownership. It writes the error
// response itself and returns nil on failure.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *store.Session {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil || !owns(r, sess) {
		writeError(w, http.StatusNotFound, "game_not_found")
		return nil
	}
	return sess
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	entry, err := s.selector.Select(game.WordLength)
	if err != nil {
		writeSelectError(w, err)
		return
	}
	sess, err := s.startGame(r.Context(), s.owner(w, r), modeClassic, entry)
	if err != nil {
		log.Error().Err(err).Str("word", entry.Word).Msg("start game")
		writeError(w, http.StatusInternalServerError, "start_failed")
		return
	}
	var v gameView
	sess.Do(func(e *game.Engine, entry dictionary.Entry) { v = buildView(sess, e, entry) })
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var v gameView
	sess.Do(func(e *game.Engine, entry dictionary.Entry) { v = buildView(sess, e, entry) })
	writeJSON(w, http.StatusOK, v)
}

type keyReq struct {
	Key string `json:"key"`
}

// handleKey edits the current row: a single letter, "backspace" or "clear".
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var body keyReq
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	key := strings.ToLower(strings.TrimSpace(body.Key))

	var v gameView
	bad := false
	sess.Do(func(e *game.Engine, entry dictionary.Entry) {
		switch {
		case key == "backspace":
			e.Backspace()
		case key == "clear":
			if !e.Status().Finished() {
				e.ClearGuess()
			}
		case len(key) == 1 && key[0] >= 'a' && key[0] <= 'z':
			e.TypeLetter(rune(key[0]))
		default:
			bad = true
		}
		v = buildView(sess, e, entry)
	})
	if bad {
		writeError(w, http.StatusBadRequest, "invalid_key")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type guessReq struct {
	GameID string `json:"gameId,omitempty"` // /daily/guess only
	Guess  string `json:"guess"`
}

type guessRes struct {
	Outcome game.Outcome `json:"outcome"`
	Reason  string       `json:"reason,omitempty"`
	Game    gameView     `json:"game"`
}

// guessResult is what submitGuess learned while holding the session lock.
type guessResult struct {
	res      guessRes
	err      error
	attempts int
}

// reasonFor maps an engine rejection to a stable reason code.
func reasonFor(err error) string {
	switch {
	case errors.Is(err, game.ErrIncompleteGuess):
		return "incomplete_guess"
	case errors.Is(err, game.ErrNotInDictionary):
		return "not_in_dictionary"
	case errors.Is(err, game.ErrGameOver):
		return "game_over"
	}
	return ""
}

// validWord reports whether word is exactly WordLength ASCII letters.
func validWord(word string) bool {
	if len(word) != game.WordLength {
		return false
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return false
		}
	}
	return true
}

// submitGuess fills the row with word (if any) and submits it.
func (s *Server) submitGuess(sess *store.Session, word string) guessResult {
	var out guessResult
	sess.Do(func(e *game.Engine, entry dictionary.Entry) {
		if word != "" && !e.Status().Finished() {
			e.ClearGuess()
			for _, c := range word {
				e.TypeLetter(c)
			}
		}
		out.res.Outcome, out.err = e.SubmitGuess(s.dict)
		out.res.Reason = reasonFor(out.err)
		out.res.Game = buildView(sess, e, entry)
		out.attempts = e.Attempts()
	})
	return out
}

// handleGuess submits the current row. A "guess" in the body replaces the
// row first. Rejected guesses answer 422 and consume no attempt; guesses on
// a finished game answer 409.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	var body guessReq
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	s.guess(w, r, sess, body)
}

// guess is shared by /game/{id}/guess and /daily/guess.
func (s *Server) guess(w http.ResponseWriter, r *http.Request, sess *store.Session, body guessReq) {
	word := strings.ToLower(strings.TrimSpace(body.Guess))
	if word != "" && !validWord(word) {
		res := guessRes{Outcome: game.InvalidGuess, Reason: "invalid_letters"}
		sess.Do(func(e *game.Engine, entry dictionary.Entry) { res.Game = buildView(sess, e, entry) })
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}

	out := s.submitGuess(sess, word)
	switch {
	case errors.Is(out.err, game.ErrGameOver):
		writeJSON(w, http.StatusConflict, out.res)
		return
	case out.err != nil:
		writeJSON(w, http.StatusUnprocessableEntity, out.res)
		return
	}

	if err := s.db.RecordGuess(r.Context(), sess.ID, out.res.Game.Status.String()); err != nil {
		log.Warn().Err(err).Str("game", sess.ID).Msg("record guess")
	}
	if sess.Mode == modeDaily && out.res.Game.Status.Finished() && s.daily != nil {
		s.daily.finish(r.Context(), sess, out.res.Outcome == game.Won, out.attempts)
	}
	writeJSON(w, http.StatusOK, out.res)
}

// handleRestart abandons the caller's game and starts a new one with a
// freshly selected word. The old game id stops working. The old session is
// removed first, so of two concurrent restarts only one starts a game.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	old := s.session(w, r)
	if old == nil {
		return
	}
	if old.Mode == modeDaily {
		writeError(w, http.StatusConflict, "daily_restart_not_allowed")
		return
	}
	if err := s.sessions.Delete(r.Context(), old.ID); err != nil {
		writeError(w, http.StatusNotFound, "game_not_found")
		return
	}

	entry, err := s.selector.Select(game.WordLength)
	if err != nil {
		_ = s.sessions.Save(r.Context(), old)
		writeSelectError(w, err)
		return
	}
	sess, err := s.startGame(r.Context(), sqlstore.Owner{UserID: old.UserID, AnonID: old.AnonID}, modeClassic, entry)
	if err != nil {
		_ = s.sessions.Save(r.Context(), old)
		log.Error().Err(err).Msg("restart game")
		writeError(w, http.StatusInternalServerError, "start_failed")
		return
	}
	if err := s.db.AbandonGame(r.Context(), old.ID); err != nil {
		log.Warn().Err(err).Str("game", old.ID).Msg("abandon game")
	}

	var v gameView
	sess.Do(func(e *game.Engine, entry dictionary.Entry) { v = buildView(sess, e, entry) })
	writeJSON(w, http.StatusCreated, v)
}
