// apps/go-server/internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Each player can finish once per day (enforced by daily_results). Active
// games are ordinary sessions with Mode "daily"; the result row is written
// when the engine reaches a terminal state.

package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lexicle/apps/go-server/internal/daily"
	"github.com/robalobadob/lexicle/apps/go-server/internal/dictionary"
	"github.com/robalobadob/lexicle/apps/go-server/internal/game"
	"github.com/robalobadob/lexicle/apps/go-server/internal/sqlstore"
	"github.com/robalobadob/lexicle/apps/go-server/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv    *Server
	sel    *daily.Selector
	store  *daily.Store
	mu     sync.Mutex        // guards active
	active map[string]string // playerID|date → session id
}

// mountDaily registers all /daily routes. A nil sel picks from the server
// dictionary with DAILY_SALT.
func (s *Server) mountDaily(r chi.Router, sel *daily.Selector) {
	if sel == nil {
		sel = &daily.Selector{Dict: s.dict, Salt: s.cfg.DailySalt}
	}
	dd := &dailyServer{
		srv:    s,
		sel:    sel,
		store:  daily.NewStore(s.db.DB),
		active: make(map[string]string),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

func playerID(o sqlstore.Owner) string {
	if o.UserID != "" {
		return o.UserID
	}
	return o.AnonID
}

// -----------------------------------------------------------------------------
// /daily/new

// newRes is returned by /daily/new.
type newRes struct {
	Date   string    `json:"date"`
	Played bool      `json:"played"`
	Game   *gameView `json:"game,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the player already has a result for today → Played=true.
// - Otherwise create/reuse a session and return its view.
//
// A signed-in caller that still carries a guest cookie is checked under
// both ids, so signing in mid-day does not grant a second attempt.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	o := d.srv.owner(w, r)
	pid := playerID(o)
	ids := []string{pid}
	if guest := anonID(r); o.UserID != "" && guest != "" {
		ids = append(ids, guest)
	}

	entry, date, idx, err := d.sel.SelectToday(game.WordLength)
	if err != nil {
		writeSelectError(w, err)
		return
	}

	for _, id := range ids {
		played, err := d.store.AlreadyPlayed(r.Context(), id, date)
		if err != nil {
			log.Error().Err(err).Msg("daily already played")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if played {
			writeJSON(w, http.StatusOK, newRes{Date: date, Played: true})
			return
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, id := range ids {
		key := id + "|" + date
		sid, ok := d.active[key]
		if !ok {
			continue
		}
		if sess, err := d.srv.sessions.Get(r.Context(), sid); err == nil && owns(r, sess) {
			var v gameView
			sess.Do(func(e *game.Engine, entry dictionary.Entry) { v = buildView(sess, e, entry) })
			writeJSON(w, http.StatusOK, newRes{Date: date, Game: &v})
			return
		}
		delete(d.active, key)
	}

	sess, err := d.srv.startGame(r.Context(), o, modeDaily, entry)
	if err != nil {
		log.Error().Err(err).Msg("start daily game")
		writeError(w, http.StatusInternalServerError, "start_failed")
		return
	}
	sess.Date, sess.WordIndex = date, idx
	d.active[pid+"|"+date] = sess.ID

	var v gameView
	sess.Do(func(e *game.Engine, entry dictionary.Entry) { v = buildView(sess, e, entry) })
	writeJSON(w, http.StatusCreated, newRes{Date: date, Game: &v})
}

// -----------------------------------------------------------------------------
// /daily/guess

// handleGuess submits a guess for a daily session named by gameId.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	var body guessReq
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	sess, err := d.srv.sessions.Get(r.Context(), body.GameID)
	if err != nil || sess.Mode != modeDaily || !owns(r, sess) {
		writeError(w, http.StatusNotFound, "game_not_found")
		return
	}
	d.srv.guess(w, r, sess, body)
}

// finish stores the result of a daily game that just ended.
func (d *dailyServer) finish(ctx context.Context, sess *store.Session, won bool, attempts int) {
	pid := playerID(sqlstore.Owner{UserID: sess.UserID, AnonID: sess.AnonID})
	res := daily.Result{
		PlayerID:  pid,
		Date:      sess.Date,
		WordIndex: sess.WordIndex,
		Won:       won,
		Guesses:   attempts,
		ElapsedMs: int(time.Since(sess.StartedAt()).Milliseconds()),
	}
	if err := d.store.InsertResult(ctx, res); err != nil {
		log.Error().Err(err).Str("player", pid).Str("date", sess.Date).Msg("insert daily result")
	}
	d.mu.Lock()
	delete(d.active, pid+"|"+sess.Date)
	d.mu.Unlock()
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = d.sel.Today()
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
