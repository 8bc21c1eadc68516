// apps/go-server/internal/httpserver/server.go
//
// HTTP wiring for the game backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access log).
//   - Public endpoints: "/", "/health", "/debug/dictionary".
//   - Game endpoints (optional auth): mounted under /game.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// The server is a presentation adapter: it turns requests into guess
// engine calls and renders the engine's state as JSON. All game rules live
// in internal/game.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/lexicle/apps/go-server/internal/config"
	"github.com/robalobadob/lexicle/apps/go-server/internal/daily"
	"github.com/robalobadob/lexicle/apps/go-server/internal/dictionary"
	"github.com/robalobadob/lexicle/apps/go-server/internal/game"
	"github.com/robalobadob/lexicle/apps/go-server/internal/sqlstore"
	"github.com/robalobadob/lexicle/apps/go-server/internal/store"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config   config.Config
	Sessions store.Store
	DB       *sqlstore.Store
	Dict     *dictionary.Dictionary
	// Selector picks classic targets. Nil means a RandomSelector over Dict.
	Selector dictionary.Selector
	// Daily picks the word of the day. Nil builds one from Dict and DAILY_SALT.
	Daily *daily.Selector
}

// Server bundles the router and its dependencies.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	sessions store.Store
	db       *sqlstore.Store
	dict     *dictionary.Dictionary
	selector dictionary.Selector
	daily    *dailyServer
	policy   game.KnowledgePolicy
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) (*Server, error) {
	policy, err := game.PolicyByName(d.Config.KnowledgePolicy)
	if err != nil {
		return nil, err
	}
	if d.Dict == nil || d.Sessions == nil || d.DB == nil {
		return nil, errors.New("httpserver: dictionary, sessions and db are required")
	}
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      d.Config,
		sessions: d.Sessions,
		db:       d.DB,
		dict:     d.Dict,
		selector: d.Selector,
		policy:   policy,
	}
	if s.selector == nil {
		s.selector = dictionary.NewRandomSelector(d.Dict)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog())                     // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "lexicle-go",
			"endpoints": []string{"/health", "POST /game/new", "POST /game/{id}/guess", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/dictionary", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{
			"words":   s.dict.Len(),
			"targets": len(s.dict.Words(game.WordLength)),
		})
	})

	// Game + daily endpoints: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		s.mountGame(r)
		s.mountDaily(r, d.Daily)
	})

	// Auth + profile/stats
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s, nil
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog logs one line per request with the chi request id.
func accessLog() func(http.Handler) http.Handler {
	logger := hlog.NewHandler(log.Logger)
	done := hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", chimw.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	})
	return func(next http.Handler) http.Handler {
		return logger(done(next))
	}
}

// ------------------------------- helpers -----------------------------------

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError writes {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// decodeBody decodes an optional JSON body into v. An empty body is fine.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
