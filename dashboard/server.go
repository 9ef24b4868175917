// Package dashboard serves the portfolio over HTTP: an HTML page and a JSON
// API to read the valuation and edit the positions.
package dashboard

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/etnz/bluechip"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Config holds the server dependencies.
type Config struct {
	Store      bluechip.Store
	Gateway    bluechip.QuoteGateway
	Currencies bluechip.CurrencyModel
	FXPolicy   bluechip.FXPolicy
	Log        zerolog.Logger
}

// Server is the dashboard HTTP handler. It owns the portfolio state: every
// request goes through it, one mutation at a time.
type Server struct {
	router *chi.Mux
	store  bluechip.Store
	gw     bluechip.QuoteGateway
	cm     bluechip.CurrencyModel
	policy bluechip.FXPolicy
	log    zerolog.Logger

	mu    sync.Mutex
	state bluechip.State
}

// New loads the state from the store and creates the server.
func New(cfg Config) (*Server, error) {
	st, err := cfg.Store.Load()
	if err != nil {
		return nil, err
	}
	s := &Server{
		router: chi.NewRouter(),
		store:  cfg.Store,
		gw:     cfg.Gateway,
		cm:     cfg.Currencies,
		policy: cfg.FXPolicy,
		log:    cfg.Log.With().Str("component", "dashboard").Logger(),
		state:  st,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handlePage)
	s.router.Route("/form", func(r chi.Router) {
		r.Post("/positions", s.handleFormAdd)
		r.Post("/positions/{index}/delete", s.handleFormRemove)
		r.Post("/cash", s.handleFormAmount(bluechip.State.SetCash))
		r.Post("/invested", s.handleFormAmount(bluechip.State.SetTotalInvested))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/view", s.handleGetView)
		r.Get("/state", s.handleGetState)
		r.Post("/positions", s.handleAddPosition)
		r.Delete("/positions/{index}", s.handleRemovePosition)
		r.Put("/cash", s.handleSetAmount(bluechip.State.SetCash))
		r.Put("/invested", s.handleSetAmount(bluechip.State.SetTotalInvested))
	})
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("Starting HTTP server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// State returns the current state.
func (s *Server) State() bluechip.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// apply runs a mutation and persists its result. The in-memory state only
// changes once the store accepted it.
func (s *Server) apply(f func(bluechip.State) (bluechip.State, error)) (bluechip.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := f(s.state)
	if err != nil {
		return s.state, err
	}
	if err := s.store.Save(next); err != nil {
		s.log.Error().Err(err).Msg("Failed to save portfolio")
		return s.state, err
	}
	s.state = next
	return next, nil
}

// view values the current state at market prices.
func (s *Server) view(ctx context.Context) *bluechip.View {
	st := s.State()
	snap := bluechip.FetchSnapshot(ctx, s.gw, s.cm, s.policy, st.Tickers(), s.log)
	return bluechip.NewView(s.cm, st, snap)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
