package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/repo-stars/internal/config"
	"github.com/Clark-Hu/repo-stars/internal/repository"
	"github.com/Clark-Hu/repo-stars/internal/stars"
	"github.com/Clark-Hu/repo-stars/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	store   *store.Store
	repo    *repository.Repository
	display *stars.Display
	logger  zerolog.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
// st and repo may be nil when no database is configured.
func New(cfg config.Config, st *store.Store, repo *repository.Repository, display *stars.Display, logger zerolog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	s := &Server{
		cfg:     cfg,
		store:   st,
		repo:    repo,
		display: display,
		logger:  logger.With().Str("component", "http").Logger(),
		router:  r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/", s.handleIndex)
	s.router.Get("/download", s.handleDownload)
	s.router.Route("/api", func(r chi.Router) {
		r.Use(CORS(s.cfg.CORSOrigins))
		r.Get("/stars", s.handleGetStars)
		r.Get("/stars/history", s.handleListHistory)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start boots the HTTP server and blocks until ctx is done or serving fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpSrv.Addr).Msg("server starting")
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("health check failed")
		s.respondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Database unreachable")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}
