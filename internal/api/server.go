package api

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"golang.org/x/sync/errgroup"

	"github.com/kenmck3772/welltegra-ml-api/internal/config"
	"github.com/kenmck3772/welltegra-ml-api/internal/warehouse"
)

// Server is the HTTP server for the WellTegra API.
type Server struct {
	cfg      *config.Config
	executor warehouse.Executor
	logger   *slog.Logger
}

// NewServer creates a new server instance. The executor is shared across
// all requests for the lifetime of the process.
func NewServer(cfg *config.Config, executor warehouse.Executor, logger *slog.Logger) *Server {
	return &Server{cfg: cfg, executor: executor, logger: logger}
}

// router assembles the chi mux with middleware, routes, and the error
// handlers for unmatched routes.
func (s *Server) router() chi.Router {
	h := NewHandlers(s.cfg, s.executor, s.logger)

	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		requestLogger(s.logger),
		recoverer(s.logger),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", h.Index)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		if s.cfg.RateLimit.Enabled {
			r.Use(httprate.LimitByIP(s.cfg.RateLimit.PerMinute, time.Minute))
		}

		r.Get("/health", h.Health)
		r.Get("/runs", h.ListRuns)
		r.Get("/runs/{run_id}", h.GetRun)
		r.Get("/tools", h.ListTools)
		r.Get("/analytics", h.Analytics)
	})

	return r
}

// Serve starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("starting server", "addr", addr, "environment", s.cfg.Environment)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
