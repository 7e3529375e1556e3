// Package web hosts the HTTP surface over the matching engine.
package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/locmatch/internal/config"
	"github.com/locmatch/internal/engine"
	"github.com/locmatch/internal/web/handlers"
	"github.com/locmatch/internal/web/middleware"
)

// Server bundles the router, the optional result store and the HTTP server.
type Server struct {
	cfg        config.Config
	logger     zerolog.Logger
	store      *engine.Store
	httpServer *http.Server
}

// NewServer builds the server. When the config carries a result-store DSN the
// Postgres store is opened and its schema ensured; otherwise runs are not
// persisted.
func NewServer(cfg config.Config, logger zerolog.Logger) (*Server, error) {
	s := &Server{cfg: cfg, logger: logger}

	if cfg.ResultStoreDSN != "" {
		store, err := engine.OpenStore(cfg.ResultStoreDSN)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(); err != nil {
			store.Close()
			return nil, err
		}
		s.store = store
		logger.Info().Msg("result store enabled")
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.routes(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(s.logger))
	r.Use(middleware.Recover(s.logger))

	matchHandler := &handlers.MatchHandler{
		Logger:      s.logger,
		MaxUploadMB: s.cfg.MaxUploadMB,
		Store:       s.store,
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/match", matchHandler.Match).Methods("POST")
	api.HandleFunc("/healthz", handlers.Healthz).Methods("GET")
	return r
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr()).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	s.logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if s.store != nil {
		s.store.Close()
	}
	return nil
}
