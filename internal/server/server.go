// internal/server/server.go
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/database"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	maxBodyBytes     = 1 << 20
	readinessTimeout = 2 * time.Second
	shutdownTimeout  = 30 * time.Second
)

// ChatService answers one chat request.
type ChatService interface {
	Execute(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error)
}

type Server struct {
	cfg        *config.Config
	chat       ChatService
	limiter    *RateLimiter
	checks     []database.Pinger
	validate   *validator.Validate
	logger     logger.Logger
	httpServer *http.Server
}

// New builds the API server. limiter may be nil to disable rate limiting.
func New(cfg *config.Config, chat ChatService, limiter *RateLimiter, checks []database.Pinger, log logger.Logger) *Server {
	return &Server{
		cfg:      cfg,
		chat:     chat,
		limiter:  limiter,
		checks:   checks,
		validate: validator.New(),
		logger:   log.WithFields(map[string]interface{}{"component": "http"}),
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware(s.writeError))
		}
		r.Post("/chat", s.handleChat)
	})
	return r
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{"address": s.cfg.Server.Address})
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
