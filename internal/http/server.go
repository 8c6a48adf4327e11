package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/davidbz/faqvoice/internal/config"
	"github.com/davidbz/faqvoice/internal/http/middleware"
	"github.com/davidbz/faqvoice/internal/observability"
)

// Server represents the HTTP server.
type Server struct {
	config      config.ServerConfig
	webhook     *config.WebhookConfig
	handler     *Handler
	middlewares middleware.Middleware

	mu  sync.Mutex
	srv *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(
	cfg *config.ServerConfig,
	webhook *config.WebhookConfig,
	handler *Handler,
	middlewares middleware.Middleware,
) *Server {
	return &Server{
		config:      *cfg,
		webhook:     webhook,
		handler:     handler,
		middlewares: middlewares,
	}
}

// Routes returns the routed handler with the middleware chain applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/v1/webhook", middleware.Signature(s.webhook)(http.HandlerFunc(s.handler.HandleWebhook)))
	mux.HandleFunc("/v1/ask", s.handler.HandleAsk)
	mux.HandleFunc("/v1/stats", s.handler.HandleStats)
	mux.HandleFunc("/health", s.handler.HandleHealth)

	if s.middlewares == nil {
		return mux
	}
	return s.middlewares(mux)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Routes(),
		ReadTimeout:  time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeout) * time.Second,
	}

	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()

	ctx := context.Background()
	observability.FromContext(ctx).Info("starting HTTP server", observability.Int("port", s.config.Port))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	observability.FromContext(ctx).Info("shutting down HTTP server")

	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
