package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zebp/discord-rust-playground/internal/bot"
)

// Handler processes inbound messages.
type Handler interface {
	Handle(ctx context.Context, msg bot.Message, r bot.Replier) error
}

// Server is an HTTP gateway to the bot: a REST endpoint that returns the
// replies to one message, and a WebSocket chat per conversation.
type Server struct {
	handler Handler
	logger  *zap.Logger
	router  chi.Router
	http    *http.Server
}

// New creates a new Server.
func New(handler Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		handler: handler,
		logger:  logger,
		router:  chi.NewRouter(),
	}
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.With(jsonContentType).Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.With(jsonContentType).Post("/messages", s.handleMessage)

		// WebSocket (no JSON content-type)
		r.Get("/conversations/{id}/ws", s.handleWebSocket)
	})
}

// ServeHTTP lets the server be mounted or tested without listening.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// jsonContentType sets Content-Type to application/json for API routes.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Start listens on the given port until Shutdown is called. It returns
// immediately if Shutdown already ran.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.http.Addr = addr

	s.logger.Info("http gateway listening", zap.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http gateway")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.http.Shutdown(shutdownCtx)
}
