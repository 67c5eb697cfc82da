package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chat2purchase/shopassist/internal/adapters/http/handlers"
	"github.com/chat2purchase/shopassist/internal/adapters/http/middleware"
	"github.com/chat2purchase/shopassist/internal/config"
)

type Server struct {
	config     *config.Config
	router     *chi.Mux
	httpServer *http.Server
	chat       handlers.ChatService
	health     []handlers.Dependency
}

func NewServer(cfg *config.Config, chat handlers.ChatService, health ...handlers.Dependency) *Server {
	s := &Server{
		config: cfg,
		chat:   chat,
		health: health,
	}

	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(s.config.Server.CORSOrigins))
	r.Use(middleware.Metrics)

	healthHandler := handlers.NewHealthHandler(s.health...)
	r.Get("/health", healthHandler.Handle)
	r.Get("/health/detailed", healthHandler.HandleDetailed)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		chatHandler := handlers.NewChatHandler(s.chat)
		r.Post("/chat", chatHandler.Chat)

		wsHandler := handlers.NewWebSocketChatHandler(s.chat, s.config.Server.CORSOrigins)
		r.Get("/chat/ws", wsHandler.Handle)
	})

	s.router = r
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // chat turns span several provider calls; websockets stay open
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("starting HTTP server", "addr", addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	slog.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *chi.Mux {
	return s.router
}
