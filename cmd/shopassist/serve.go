package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chat2purchase/shopassist/internal/adapters/http"
	"github.com/chat2purchase/shopassist/internal/adapters/postgres"
	"github.com/chat2purchase/shopassist/internal/adapters/tracing"
)

// serveCmd starts the HTTP API server
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the shopassist HTTP API server.

Endpoints:
  POST /api/chat         chat turn (JSON or MessagePack)
  GET  /api/chat/ws      chat over websocket
  GET  /health           liveness
  GET  /health/detailed  dependency status
  GET  /metrics          prometheus metrics

Required configuration:
  - LLM API key (SHOPASSIST_LLM_API_KEY or OPENAI_API_KEY)
  - PostgreSQL database (SHOPASSIST_POSTGRES_URL)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	slog.Info("starting shopassist API server",
		"addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		"llm_url", cfg.LLM.URL,
		"model", cfg.LLM.Model,
		"helper_model", cfg.LLM.HelperModel)

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("shopassist-api", os.Stderr)
		if err != nil {
			slog.Warn("failed to initialize tracing", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					slog.Warn("error shutting down tracer", "error", err)
				}
			}()
			slog.Info("OpenTelemetry tracing initialized")
		}
	}

	pool, err := initDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	slog.Info("database connection established")

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	a := buildApp(ctx, pool)
	server := http.NewServer(cfg, a.service, a.health...)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-serverErrors:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		slog.Info("received signal, shutting down gracefully", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		slog.Info("server stopped")
		return nil
	}
}
