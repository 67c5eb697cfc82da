package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chat2purchase/shopassist/internal/adapters/catalog"
	"github.com/chat2purchase/shopassist/internal/adapters/http/handlers"
	"github.com/chat2purchase/shopassist/internal/adapters/id"
	"github.com/chat2purchase/shopassist/internal/adapters/postgres"
	"github.com/chat2purchase/shopassist/internal/adapters/session"
	"github.com/chat2purchase/shopassist/internal/application/assistant"
	"github.com/chat2purchase/shopassist/internal/config"
	"github.com/chat2purchase/shopassist/internal/llm"
	"github.com/chat2purchase/shopassist/internal/ports"
)

// Version information (set via ldflags)
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var cfg *config.Config

func setupLogging(c config.LogConfig) {
	opts := &slog.HandlerOptions{Level: parseLevel(c.Level)}

	var handler slog.Handler
	if c.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// initDB opens the traced PostgreSQL pool
func initDB(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := postgres.Connect(ctx, postgres.Config{
		URL:      cfg.Database.PostgresURL,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (check SHOPASSIST_POSTGRES_URL)", err)
	}
	return pool, nil
}

// app is the wired chat stack shared by serve and chat
type app struct {
	service  *assistant.Service
	sessions ports.SessionStore
	health   []handlers.Dependency
}

func buildApp(ctx context.Context, pool *pgxpool.Pool) *app {
	timeout := cfg.LLM.Timeout.Duration

	responses := llm.NewService(llm.NewClient(cfg.LLM.URL, cfg.LLM.APIKey, cfg.LLM.Model, timeout), timeout)
	completions := llm.NewCompletionClient(cfg.LLM.URL, cfg.LLM.APIKey, cfg.LLM.HelperModel, timeout)

	products := postgres.NewProductRepository(pool)
	searcher := catalog.NewSearcher(completions, products)
	if categories, err := products.ListCategories(ctx); err != nil {
		slog.WarnContext(ctx, "could not load catalog categories, using defaults", "error", err)
	} else if len(categories) > 0 {
		searcher.WithCategories(categories)
	}

	driver := assistant.NewDriver(
		responses,
		assistant.NewToolRegistry(assistant.NewSearchTool(searcher)),
		cfg.Agent.MaxIterations,
	)

	sessions := newSessionStore(pool)

	service := assistant.NewService(
		sessions,
		id.New(),
		driver,
		assistant.NewClassifier(completions),
		assistant.NewRecovery(completions, driver, cfg.Agent.MaxRecoveryCandidates, cfg.Agent.RecoveryConcurrency),
		assistant.Options{MaxCartActions: cfg.Agent.MaxCartActions},
	)

	health := []handlers.Dependency{{Name: "database", Pinger: pool, Critical: true}}
	if p, ok := sessions.(ports.Pinger); ok {
		health = append(health, handlers.Dependency{Name: "sessions", Pinger: p})
	}

	return &app{
		service:  service,
		sessions: sessions,
		health:   health,
	}
}

func newSessionStore(pool *pgxpool.Pool) ports.SessionStore {
	if cfg.IsPostgresSessions() {
		slog.Info("session tokens stored in PostgreSQL", "ttl", cfg.Session.TTL)
		return session.NewDatabaseStore(postgres.NewSessionRepository(pool), cfg.Session.TTL.Duration)
	}
	slog.Info("session tokens stored in memory", "ttl", cfg.Session.TTL, "max_entries", cfg.Session.MaxEntries)
	return session.NewMemoryStore(cfg.Session.MaxEntries, cfg.Session.TTL.Duration)
}

// maskSecret masks a secret string for display
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "(set)"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// maskURL hides the password of a connection URL
func maskURL(raw string) string {
	if raw == "" {
		return "(not set)"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "(invalid)"
	}
	return u.Redacted()
}
