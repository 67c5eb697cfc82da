package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionBackendMemory   = "memory"
	SessionBackendPostgres = "postgres"
)

// Config holds all configuration for the shopping assistant
type Config struct {
	LLM      LLMConfig      `json:"llm"`
	Agent    AgentConfig    `json:"agent"`
	Database DatabaseConfig `json:"database"`
	Session  SessionConfig  `json:"session"`
	Server   ServerConfig   `json:"server"`
	Log      LogConfig      `json:"log"`
	Tracing  TracingConfig  `json:"tracing"`
}

// LLMConfig holds the provider endpoint. URL serves both the Responses API
// and chat completions.
type LLMConfig struct {
	URL         string   `json:"url"`
	APIKey      string   `json:"api_key"`
	Model       string   `json:"model"`        // conversation model
	HelperModel string   `json:"helper_model"` // classifier, extractor, SQL generation
	Timeout     Duration `json:"timeout"`      // per provider call
}

type AgentConfig struct {
	MaxIterations         int `json:"max_iterations"`
	MaxCartActions        int `json:"max_cart_actions"`
	MaxRecoveryCandidates int `json:"max_recovery_candidates"`
	RecoveryConcurrency   int `json:"recovery_concurrency"`
}

type DatabaseConfig struct {
	PostgresURL string `json:"postgres_url"`
	MaxConns    int32  `json:"max_conns"`
}

// SessionConfig selects where continuity tokens live
type SessionConfig struct {
	Backend    string   `json:"backend"` // "memory" or "postgres"
	TTL        Duration `json:"ttl"`
	MaxEntries int      `json:"max_entries"` // memory backend only
}

type ServerConfig struct {
	Host        string   `json:"host"`
	Port        int      `json:"port"`
	CORSOrigins []string `json:"cors_origins"`
}

type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // text or json
}

type TracingConfig struct {
	Enabled bool `json:"enabled"`
}

// Duration accepts "30s" style strings or a number of seconds in JSON
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		d.Duration = parsed
		return nil
	}

	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("duration must be a string or number of seconds: %s", data)
	}
	d.Duration = time.Duration(secs * float64(time.Second))
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			URL:         "https://api.openai.com/v1",
			Model:       "gpt-4o",
			HelperModel: "gpt-4o-mini",
			Timeout:     Duration{60 * time.Second},
		},
		Agent: AgentConfig{
			MaxIterations:         10,
			MaxCartActions:        4,
			MaxRecoveryCandidates: 4,
			RecoveryConcurrency:   2,
		},
		Database: DatabaseConfig{
			PostgresURL: postgresURL("localhost", "5432", "chat_to_purchase", "postgres", "postgres"),
			MaxConns:    10,
		},
		Session: SessionConfig{
			Backend:    SessionBackendMemory,
			TTL:        Duration{24 * time.Hour},
			MaxEntries: 10000,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// envString loads a string environment variable into the target pointer if set
func envString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// envInt loads an integer environment variable into the target pointer if set and valid
func envInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*target = i
		}
	}
}

func envInt32(key string, target *int32) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 32); err == nil {
			*target = int32(i)
		}
	}
}

func envBool(key string, target *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}

func envDuration(key string, target *Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			target.Duration = d
		}
	}
}

// envStringSlice loads a comma-separated environment variable into a string slice
func envStringSlice(key string, target *[]string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			*target = result
		}
	}
}

// Load reads defaults, the JSON config file, .env and the environment, then
// validates the result
func Load() (*Config, error) {
	cfg, err := LoadUnvalidated()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUnvalidated is Load without Validate, for commands that only need part
// of the configuration
func LoadUnvalidated() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	// existing environment variables win over .env entries
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	// OPENAI_API_KEY is the fallback; the prefixed key wins
	envString("OPENAI_API_KEY", &cfg.LLM.APIKey)
	envString("SHOPASSIST_LLM_URL", &cfg.LLM.URL)
	envString("SHOPASSIST_LLM_API_KEY", &cfg.LLM.APIKey)
	envString("SHOPASSIST_LLM_MODEL", &cfg.LLM.Model)
	envString("SHOPASSIST_LLM_HELPER_MODEL", &cfg.LLM.HelperModel)
	envDuration("SHOPASSIST_LLM_TIMEOUT", &cfg.LLM.Timeout)

	envInt("SHOPASSIST_AGENT_MAX_ITERATIONS", &cfg.Agent.MaxIterations)
	envInt("SHOPASSIST_AGENT_MAX_CART_ACTIONS", &cfg.Agent.MaxCartActions)
	envInt("SHOPASSIST_AGENT_MAX_RECOVERY_CANDIDATES", &cfg.Agent.MaxRecoveryCandidates)
	envInt("SHOPASSIST_AGENT_RECOVERY_CONCURRENCY", &cfg.Agent.RecoveryConcurrency)

	if hasAnyEnv("DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD") {
		cfg.Database.PostgresURL = postgresURL(
			envOr("DB_HOST", "localhost"),
			envOr("DB_PORT", "5432"),
			envOr("DB_NAME", "chat_to_purchase"),
			envOr("DB_USER", "postgres"),
			envOr("DB_PASSWORD", "postgres"),
		)
	}
	envString("SHOPASSIST_POSTGRES_URL", &cfg.Database.PostgresURL)
	envInt32("SHOPASSIST_DB_MAX_CONNS", &cfg.Database.MaxConns)

	envString("SHOPASSIST_SESSION_BACKEND", &cfg.Session.Backend)
	envDuration("SHOPASSIST_SESSION_TTL", &cfg.Session.TTL)
	envInt("SHOPASSIST_SESSION_MAX_ENTRIES", &cfg.Session.MaxEntries)

	envString("SHOPASSIST_SERVER_HOST", &cfg.Server.Host)
	envInt("SHOPASSIST_SERVER_PORT", &cfg.Server.Port)
	envStringSlice("SHOPASSIST_CORS_ORIGINS", &cfg.Server.CORSOrigins)

	envString("SHOPASSIST_LOG_LEVEL", &cfg.Log.Level)
	envString("SHOPASSIST_LOG_FORMAT", &cfg.Log.Format)
	envBool("SHOPASSIST_TRACING_ENABLED", &cfg.Tracing.Enabled)
}

func hasAnyEnv(keys ...string) bool {
	for _, k := range keys {
		if os.Getenv(k) != "" {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func postgresURL(host, port, name, user, password string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// IsPostgresSessions reports whether continuity tokens are stored in PostgreSQL
func (c *Config) IsPostgresSessions() bool {
	return c.Session.Backend == SessionBackendPostgres
}

// isValidURL validates that a URL has proper format
func isValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Validate checks that the configuration has valid values. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []string

	if c.LLM.APIKey == "" {
		errs = append(errs, "LLM API key is required (SHOPASSIST_LLM_API_KEY or OPENAI_API_KEY)")
	}
	if c.LLM.URL == "" {
		errs = append(errs, "LLM URL is required")
	} else if !isValidURL(c.LLM.URL) {
		errs = append(errs, "LLM URL must be a valid URL")
	}
	if c.LLM.Model == "" {
		errs = append(errs, "LLM model is required")
	}
	if c.LLM.HelperModel == "" {
		errs = append(errs, "LLM helper model is required")
	}
	if c.LLM.Timeout.Duration <= 0 {
		errs = append(errs, "LLM timeout must be positive")
	}

	if c.Agent.MaxIterations < 1 {
		errs = append(errs, "agent max_iterations must be at least 1")
	}
	if c.Agent.MaxCartActions < 1 {
		errs = append(errs, "agent max_cart_actions must be at least 1")
	}
	if c.Agent.MaxRecoveryCandidates < 1 {
		errs = append(errs, "agent max_recovery_candidates must be at least 1")
	}
	if c.Agent.RecoveryConcurrency < 1 {
		errs = append(errs, "agent recovery_concurrency must be at least 1")
	}

	errs = append(errs, c.databaseErrors()...)

	switch c.Session.Backend {
	case SessionBackendMemory:
		if c.Session.MaxEntries < 0 {
			errs = append(errs, "session max_entries must not be negative")
		}
	case SessionBackendPostgres:
	default:
		errs = append(errs, fmt.Sprintf("session backend must be %q or %q", SessionBackendMemory, SessionBackendPostgres))
	}
	if c.Session.TTL.Duration < 0 {
		errs = append(errs, "session ttl must not be negative")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server port must be between 1 and 65535")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, "log level must be one of debug, info, warn, error")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, "log format must be text or json")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ValidateDatabase checks only what database commands need
func (c *Config) ValidateDatabase() error {
	if errs := c.databaseErrors(); len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) databaseErrors() []string {
	var errs []string
	if c.Database.PostgresURL == "" {
		errs = append(errs, "PostgreSQL URL is required")
	} else if !isValidURL(c.Database.PostgresURL) {
		errs = append(errs, "PostgreSQL URL must be a valid URL")
	}
	if c.Database.MaxConns < 1 {
		errs = append(errs, "database max_conns must be at least 1")
	}
	return errs
}

// getConfigPath returns the path to the config file
func getConfigPath() string {
	if path := os.Getenv("SHOPASSIST_CONFIG"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}

	return filepath.Join(homeDir, ".config", "shopassist", "config.json")
}
