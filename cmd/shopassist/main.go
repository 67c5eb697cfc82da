package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chat2purchase/shopassist/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shopassist",
		Short: "shopassist - conversational shopping assistant",
		Long: `shopassist answers shoppers in natural language, searches the product
catalog on their behalf and suggests items to add to the cart.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadUnvalidated()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			setupLogging(cfg.Log)
			return nil
		},
	}

	rootCmd.AddCommand(
		serveCmd(),
		chatCmd(),
		seedCmd(),
		catalogCmd(),
		sessionsCmd(),
		configCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configCmd shows current configuration
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Current configuration:")
			fmt.Println()

			fmt.Println("LLM:")
			fmt.Printf("  URL:          %s\n", cfg.LLM.URL)
			fmt.Printf("  Model:        %s\n", cfg.LLM.Model)
			fmt.Printf("  Helper Model: %s\n", cfg.LLM.HelperModel)
			fmt.Printf("  Timeout:      %s\n", cfg.LLM.Timeout)
			fmt.Printf("  API Key:      %s\n", maskSecret(cfg.LLM.APIKey))
			fmt.Println()

			fmt.Println("Agent:")
			fmt.Printf("  Max Iterations:          %d\n", cfg.Agent.MaxIterations)
			fmt.Printf("  Max Cart Actions:        %d\n", cfg.Agent.MaxCartActions)
			fmt.Printf("  Max Recovery Candidates: %d\n", cfg.Agent.MaxRecoveryCandidates)
			fmt.Printf("  Recovery Concurrency:    %d\n", cfg.Agent.RecoveryConcurrency)
			fmt.Println()

			fmt.Println("Database:")
			fmt.Printf("  PostgreSQL: %s\n", maskURL(cfg.Database.PostgresURL))
			fmt.Printf("  Max Conns:  %d\n", cfg.Database.MaxConns)
			fmt.Println()

			fmt.Println("Sessions:")
			fmt.Printf("  Backend:     %s\n", cfg.Session.Backend)
			fmt.Printf("  TTL:         %s\n", cfg.Session.TTL)
			fmt.Printf("  Max Entries: %d\n", cfg.Session.MaxEntries)
			fmt.Println()

			fmt.Println("Server:")
			fmt.Printf("  Address: %s:%d\n", cfg.Server.Host, cfg.Server.Port)
			fmt.Printf("  CORS:    %v\n", cfg.Server.CORSOrigins)
			fmt.Println()

			if err := cfg.Validate(); err != nil {
				fmt.Printf("Status: %v\n", err)
			} else {
				fmt.Println("Status: valid")
			}
			fmt.Println()

			fmt.Println("Environment variables:")
			fmt.Println("  SHOPASSIST_LLM_URL, SHOPASSIST_LLM_API_KEY (or OPENAI_API_KEY), SHOPASSIST_LLM_MODEL")
			fmt.Println("  SHOPASSIST_POSTGRES_URL (or DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD)")
			fmt.Println("  SHOPASSIST_SESSION_BACKEND, SHOPASSIST_SESSION_TTL, SHOPASSIST_CORS_ORIGINS")

			return nil
		},
	}
}

// versionCmd shows version information
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shopassist %s\n", version)
			fmt.Printf("  Commit:     %s\n", commit)
			fmt.Printf("  Build Date: %s\n", buildDate)
		},
	}
}
