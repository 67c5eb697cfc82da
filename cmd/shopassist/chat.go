package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chat2purchase/shopassist/internal/application/assistant"
)

// chatCmd runs one chat turn against the configured provider and catalog
func chatCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Run a single chat turn",
		Long: `Send one message through the full chat pipeline and print the reply,
session id, continuity token and suggested cart actions.

In-memory sessions last only for this process; use the postgres session
backend with --session to continue a conversation across invocations.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runChat(cmd.Context(), strings.Join(args, " "), sessionID)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "session id to continue")
	return cmd
}

func runChat(ctx context.Context, message, sessionID string) error {
	pool, err := initDB(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	a := buildApp(ctx, pool)
	out := a.service.Chat(ctx, assistant.ChatInput{Message: message, SessionID: sessionID})

	fmt.Println(out.Message)
	fmt.Println()
	fmt.Printf("Session:  %s\n", out.SessionID)
	fmt.Printf("Response: %s\n", out.ResponseID)
	fmt.Printf("Outcome:  %s\n", out.Outcome)

	if len(out.CartActions) == 0 {
		return nil
	}
	fmt.Println("Cart actions:")
	for _, action := range out.CartActions {
		fmt.Printf("  %s #%d %s ($%.2f, %.1f stars)\n",
			action.Type, action.Product.ID, action.Product.Name, action.Product.Price, action.Product.Rating)
	}
	return nil
}
