package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the products and chat_sessions tables if missing
func EnsureSchema(ctx context.Context, db Querier) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
