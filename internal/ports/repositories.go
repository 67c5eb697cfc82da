package ports

import (
	"context"
	"time"

	"github.com/chat2purchase/shopassist/internal/domain/models"
)

// ProductRepository defines catalog persistence operations
type ProductRepository interface {
	// Query runs a vetted read-only statement against the products table.
	Query(ctx context.Context, sql string) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Count(ctx context.Context) (int64, error)
	ListCategories(ctx context.Context) ([]string, error)
	Truncate(ctx context.Context) error
	InsertBatch(ctx context.Context, products []models.Product) (int64, error)
}

// SessionRepository persists session continuity tokens
type SessionRepository interface {
	Get(ctx context.Context, sessionID string, notBefore time.Time) (string, error)
	Upsert(ctx context.Context, sessionID, responseID string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// TransactionManager runs a function inside a database transaction
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
