package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chat2purchase/shopassist/internal/domain"
	"github.com/chat2purchase/shopassist/internal/domain/models"
)

var productColumns = []string{"name", "description", "price", "rating", "category", "image_path"}

type ProductRepository struct {
	BaseRepository
}

func NewProductRepository(pool Querier) *ProductRepository {
	return &ProductRepository{
		BaseRepository: NewBaseRepository(pool),
	}
}

// Query runs a vetted statement and maps whichever product columns it
// returns. Numeric columns are coerced to float64.
func (r *ProductRepository) Query(ctx context.Context, query string) ([]models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogQuery, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	products := make([]models.Product, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCatalogQuery, err)
		}

		var p models.Product
		for i, field := range fields {
			if i >= len(values) {
				break
			}
			assignColumn(&p, field.Name, values[i])
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogQuery, err)
	}

	return products, nil
}

func assignColumn(p *models.Product, column string, value any) {
	switch column {
	case "id":
		p.ID = int64(toFloat(value))
	case "name":
		p.Name = toString(value)
	case "description":
		p.Description = toString(value)
	case "price":
		p.Price = toFloat(value)
	case "rating":
		p.Rating = toFloat(value)
	case "category":
		p.Category = toString(value)
	case "image_path":
		p.ImagePath = toString(value)
	}
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, name, description, price::float8, rating::float8, category, image_path
		FROM products
		WHERE id = $1`

	var p models.Product
	var description, category, imagePath sql.NullString
	err := r.conn(ctx).QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&description,
		&p.Price,
		&p.Rating,
		&category,
		&imagePath,
	)
	if err != nil {
		if checkNoRows(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	p.Description = getString(description)
	p.Category = getString(category)
	p.ImagePath = getString(imagePath)

	return &p, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int64
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *ProductRepository) ListCategories(ctx context.Context) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT DISTINCT category
		FROM products
		WHERE category IS NOT NULL AND category <> ''
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// Truncate removes every product and resets the id sequence
func (r *ProductRepository) Truncate(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := r.conn(ctx).Exec(ctx, `TRUNCATE TABLE products RESTART IDENTITY`); err != nil {
		return fmt.Errorf("failed to truncate products: %w", err)
	}
	return nil
}

// InsertBatch bulk-loads products with COPY. IDs are assigned by the database.
func (r *ProductRepository) InsertBatch(ctx context.Context, products []models.Product) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := r.conn(ctx).CopyFrom(ctx, pgx.Identifier{"products"}, productColumns,
		pgx.CopyFromSlice(len(products), func(i int) ([]any, error) {
			p := products[i]
			return []any{
				p.Name,
				nullString(p.Description),
				p.Price,
				p.Rating,
				nullString(p.Category),
				nullString(p.ImagePath),
			}, nil
		}))
	if err != nil {
		return 0, fmt.Errorf("failed to copy products: %w", err)
	}
	return n, nil
}
