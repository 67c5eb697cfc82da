package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chat2purchase/shopassist/internal/domain"
)

func TestCleanSQL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: "SELECT * FROM products LIMIT 50", want: "SELECT * FROM products LIMIT 50"},
		{name: "fenced", raw: "```sql\nSELECT * FROM products LIMIT 50;\n```", want: "SELECT * FROM products LIMIT 50"},
		{name: "labelled", raw: "SQL: SELECT * FROM products", want: "SELECT * FROM products"},
		{name: "quoted empty", raw: `""`, want: ""},
		{name: "whitespace", raw: "  \n ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanSQL(tt.raw))
		})
	}
}

func TestGuard_Accepts(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{
			name: "keeps limit",
			sql:  "SELECT * FROM products WHERE category = 'athletic shoes' AND price <= 100.0 LIMIT 50",
			want: "SELECT * FROM products WHERE category = 'athletic shoes' AND price <= 100.0 LIMIT 50",
		},
		{
			name: "adds limit",
			sql:  "SELECT * FROM products WHERE name ILIKE '%Nike%'",
			want: "SELECT * FROM products WHERE name ILIKE '%Nike%' LIMIT 50",
		},
		{
			name: "caps limit",
			sql:  "select * from products order by price asc limit 500",
			want: "select * from products order by price asc limit 50",
		},
		{
			name: "keywords inside literals",
			sql:  "SELECT * FROM products WHERE name ILIKE '%Drop Heel; delete%' LIMIT 10",
			want: "SELECT * FROM products WHERE name ILIKE '%Drop Heel; delete%' LIMIT 10",
		},
		{
			name: "column names containing keywords",
			sql:  "SELECT id, description FROM public.products ORDER BY rating DESC LIMIT 5 OFFSET 5",
			want: "SELECT id, description FROM public.products ORDER BY rating DESC LIMIT 5 OFFSET 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Guard(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGuard_Rejects(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{name: "delete", sql: "DELETE FROM products"},
		{name: "stacked statements", sql: "SELECT * FROM products; DROP TABLE products"},
		{name: "other table", sql: "SELECT * FROM chat_sessions"},
		{name: "join other table", sql: "SELECT * FROM products JOIN users ON true"},
		{name: "catalog table", sql: "SELECT * FROM pg_catalog.pg_tables"},
		{name: "comment", sql: "SELECT * FROM products -- LIMIT 50"},
		{name: "select into", sql: "SELECT * INTO backup FROM products"},
		{name: "sleep", sql: "SELECT pg_sleep(10) FROM products"},
		{name: "limit all", sql: "SELECT * FROM products LIMIT ALL"},
		{name: "no relation", sql: "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Guard(tt.sql)
			assert.True(t, errors.Is(err, domain.ErrUnsafeSQL), "got %v", err)
		})
	}
}

func TestGuard_Empty(t *testing.T) {
	_, err := Guard("")
	assert.True(t, errors.Is(err, domain.ErrInvalidQuery))
}
