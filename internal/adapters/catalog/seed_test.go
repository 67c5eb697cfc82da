package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chat2purchase/shopassist/internal/domain/models"
)

func TestLoadSeed(t *testing.T) {
	input := `{
		"sneaker_black.jpg": {"name": "Black Canvas Skate Sneakers", "description": "Low top", "price": "54.99", "image_path": "/images/sneaker_black.jpg", "rating": 4.4, "category": "sneakers"},
		"boot_brown.jpg": {"id": 99, "name": "Brown Leather Boot", "description": "Lace up", "price": 129, "image_path": "/images/boot_brown.jpg", "rating": 4.8, "category": "boots"}
	}`

	products, err := LoadSeed(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []models.Product{
		{Name: "Brown Leather Boot", Description: "Lace up", Price: 129, ImagePath: "/images/boot_brown.jpg", Rating: 4.8, Category: "boots"},
		{Name: "Black Canvas Skate Sneakers", Description: "Low top", Price: 54.99, ImagePath: "/images/sneaker_black.jpg", Rating: 4.4, Category: "sneakers"},
	}, products)
}

func TestLoadSeed_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "not an object", input: `[1, 2]`, want: "decode seed cache"},
		{name: "truncated", input: `{"a.jpg": {"name": `, want: "decode seed cache"},
		{name: "nameless entry", input: `{"a.jpg": {"price": 3}}`, want: `"a.jpg" has no name`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeed(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadSeed_Empty(t *testing.T) {
	products, err := LoadSeed(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, products)
}
