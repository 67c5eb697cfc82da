package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chat2purchase/shopassist/internal/domain/models"
)

// LoadSeed reads a seed cache: a JSON object mapping image filename to
// product record. Records come back ordered by filename so identities assigned
// on insert are stable across runs. Ids in the file are ignored.
func LoadSeed(r io.Reader) ([]models.Product, error) {
	var cache map[string]models.Product
	if err := json.NewDecoder(r).Decode(&cache); err != nil {
		return nil, fmt.Errorf("decode seed cache: %w", err)
	}

	filenames := make([]string, 0, len(cache))
	for name := range cache {
		filenames = append(filenames, name)
	}
	sort.Strings(filenames)

	products := make([]models.Product, 0, len(cache))
	for _, name := range filenames {
		p := cache[name]
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("seed entry %q has no name", name)
		}
		p.ID = 0
		products = append(products, p)
	}
	return products, nil
}
