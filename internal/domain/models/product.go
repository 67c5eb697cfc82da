package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Product is a catalog record surfaced by product search. It is treated as an
// immutable value once decoded.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	Category    string  `json:"category"`
	ImagePath   string  `json:"image_path"`
}

// HasID reports whether the record carries a catalog identifier.
// Catalog ids are serial and start at 1.
func (p Product) HasID() bool {
	return p.ID > 0
}

// NameContains reports whether the product name contains s, ignoring case.
func (p Product) NameContains(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(s))
}

// productWire mirrors Product with loosely typed numeric fields so partially
// shaped records from upstream still decode.
type productWire struct {
	ID          json.RawMessage `json:"id"`
	Name        json.RawMessage `json:"name"`
	Description json.RawMessage `json:"description"`
	Price       json.RawMessage `json:"price"`
	Rating      json.RawMessage `json:"rating"`
	Category    json.RawMessage `json:"category"`
	ImagePath   json.RawMessage `json:"image_path"`
}

// UnmarshalJSON decodes a product record leniently: numeric fields accept
// numbers, numeric strings or null (defaulting to zero), and string fields
// accept any scalar.
func (p *Product) UnmarshalJSON(data []byte) error {
	var w productWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*p = Product{
		ID:          int64(lenientNumber(w.ID)),
		Name:        lenientString(w.Name),
		Description: lenientString(w.Description),
		Price:       lenientNumber(w.Price),
		Rating:      lenientNumber(w.Rating),
		Category:    lenientString(w.Category),
		ImagePath:   lenientString(w.ImagePath),
	}
	return nil
}

func lenientNumber(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return FiniteOrZero(f)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return FiniteOrZero(f)
		}
	}
	return 0
}

// FiniteOrZero maps NaN and infinities to zero; they have no JSON encoding.
func FiniteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func lenientString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// numbers and booleans keep their literal form
	if raw[0] != '{' && raw[0] != '[' {
		return string(raw)
	}
	return ""
}
