package models

// SearchStatus is the outcome of a catalog search
type SearchStatus string

const (
	SearchStatusFound        SearchStatus = "found"
	SearchStatusNoResults    SearchStatus = "no_results"
	SearchStatusInvalidQuery SearchStatus = "invalid_query"
	SearchStatusFailed       SearchStatus = "failed"
)

// SearchResult is the typed result of a natural-language catalog search.
// Message is the human-readable summary returned to the model.
type SearchResult struct {
	Query    string       `json:"query"`
	SQL      string       `json:"sql,omitempty"`
	Status   SearchStatus `json:"status"`
	Products []Product    `json:"products,omitempty"`
	Message  string       `json:"message"`
}

func (r *SearchResult) Found() bool {
	return r.Status == SearchStatusFound && len(r.Products) > 0
}
