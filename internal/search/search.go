// Package search provides site-wide search over content items and side
// notes: Meilisearch when configured and healthy, with an in-process scan
// fallback so search never disappears entirely.
package search

// ResultType identifies the kind of entity in a search result.
type ResultType string

const (
	ResultContent ResultType = "content"
	ResultNote    ResultType = "note"
)

// Result is a single search hit returned to the caller.
type Result struct {
	Type     ResultType `json:"type"`
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Snippet  string     `json:"snippet"`
	Category string     `json:"category,omitempty"`
	Slug     string     `json:"slug,omitempty"`
}

// Query describes a search request.
type Query struct {
	Text       string
	FilterType ResultType // empty = all types
	Limit      int
	Offset     int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// ContentRecord is the data indexed for a content item.
type ContentRecord struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Category string   `json:"category"`
	Slug     string   `json:"slug"`
	Tags     []string `json:"tags"`
}

// NoteRecord is the data indexed for a side note.
type NoteRecord struct {
	ID           string   `json:"id"`
	Content      string   `json:"content"`
	Source       string   `json:"source"`
	SourceAuthor string   `json:"sourceAuthor"`
	NoteType     string   `json:"noteType"`
	Tags         []string `json:"tags"`
}

// ContentRecordID builds a Meilisearch-safe primary key from the global
// (category, slug) identity.
func ContentRecordID(category, slug string) string {
	return category + "--" + slug
}
