package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Field selects which document field a text query runs against.
type Field string

const (
	// FieldTitle searches book titles.
	FieldTitle Field = "title"
	// FieldAuthor searches denormalized author names.
	FieldAuthor Field = "author"
)

// Params configures a search query.
type Params struct {
	Query string // User's search query
	Field Field  // Which field to search (default: title)

	Subject string // Filter by exact subject, empty = all

	// Pagination
	Limit  int
	Offset int
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Field: FieldTitle,
		Limit: 20,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit represents a single search result.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Author     string            `json:"author,omitempty"`
	Subject    string            `json:"subject,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a search query.
func (s *BookIndex) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultParams().Limit
	}
	if params.Field == "" {
		params.Field = FieldTitle
	}

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	searchRequest.Highlight = bleve.NewHighlight()
	searchRequest.Highlight.AddField(string(params.Field))

	searchRequest.Fields = []string{"id", "title", "author", "subject"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		out := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if t, ok := hit.Fields["title"].(string); ok {
			out.Title = t
		}
		if a, ok := hit.Fields["author"].(string); ok {
			out.Author = a
		}
		if subj, ok := hit.Fields["subject"].(string); ok {
			out.Subject = subj
		}

		if len(hit.Fragments) > 0 {
			out.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					out.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, out)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	if params.Query != "" {
		field := string(params.Field)
		textQueries := []query.Query{}

		// Direct match with highest boost
		match := bleve.NewMatchQuery(params.Query)
		match.SetField(field)
		match.SetBoost(3.0)
		textQueries = append(textQueries, match)

		// Fuzzy matching for typo tolerance
		fuzzy := bleve.NewFuzzyQuery(params.Query)
		fuzzy.SetFuzziness(1)
		fuzzy.SetField(field)
		fuzzy.SetBoost(0.8)
		textQueries = append(textQueries, fuzzy)

		// Prefix query for autocomplete (minimum 2 chars)
		if len(params.Query) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefix.SetField(field)
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		// Combine with OR (any strategy may match)
		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Subject filter (exact match)
	if params.Subject != "" {
		tq := bleve.NewTermQuery(params.Subject)
		tq.SetField("subject")
		queries = append(queries, tq)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}
