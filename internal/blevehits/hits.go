// Package blevehits adapts Bleve search results to the viewer's hit model so a
// local index can be rendered like a remote search response.
package blevehits

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/hyperjump/lindenview/internal/models"
)

// Open opens an existing Bleve index at path.
func Open(path string) (bleve.Index, error) {
	index, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Bleve index: %w", err)
	}
	return index, nil
}

// Search runs a query-string query with explanations and all stored fields,
// and returns the result as a search response.
func Search(ctx context.Context, index bleve.Index, query string, limit int) (*models.SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}
	req := bleve.NewSearchRequestOptions(bleve.NewQueryStringQuery(query), limit, 0, true)
	req.Fields = []string{"*"}
	res, err := index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}
	hits, err := FromSearchResult(res)
	if err != nil {
		return nil, err
	}
	success := true
	return &models.SearchResult{
		Success:   &success,
		TotalHits: int64(res.Total),
		Cost:      res.Took.Milliseconds(),
		Hits:      hits,
	}, nil
}

// FromSearchResult converts every match in res, keeping order.
func FromSearchResult(res *bleve.SearchResult) ([]*models.Hit, error) {
	if res == nil {
		return nil, nil
	}
	hits := make([]*models.Hit, 0, len(res.Hits))
	for _, m := range res.Hits {
		hit, err := FromDocumentMatch(m)
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// FromDocumentMatch converts one match. Stored fields become the JSON source
// record; a match without stored fields has no source.
func FromDocumentMatch(m *search.DocumentMatch) (*models.Hit, error) {
	hit := &models.Hit{
		ID:          m.ID,
		Score:       m.Score,
		Explanation: FromExplanation(m.Expl),
	}
	if len(m.Fields) > 0 {
		b, err := json.Marshal(m.Fields)
		if err != nil {
			return nil, fmt.Errorf("encode fields of %q: %w", m.ID, err)
		}
		source := string(b)
		hit.Source = &source
	}
	return hit, nil
}

// FromExplanation converts a Bleve explanation tree.
func FromExplanation(e *search.Explanation) *models.ExplanationNode {
	if e == nil {
		return nil
	}
	node := models.NewExplanationNode(e.Value, e.Message)
	for _, c := range e.Children {
		if child := FromExplanation(c); child != nil {
			node.Details = append(node.Details, child)
		}
	}
	return node
}
