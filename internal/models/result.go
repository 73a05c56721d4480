package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SearchResult is the response body of a Linden search request.
type SearchResult struct {
	// Success is nil when the response omits it; only an explicit false is a failure.
	Success   *bool  `json:"success,omitempty"`
	Error     string `json:"error,omitempty"`
	TotalHits int64  `json:"totalHits,omitempty"`
	Cost      int64  `json:"cost,omitempty"`
	Hits      []*Hit `json:"hits,omitempty"`
	// FacetResults and AggregationResults are passed through without interpretation.
	FacetResults       json.RawMessage `json:"facetResults,omitempty"`
	AggregationResults json.RawMessage `json:"aggregationResults,omitempty"`
}

// ServiceError is a failure reported by the search service itself.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return "search service reported failure"
	}
	return fmt.Sprintf("search service reported failure: %s", e.Message)
}

// Err returns a *ServiceError when the service flagged the request as failed.
func (r *SearchResult) Err() error {
	if r.Success == nil || *r.Success {
		return nil
	}
	return &ServiceError{Message: r.Error}
}

// PrettyFacets returns the facet results indented with four spaces, or "" when absent.
func (r *SearchResult) PrettyFacets() string {
	return prettyJSON(r.FacetResults)
}

// PrettyAggregations returns the aggregation results indented with four spaces, or "" when absent.
func (r *SearchResult) PrettyAggregations() string {
	return prettyJSON(r.AggregationResults)
}

func prettyJSON(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "    "); err != nil {
		return string(raw)
	}
	return buf.String()
}
