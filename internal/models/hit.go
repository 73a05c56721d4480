// Package models defines the search response, hit, explanation, and table structures.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Hit is one scored result returned by a Linden search.
type Hit struct {
	ID          string           `json:"id"`
	Score       float64          `json:"score"`
	Distance    *float64         `json:"distance,omitempty"`
	Explanation *ExplanationNode `json:"explanation,omitempty"`
	// Source is the stored record as JSON text; it is parsed only when a table is built.
	Source *string `json:"source,omitempty"`
}

// HasDistance reports whether the hit carries a distance value.
func (h *Hit) HasDistance() bool {
	return h.Distance != nil
}

// ExplanationNode is one factor in the breakdown of how a hit's score was computed.
type ExplanationNode struct {
	Value       float64            `json:"value"`
	Description string             `json:"description"`
	Details     []*ExplanationNode `json:"details,omitempty"`

	// valueErr is set when the decoded value was not numeric; Value is then 0.
	valueErr error
}

// ValueErr returns the decode error for a non-numeric value, or nil.
func (n *ExplanationNode) ValueErr() error {
	return n.valueErr
}

// UnmarshalJSON accepts numbers and numeric strings for value. Any other value
// is recorded on the node and replaced by 0 so that one bad factor does not
// reject the whole response.
func (n *ExplanationNode) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value       json.RawMessage    `json:"value"`
		Description string             `json:"description"`
		Details     []*ExplanationNode `json:"details"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Description = raw.Description
	n.Details = raw.Details
	n.Value, n.valueErr = parseExplanationValue(raw.Value)
	return nil
}

func parseExplanationValue(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("missing value")
	}
	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, fmt.Errorf("invalid value %s: %w", raw, err)
		}
		text = strings.TrimSpace(text)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-numeric value %q", text)
	}
	return v, nil
}

// NewExplanationNode builds a node programmatically.
func NewExplanationNode(value float64, description string, details ...*ExplanationNode) *ExplanationNode {
	return &ExplanationNode{Value: value, Description: description, Details: details}
}
