package models

import (
	"fmt"
	"strings"
)

// DefaultDepthCap is the deepest explanation level rendered by default.
const DefaultDepthCap = 3

// MaxDepthCap bounds caller-supplied depth caps.
const MaxDepthCap = 32

// RenderOptions controls a single render request.
type RenderOptions struct {
	// Fields overrides the configured schema field list when non-empty.
	Fields   []string `json:"fields,omitempty"`
	DepthCap int      `json:"depth_cap,omitempty"`
}

// Validate normalizes the options and rejects unusable values.
func (o *RenderOptions) Validate() error {
	if o.DepthCap < 0 {
		return fmt.Errorf("depth cap cannot be negative")
	}
	if o.DepthCap == 0 {
		o.DepthCap = DefaultDepthCap
	}
	if o.DepthCap > MaxDepthCap {
		o.DepthCap = MaxDepthCap
	}
	fields := o.Fields[:0]
	for _, f := range o.Fields {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	o.Fields = fields
	return nil
}

// ParseFieldList splits a comma-separated field list, dropping blanks.
func ParseFieldList(s string) []string {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
