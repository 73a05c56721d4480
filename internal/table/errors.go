package table

import "fmt"

// ParseError reports a hit whose source record could not be parsed.
// The hit's schema columns are rendered as empty placeholders.
type ParseError struct {
	Position int
	HitID    string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("hit %d (id %q): parse source: %v", e.Position, e.HitID, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExplanationError reports a hit whose explanation rendered with substitutions.
type ExplanationError struct {
	Position int
	HitID    string
	Err      error
}

func (e *ExplanationError) Error() string {
	return fmt.Sprintf("hit %d (id %q): explanation: %v", e.Position, e.HitID, e.Err)
}

func (e *ExplanationError) Unwrap() error { return e.Err }
