// Package explain renders score explanation trees as indented text.
package explain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hyperjump/lindenview/internal/models"
	"go.uber.org/multierr"
)

// DefaultDepthCap is the deepest level listed when no cap is given.
const DefaultDepthCap = models.DefaultDepthCap

const indent = "  "

// FormatError reports an explanation node whose value could not be read as a number.
// The node is still rendered, with a value of 0.00.
type FormatError struct {
	Depth       int
	Description string
	Err         error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("explanation %q at depth %d: %v", e.Description, e.Depth, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Summarizer renders explanation trees down to a fixed depth.
type Summarizer struct {
	depthCap int
}

// NewSummarizer creates a summarizer. A negative depthCap selects DefaultDepthCap.
func NewSummarizer(depthCap int) *Summarizer {
	if depthCap < 0 {
		depthCap = DefaultDepthCap
	}
	return &Summarizer{depthCap: depthCap}
}

// DepthCap returns the deepest level the summarizer lists.
func (s *Summarizer) DepthCap() int {
	return s.depthCap
}

// Summarize renders root and its descendants, one line per node, down to the
// depth cap. Nodes at the cap are listed but their children are not visited.
// Malformed values are rendered as 0.00 and reported in the returned error.
func (s *Summarizer) Summarize(root *models.ExplanationNode) (string, error) {
	if root == nil {
		return "", nil
	}
	r := &renderer{depthCap: s.depthCap}
	r.line(root, 0)
	r.render(root, 0)
	return r.buf.String(), multierr.Combine(r.errs...)
}

// Summarize renders root with the given depth cap.
func Summarize(root *models.ExplanationNode, depthCap int) (string, error) {
	return NewSummarizer(depthCap).Summarize(root)
}

type renderer struct {
	depthCap int
	buf      strings.Builder
	errs     []error
}

// render lists node's children at depth+1 and descends into them. A node's own
// line is written by its parent so a child can be pruned without output.
func (r *renderer) render(node *models.ExplanationNode, depth int) {
	if depth == r.depthCap {
		return
	}
	for _, child := range node.Details {
		if child == nil {
			continue
		}
		r.line(child, depth+1)
		if len(child.Details) > 0 {
			r.render(child, depth+1)
		}
	}
}

func (r *renderer) line(node *models.ExplanationNode, depth int) {
	value := node.Value
	err := node.ValueErr()
	if err == nil && (math.IsNaN(value) || math.IsInf(value, 0)) {
		err = fmt.Errorf("non-finite value %v", value)
	}
	if err != nil {
		r.errs = append(r.errs, &FormatError{Depth: depth, Description: node.Description, Err: err})
		value = 0
	}
	r.buf.WriteString(strings.Repeat(indent, depth))
	r.buf.WriteString(FormatValue(value))
	r.buf.WriteString(" = ")
	r.buf.WriteString(node.Description)
	r.buf.WriteByte('\n')
}

// FormatValue renders v with exactly two decimals, independent of locale.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
