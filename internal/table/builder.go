// Package table turns search hits into schema-driven display rows.
package table

import (
	"github.com/hyperjump/lindenview/internal/explain"
	"github.com/hyperjump/lindenview/internal/models"
	"go.uber.org/multierr"
)

// Fixed column titles that precede the optional distance and schema columns.
const (
	TitlePosition = ""
	TitleScore    = "score"
	TitleID       = "id"
	TitleDistance = "distance"
)

// Summarizer renders an explanation tree as text.
type Summarizer interface {
	Summarize(root *models.ExplanationNode) (string, error)
}

// Builder converts hits into a ResultTable.
type Builder struct {
	summarizer Summarizer
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithSummarizer replaces the default explanation summarizer.
func WithSummarizer(s Summarizer) BuilderOption {
	return func(b *Builder) { b.summarizer = s }
}

// WithDepthCap uses the default summarizer with the given depth cap.
func WithDepthCap(depthCap int) BuilderOption {
	return func(b *Builder) { b.summarizer = explain.NewSummarizer(depthCap) }
}

// NewBuilder creates a builder. Without options explanations are summarized to
// explain.DefaultDepthCap.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{summarizer: explain.NewSummarizer(explain.DefaultDepthCap)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// pass holds the accumulators of one Build call.
type pass struct {
	fields          []string
	titles          []string
	rows            []*models.Row
	titlesFinalized bool
	hasExplanation  bool
	err             error
}

// Build renders hits in order. Column titles come from the first hit alone, so
// a later hit with a distance or source the first hit lacked yields a row whose
// cells do not line up with the titles.
//
// A hit whose source cannot be parsed keeps its row with empty schema cells, and
// an explanation with malformed values is rendered with zeros. Such problems are
// returned together as the error; the table is complete either way.
func (b *Builder) Build(hits []*models.Hit, schemaFields []string) (*models.ResultTable, error) {
	p := &pass{
		fields: schemaFields,
		titles: []string{},
		rows:   make([]*models.Row, 0, len(hits)),
	}
	for pos, hit := range hits {
		if hit == nil {
			continue
		}
		p.rows = append(p.rows, b.buildRow(p, pos, hit))
		p.titlesFinalized = true
	}
	return &models.ResultTable{
		Titles:         p.titles,
		Rows:           p.rows,
		HasExplanation: p.hasExplanation,
	}, p.err
}

func (b *Builder) buildRow(p *pass, pos int, hit *models.Hit) *models.Row {
	row := &models.Row{Cells: []any{pos, FormatScore(hit.Score), hit.ID}}
	if hit.HasDistance() {
		row.Cells = append(row.Cells, *hit.Distance)
	}
	if !p.titlesFinalized {
		p.titles = append(p.titles, TitlePosition, TitleScore, TitleID)
		if hit.HasDistance() {
			p.titles = append(p.titles, TitleDistance)
		}
	}

	if hit.Source != nil {
		record, err := parseSource(*hit.Source)
		if err != nil {
			p.err = multierr.Append(p.err, &ParseError{Position: pos, HitID: hit.ID, Err: err})
		}
		for _, field := range p.fields {
			if !p.titlesFinalized {
				p.titles = append(p.titles, field)
			}
			// A nil record yields placeholders for every field.
			row.Cells = append(row.Cells, record.value(field))
		}
	}

	if hit.Explanation != nil {
		p.hasExplanation = true
		summary, err := b.summarizer.Summarize(hit.Explanation)
		if err != nil {
			p.err = multierr.Append(p.err, &ExplanationError{Position: pos, HitID: hit.ID, Err: err})
		}
		row.Explanation = summary
	}
	return row
}

// Build renders hits with a default Builder.
func Build(hits []*models.Hit, schemaFields []string) (*models.ResultTable, error) {
	return NewBuilder().Build(hits, schemaFields)
}
