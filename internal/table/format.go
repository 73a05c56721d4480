package table

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
)

// scoreFormat groups thousands and keeps two decimals, e.g. 1,234.50.
const scoreFormat = "#,###.##"

// Placeholder fills a schema column the source record does not provide.
const Placeholder = ""

var errInvalidSource = errors.New("source is not a valid JSON object")

// exactScoreLimit is where humanize.FormatFloat, which goes through int64, stops being exact.
const exactScoreLimit = 1 << 53

// FormatScore rounds a score to two decimals for display.
func FormatScore(score float64) string {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return strconv.FormatFloat(score, 'f', 2, 64)
	}
	if math.Abs(score) >= exactScoreLimit {
		return formatLargeScore(score)
	}
	return humanize.FormatFloat(scoreFormat, score)
}

// formatLargeScore groups the integer digits of score with humanize.BigComma.
// Scores this large have no fractional part.
func formatLargeScore(score float64) string {
	text := strconv.FormatFloat(score, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(text, ".")
	n, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return text
	}
	return humanize.BigComma(n) + "." + frac
}

// sourceRecord is a parsed source keyed by top-level field name.
type sourceRecord map[string]gjson.Result

func parseSource(text string) (sourceRecord, error) {
	if !gjson.Valid(text) {
		return nil, errInvalidSource
	}
	parsed := gjson.Parse(text)
	if !parsed.IsObject() {
		return nil, errInvalidSource
	}
	return parsed.Map(), nil
}

// value returns the display value for field, or Placeholder when the field is
// absent or null.
func (r sourceRecord) value(field string) any {
	v, ok := r[field]
	if !ok || !v.Exists() || v.Type == gjson.Null {
		return Placeholder
	}
	return v.Value()
}
