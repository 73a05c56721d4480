// Package cli renders result tables for the terminal and for export.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hyperjump/lindenview/internal/models"
	"github.com/hyperjump/lindenview/pkg/utils"
)

// OutputFormat is the format for table output.
type OutputFormat string

const (
	// OutputText is an aligned table followed by explanations (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one tab-separated line per row, no header.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// maxCellWidth bounds a cell in text output.
const maxCellWidth = 60

// ParseOutputFormat maps a flag or config value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputCompact, OutputJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// WriteTable writes table to w in the given format. Unknown formats are written as text.
func WriteTable(w io.Writer, table *models.ResultTable, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	case OutputCompact:
		return writeTableCompact(w, table)
	default:
		return writeTableText(w, table)
	}
}

func writeTableText(w io.Writer, table *models.ResultTable) error {
	fmt.Fprintf(w, "\n%d hits\n\n", len(table.Rows))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(table.Titles) > 0 {
		fmt.Fprintln(tw, strings.Join(table.Titles, "\t"))
	}
	for _, row := range table.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = utils.Truncate(FormatCell(c), maxCellWidth)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !table.HasExplanation {
		return nil
	}
	for pos, row := range table.Rows {
		if row.Explanation == "" {
			continue
		}
		fmt.Fprintf(w, "\n─── explanation #%d ───\n%s", pos, row.Explanation)
	}
	return nil
}

func writeTableCompact(w io.Writer, table *models.ResultTable) error {
	for _, row := range table.Rows {
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = strings.ReplaceAll(FormatCell(c), "\t", " ")
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// WriteExplanation writes a single summary with a trailing blank line.
func WriteExplanation(w io.Writer, summary string) {
	fmt.Fprint(w, summary)
	fmt.Fprintln(w)
}

// WriteResponseExtras writes the facet and aggregation blocks of res, if any.
func WriteResponseExtras(w io.Writer, res *models.SearchResult) {
	if facets := res.PrettyFacets(); facets != "" {
		fmt.Fprintf(w, "\n--- Facets ---\n%s\n", facets)
	}
	if aggs := res.PrettyAggregations(); aggs != "" {
		fmt.Fprintf(w, "\n--- Aggregations ---\n%s\n", aggs)
	}
}

// FormatCell renders a cell value as display text. Composite values are shown as compact JSON.
func FormatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int:
		return strconv.Itoa(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Sprint(c)
		}
		return string(b)
	}
}
