// Package export serializes analysis results for the clipboard or stdout.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/f3rmion/freqtab/internal/freq"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

// Format is a table serialization format.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatTSV      Format = "tsv"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatHTML, FormatMarkdown, FormatCSV, FormatTSV, FormatJSON, FormatYAML}

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown table format")

// Header is the column header row.
var Header = []string{"Category", "Frequency", "Percentage"}

// ParseFormat resolves a format name. "md" is accepted for markdown.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "md" {
		return FormatMarkdown, nil
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Table serializes a result set including its Total row.
func Table(rs freq.ResultSet, f Format) (string, error) {
	switch f {
	case FormatHTML:
		return tableHTML(rs), nil
	case FormatMarkdown:
		return tableMarkdown(rs), nil
	case FormatCSV:
		return tableDelimited(rs, ',')
	case FormatTSV:
		return tableDelimited(rs, '\t')
	case FormatJSON:
		out, err := json.MarshalIndent(rs, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshaling results: %w", err)
		}
		return string(out) + "\n", nil
	case FormatYAML:
		out, err := yaml.Marshal(rs)
		if err != nil {
			return "", fmt.Errorf("marshaling results: %w", err)
		}
		return string(out), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

func rowCells(r freq.Result) []string {
	return []string{r.Category, strconv.Itoa(r.Frequency), r.Percentage}
}

func tableHTML(rs freq.ResultSet) string {
	var b strings.Builder
	b.WriteString("<table>\n  <tr>\n")
	for _, h := range Header {
		fmt.Fprintf(&b, "    <th>%s</th>\n", h)
	}
	b.WriteString("  </tr>\n")
	for _, r := range rs {
		b.WriteString("  <tr>\n")
		for _, cell := range rowCells(r) {
			fmt.Fprintf(&b, "    <td>%s</td>\n", html.EscapeString(cell))
		}
		b.WriteString("  </tr>\n")
	}
	b.WriteString("</table>\n")
	return b.String()
}

func tableMarkdown(rs freq.ResultSet) string {
	rows := [][]string{Header}
	for _, r := range rs {
		cells := rowCells(r)
		cells[0] = strings.ReplaceAll(cells[0], "|", `\|`)
		rows = append(rows, cells)
	}

	widths := make([]int, len(Header))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell), 3)
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i, cell := range cells {
			b.WriteString(" ")
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return b.String()
}

func tableDelimited(rs freq.ResultSet, comma rune) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = comma

	if err := w.Write(Header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	for _, r := range rs {
		if err := w.Write(rowCells(r)); err != nil {
			return "", fmt.Errorf("writing row %q: %w", r.Category, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing table: %w", err)
	}
	return buf.String(), nil
}
