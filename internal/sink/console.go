package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	tbl "github.com/leapstack-labs/sheetjoin/pkg/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// ConsoleFormat selects how the console writer renders a table.
type ConsoleFormat string

// Console formats.
const (
	FormatTable    ConsoleFormat = "table"
	FormatMarkdown ConsoleFormat = "markdown"
	FormatJSON     ConsoleFormat = "json"
	FormatYAML     ConsoleFormat = "yaml"
)

// ConsoleFormats lists the accepted console format names.
func ConsoleFormats() []string {
	return []string{string(FormatTable), string(FormatMarkdown), string(FormatJSON), string(FormatYAML)}
}

// ParseConsoleFormat validates a console format name. "md" is accepted for markdown.
func ParseConsoleFormat(s string) (ConsoleFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("format should be one of: %s (got %q)", strings.Join(ConsoleFormats(), ", "), s)
}

// ConsoleWriter prints a table to standard output.
type ConsoleWriter struct {
	out    io.Writer
	format ConsoleFormat
	logger *slog.Logger
}

// NewConsoleWriter creates a console writer.
func NewConsoleWriter(opts Options) *ConsoleWriter {
	format := opts.Format
	if format == "" {
		format = FormatTable
	}
	return &ConsoleWriter{out: opts.stdout(), format: format, logger: opts.logger()}
}

// Write implements Writer.
func (w *ConsoleWriter) Write(_ context.Context, t *tbl.Table) error {
	var err error
	switch w.format {
	case FormatJSON:
		err = w.renderJSON(t)
	case FormatYAML:
		err = w.renderYAML(t)
	case FormatMarkdown:
		w.renderGrid(t, true)
	default:
		w.renderGrid(t, false)
	}
	if err != nil {
		return unwritable(ConsoleDestination, err)
	}
	w.logger.Debug("printed table", "format", string(w.format), "rows", t.Len())
	return nil
}

func (w *ConsoleWriter) renderGrid(t *tbl.Table, markdown bool) {
	if t.Len() == 0 {
		_, _ = fmt.Fprintln(w.out, "(0 rows)")
		return
	}

	cols := t.Columns()
	tw := table.NewWriter()
	tw.SetOutputMirror(w.out)
	tw.SetStyle(table.StyleLight)
	if !markdown && isTerminal(w.out) {
		tw.Style().Color.Header = text.Colors{text.Bold}
	}

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	tw.AppendHeader(header)

	for _, r := range t.Rows() {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[i] = tbl.FormatValue(r[col])
		}
		tw.AppendRow(row)
	}

	if markdown {
		tw.RenderMarkdown()
		return
	}
	tw.Render()
	_, _ = fmt.Fprintf(w.out, "(%d rows)\n", t.Len())
}

func (w *ConsoleWriter) renderJSON(t *tbl.Table) error {
	cols := t.Columns()
	objects := make([]orderedRow, 0, t.Len())
	for _, r := range t.Rows() {
		objects = append(objects, orderedRow{cols: cols, row: r})
	}
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(objects)
}

func (w *ConsoleWriter) renderYAML(t *tbl.Table) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range t.Rows() {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, col := range t.Columns() {
			var v yaml.Node
			if err := v.Encode(r[col]); err != nil {
				return err
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: col}, &v)
		}
		doc.Content = append(doc.Content, m)
	}

	enc := yaml.NewEncoder(w.out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// orderedRow marshals a row as a JSON object whose keys follow column order.
type orderedRow struct {
	cols []string
	row  tbl.Row
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range o.cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(o.row[col])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
