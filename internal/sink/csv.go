package sink

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/sheetjoin/pkg/table"
)

// CSVWriter writes a header line and one record per row, CRLF terminated.
// nil cells are written as empty fields.
type CSVWriter struct {
	path      string
	delimiter rune
	logger    *slog.Logger
}

// NewCSVWriter creates a CSV writer for path.
func NewCSVWriter(path string, opts Options) *CSVWriter {
	d := opts.CSVDelimiter
	if d == 0 {
		d = ','
	}
	return &CSVWriter{path: path, delimiter: d, logger: opts.logger()}
}

// Write implements Writer.
func (w *CSVWriter) Write(_ context.Context, t *table.Table) (err error) {
	f, err := os.Create(w.path)
	if err != nil {
		return unwritable(w.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = unwritable(w.path, cerr)
		}
	}()

	if err := w.Encode(f, t); err != nil {
		return unwritable(w.path, err)
	}
	w.logger.Debug("wrote csv", "path", w.path, "rows", t.Len())
	return nil
}

// Encode writes t as CSV to out.
func (w *CSVWriter) Encode(out io.Writer, t *table.Table) error {
	cw := csv.NewWriter(out)
	cw.Comma = w.delimiter
	cw.UseCRLF = true

	cols := t.Columns()
	if err := cw.Write(cols); err != nil {
		return err
	}
	record := make([]string, len(cols))
	for _, r := range t.Rows() {
		for i, c := range cols {
			record[i] = table.FormatValue(r[c])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
