package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/sheetjoin/pkg/table"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVReader reads delimited text with a header row. Every value is a string.
type CSVReader struct {
	delimiter rune
	logger    *slog.Logger
}

// NewCSVReader creates a CSV reader.
func NewCSVReader(opts Options) *CSVReader {
	d := opts.CSVDelimiter
	if d == 0 {
		d = ','
	}
	return &CSVReader{delimiter: d, logger: opts.logger()}
}

// Read implements Reader.
func (r *CSVReader) Read(ctx context.Context, locator string) (*table.Table, error) {
	f, err := os.Open(locator)
	if err != nil {
		return nil, unreadable(locator, err)
	}
	defer func() { _ = f.Close() }()

	return r.Decode(ctx, locator, f)
}

// Decode parses CSV from in. A leading byte order mark is honored and dropped.
// Records shorter than the header are padded with empty strings.
func (r *CSVReader) Decode(ctx context.Context, locator string, in io.Reader) (*table.Table, error) {
	cr := csv.NewReader(transform.NewReader(in, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.Comma = r.delimiter
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, empty(locator)
	}
	if err != nil {
		return nil, unreadable(locator, err)
	}
	columns := headerNames(header)

	var rows []table.Row
	for n := 1; ; n++ {
		if len(rows)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, unreadable(locator, err)
		}
		if len(rec) > len(columns) {
			return nil, unreadable(locator, fmt.Errorf("record %d has %d fields, header has %d", n, len(rec), len(columns)))
		}

		row := make(table.Row, len(columns))
		for i, c := range columns {
			if i < len(rec) {
				row[c] = rec[i]
			} else {
				row[c] = ""
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, empty(locator)
	}

	t, err := table.New(columns, rows)
	if err != nil {
		return nil, unreadable(locator, err)
	}
	r.logger.Debug("read csv", "locator", locator, "rows", t.Len(), "columns", len(columns))
	return t, nil
}
