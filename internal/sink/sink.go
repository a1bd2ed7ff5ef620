// Package sink writes tables to the console or to files.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sheetjoin/internal/source"
	"github.com/leapstack-labs/sheetjoin/pkg/table"
)

// ConsoleDestination selects the console writer.
const ConsoleDestination = "console"

// ErrUnwritableDestination wraps every write failure.
var ErrUnwritableDestination = errors.New("unwritable destination")

// Writer serializes a table to its destination.
type Writer interface {
	Write(ctx context.Context, t *table.Table) error
}

// Options configures the built-in writers.
type Options struct {
	// CSVDelimiter separates CSV fields. Zero means ','.
	CSVDelimiter rune
	// Format is the console format. Empty means FormatTable.
	Format ConsoleFormat
	// Stdout receives console output. Nil means os.Stdout.
	Stdout io.Writer
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

// UnsupportedDestinationError is returned for an output target no writer handles.
type UnsupportedDestinationError struct {
	Destination string
}

func (e *UnsupportedDestinationError) Error() string {
	return fmt.Sprintf("output %q should be one of: console, path to csv file, path to xlsx file, path to sqlite file", e.Destination)
}

// IsFile reports whether dest is written to disk rather than the console.
func IsFile(dest string) bool {
	return dest != ConsoleDestination
}

// CheckDestination validates dest without creating a writer.
func CheckDestination(dest string) error {
	_, err := ForDestination(dest, Options{})
	return err
}

// ForDestination returns the writer for dest.
func ForDestination(dest string, opts Options) (Writer, error) {
	switch {
	case dest == ConsoleDestination:
		return NewConsoleWriter(opts), nil
	case hasExt(dest, ".csv"):
		return NewCSVWriter(dest, opts), nil
	case hasExt(dest, ".xlsx"):
		return NewXLSXWriter(dest, opts), nil
	case source.IsSQLitePath(dest):
		return NewSQLiteWriter(dest, opts), nil
	}
	return nil, &UnsupportedDestinationError{Destination: dest}
}

func hasExt(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

func unwritable(dest string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnwritableDestination, dest, err)
}
