// Package source reads tables from files and remote spreadsheets.
//
// A locator is dispatched to a reader by its shape: a Google Sheets URL,
// or a file path whose extension names the format. Every reader returns a
// table.Table whose columns come from the source's header row.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/leapstack-labs/sheetjoin/pkg/table"
	"google.golang.org/api/option"
)

// Read errors. Reader failures wrap one of these.
var (
	ErrUnreadableSource = errors.New("unreadable source")
	ErrEmptySource      = errors.New("empty source")
)

// ctxCheckInterval is how often, in rows, long reads check for cancellation.
const ctxCheckInterval = 100

// Reader loads one table from a locator.
type Reader interface {
	Read(ctx context.Context, locator string) (*table.Table, error)
}

// Options configures the built-in readers.
type Options struct {
	// CSVDelimiter separates CSV fields. Zero means ','.
	CSVDelimiter rune
	// CredentialsFile is the Google service-account key used for sheet URLs.
	CredentialsFile string
	// SheetsClientOptions replace the credentials-file options when set.
	SheetsClientOptions []option.ClientOption
	Logger              *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Matcher reports whether a reader handles a locator.
type Matcher func(locator string) bool

// Factory builds a reader from options.
type Factory func(Options) Reader

type kind struct {
	name    string
	desc    string
	match   Matcher
	factory Factory
}

var (
	registryMu sync.RWMutex
	registry   []kind
)

func init() {
	Register("gsheet", "Google Sheets URL", IsSheetURL, func(o Options) Reader { return NewGSheetReader(o) })
	Register("csv", "csv file path", HasExt(".csv"), func(o Options) Reader { return NewCSVReader(o) })
	Register("xlsx", "xlsx file path", HasExt(".xlsx"), func(o Options) Reader { return NewXLSXReader(o) })
	Register("parquet", "parquet file path", HasExt(".parquet"), func(o Options) Reader { return NewParquetReader(o) })
	Register("sqlite", "sqlite file path", IsSQLitePath, func(o Options) Reader { return NewSQLiteReader(o) })
}

// Register adds a reader kind. Kinds are tried in registration order, and
// registering an existing name replaces it in place.
func Register(name, desc string, match Matcher, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	k := kind{name: name, desc: desc, match: match, factory: factory}
	for i := range registry {
		if registry[i].name == name {
			registry[i] = k
			return
		}
	}
	registry = append(registry, k)
}

// Kinds returns the registered reader names in dispatch order.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for _, k := range registry {
		names = append(names, k.name)
	}
	return names
}

// ForLocator returns the reader for locator.
func ForLocator(locator string, opts Options) (Reader, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, k := range registry {
		if k.match(locator) {
			return k.factory(opts), nil
		}
	}
	descs := make([]string, 0, len(registry))
	for _, k := range registry {
		descs = append(descs, k.desc)
	}
	return nil, &UnsupportedLocatorError{Locator: locator, Available: descs}
}

// Supported reports whether some registered reader accepts locator.
func Supported(locator string) bool {
	_, err := ForLocator(locator, Options{})
	return err == nil
}

// Read dispatches locator to its reader and reads it.
func Read(ctx context.Context, locator string, opts Options) (*table.Table, error) {
	r, err := ForLocator(locator, opts)
	if err != nil {
		return nil, err
	}
	opts.logger().Debug("reading table", "locator", locator)
	return r.Read(ctx, locator)
}

// UnsupportedLocatorError is returned when no reader accepts a locator.
type UnsupportedLocatorError struct {
	Locator   string
	Available []string
}

func (e *UnsupportedLocatorError) Error() string {
	return fmt.Sprintf("table %q should be one of: %s", e.Locator, strings.Join(e.Available, ", "))
}

// HasExt returns a matcher for paths ending in ext, ignoring case.
func HasExt(ext string) Matcher {
	return func(locator string) bool {
		return strings.EqualFold(filepath.Ext(locator), ext)
	}
}

func unreadable(locator string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnreadableSource, locator, err)
}

func empty(locator string) error {
	return fmt.Errorf("%w: %s has no data rows", ErrEmptySource, locator)
}

// headerNames names blank header cells field1, field2, ... by position and
// makes every name unique. A repeated name, or a generated name that clashes
// with a real header, gets a _2, _3, ... suffix; the first real header keeps
// the plain name.
func headerNames(cells []string) []string {
	explicit := make(map[string]struct{}, len(cells))
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			explicit[c] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(cells))
	taken := func(name string, generated bool) bool {
		if _, ok := seen[name]; ok {
			return true
		}
		_, ok := explicit[name]
		return generated && ok
	}

	names := make([]string, len(cells))
	for i, c := range cells {
		generated := strings.TrimSpace(c) == ""
		if generated {
			c = fmt.Sprintf("field%d", i+1)
		}
		name := c
		for n := 2; taken(name, generated); n++ {
			name = fmt.Sprintf("%s_%d", c, n)
			generated = true
		}
		seen[name] = struct{}{}
		names[i] = name
	}
	return names
}
