package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sheetjoin/pkg/table"

	// sqlite driver for reading tables out of database files.
	_ "modernc.org/sqlite"
)

// DefaultSQLiteTable is the table read or written when a locator has no #table suffix.
const DefaultSQLiteTable = "data"

var sqliteExts = []string{".sqlite", ".sqlite3", ".db"}

// SplitSQLiteLocator splits "path.db#table" into its path and table name.
func SplitSQLiteLocator(locator string) (path, tableName string) {
	path, tableName, _ = strings.Cut(locator, "#")
	if tableName == "" {
		tableName = DefaultSQLiteTable
	}
	return path, tableName
}

// QuoteIdent quotes an SQL identifier with double quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// IsSQLitePath reports whether locator names a SQLite database file,
// optionally followed by #table.
func IsSQLitePath(locator string) bool {
	path, _ := SplitSQLiteLocator(locator)
	ext := filepath.Ext(path)
	for _, e := range sqliteExts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// SQLiteReader reads one table from a SQLite database file.
type SQLiteReader struct {
	logger *slog.Logger
}

// NewSQLiteReader creates a SQLite reader.
func NewSQLiteReader(opts Options) *SQLiteReader {
	return &SQLiteReader{logger: opts.logger()}
}

// Read implements Reader.
func (r *SQLiteReader) Read(ctx context.Context, locator string) (*table.Table, error) {
	path, tableName := SplitSQLiteLocator(locator)
	if _, err := os.Stat(path); err != nil {
		return nil, unreadable(locator, err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, unreadable(locator, fmt.Errorf("failed to open database: %w", err))
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+QuoteIdent(tableName)) //nolint:gosec // identifier is quoted
	if err != nil {
		return nil, unreadable(locator, err)
	}
	defer func() { _ = rows.Close() }()

	t, err := scanTable(ctx, rows)
	if err != nil {
		return nil, unreadable(locator, err)
	}
	if t.Len() == 0 {
		return nil, empty(locator)
	}
	r.logger.Debug("read sqlite", "path", path, "table", tableName, "rows", t.Len())
	return t, nil
}
