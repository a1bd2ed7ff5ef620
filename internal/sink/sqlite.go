package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sheetjoin/internal/source"
	"github.com/leapstack-labs/sheetjoin/pkg/table"

	// sqlite driver for writing result tables.
	_ "modernc.org/sqlite"
)

// SQLiteWriter replaces one table in a SQLite database file with the result.
// Columns are created without declared types so cells keep their Go types.
type SQLiteWriter struct {
	path      string
	tableName string
	logger    *slog.Logger
}

// NewSQLiteWriter creates a writer for "path.db#table".
func NewSQLiteWriter(dest string, opts Options) *SQLiteWriter {
	path, name := source.SplitSQLiteLocator(dest)
	return &SQLiteWriter{path: path, tableName: name, logger: opts.logger()}
}

// Write implements Writer.
func (w *SQLiteWriter) Write(ctx context.Context, t *table.Table) (err error) {
	db, err := sql.Open("sqlite", w.path)
	if err != nil {
		return unwritable(w.path, fmt.Errorf("failed to open sqlite database: %w", err))
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return unwritable(w.path, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	cols := t.Columns()
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = source.QuoteIdent(c)
		marks[i] = "?"
	}
	name := source.QuoteIdent(w.tableName)

	stmts := []string{
		"DROP TABLE IF EXISTS " + name,
		fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(quoted, ", ")),
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return unwritable(w.path, err)
		}
	}

	insert, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", //nolint:gosec // identifiers are quoted
		name, strings.Join(quoted, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return unwritable(w.path, err)
	}
	defer func() { _ = insert.Close() }()

	args := make([]any, len(cols))
	for _, r := range t.Rows() {
		for i, c := range cols {
			args[i] = r[c]
		}
		if _, err := insert.ExecContext(ctx, args...); err != nil {
			return unwritable(w.path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return unwritable(w.path, err)
	}
	w.logger.Debug("wrote sqlite", "path", w.path, "table", w.tableName, "rows", t.Len())
	return nil
}
