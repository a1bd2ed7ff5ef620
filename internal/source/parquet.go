package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/sheetjoin/pkg/table"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// ParquetReader reads a parquet file through an in-memory DuckDB instance.
type ParquetReader struct {
	logger *slog.Logger
}

// NewParquetReader creates a parquet reader.
func NewParquetReader(opts Options) *ParquetReader {
	return &ParquetReader{logger: opts.logger()}
}

// Read implements Reader.
func (r *ParquetReader) Read(ctx context.Context, locator string) (*table.Table, error) {
	if _, err := os.Stat(locator); err != nil {
		return nil, unreadable(locator, err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, unreadable(locator, fmt.Errorf("failed to open duckdb connection: %w", err))
	}
	defer func() { _ = db.Close() }()

	query := fmt.Sprintf("SELECT * FROM read_parquet('%s')", strings.ReplaceAll(locator, "'", "''"))
	rows, err := db.QueryContext(ctx, query)
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
	r.logger.Debug("read parquet", "locator", locator, "rows", t.Len())
	return t, nil
}
