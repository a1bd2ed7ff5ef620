package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/sheetjoin/pkg/table"
)

// scanTable collects a result set into a table, in result order.
func scanTable(ctx context.Context, rows *sql.Rows) (*table.Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []table.Row
	for rows.Next() {
		if len(out)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[col] = driverValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return table.New(cols, out)
}

// driverValue maps a database/sql value onto a table value. Types with no
// scalar equivalent (decimals, lists, structs) are rendered as text.
func driverValue(v any) table.Value {
	if nv, err := table.Normalize(v); err == nil {
		return nv
	}
	return fmt.Sprintf("%v", v)
}
