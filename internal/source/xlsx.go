package source

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/leapstack-labs/sheetjoin/pkg/table"
	"github.com/xuri/excelize/v2"
)

// XLSXReader reads the first worksheet of a workbook. Row 1 is the header.
// Numeric cells become float64, boolean cells bool, blank cells nil and
// everything else its string value. Fully blank rows are skipped.
type XLSXReader struct {
	logger *slog.Logger
}

// NewXLSXReader creates a workbook reader.
func NewXLSXReader(opts Options) *XLSXReader {
	return &XLSXReader{logger: opts.logger()}
}

// Read implements Reader.
func (r *XLSXReader) Read(ctx context.Context, locator string) (*table.Table, error) {
	f, err := excelize.OpenFile(locator)
	if err != nil {
		return nil, unreadable(locator, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, unreadable(locator, fmt.Errorf("workbook has no sheets"))
	}
	sheet := sheets[0]

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, unreadable(locator, err)
	}
	if len(raw) == 0 {
		return nil, empty(locator)
	}
	columns := headerNames(raw[0])

	var rows []table.Row
	for i, cells := range raw[1:] {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if blankRow(cells) {
			continue
		}

		rowNum := i + 2
		row := make(table.Row, len(columns))
		for col, name := range columns {
			if col >= len(cells) || cells[col] == "" {
				row[name] = nil
				continue
			}
			v, err := r.cellValue(f, sheet, col+1, rowNum, cells[col])
			if err != nil {
				return nil, unreadable(locator, err)
			}
			row[name] = v
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
	r.logger.Debug("read xlsx", "locator", locator, "sheet", sheet, "rows", t.Len())
	return t, nil
}

// cellValue types a raw cell by its stored cell type. Cells without an
// explicit type are numbers in the OOXML format.
func (r *XLSXReader) cellValue(f *excelize.File, sheet string, col, row int, raw string) (table.Value, error) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		return nil, err
	}

	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n, nil
		}
	}
	return raw, nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
