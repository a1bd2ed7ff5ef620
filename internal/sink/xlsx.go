package sink

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/sheetjoin/pkg/table"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the XLSX writer fills.
const SheetName = "data"

// XLSXWriter writes a single-sheet workbook: a header row, then one row
// per table row with cells kept in their native types.
type XLSXWriter struct {
	path   string
	logger *slog.Logger
}

// NewXLSXWriter creates a workbook writer for path.
func NewXLSXWriter(path string, opts Options) *XLSXWriter {
	return &XLSXWriter{path: path, logger: opts.logger()}
}

// Write implements Writer.
func (w *XLSXWriter) Write(ctx context.Context, t *table.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return unwritable(w.path, err)
	}

	cols := t.Columns()
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return unwritable(w.path, err)
	}

	for i, r := range t.Rows() {
		if err := ctx.Err(); err != nil {
			return unwritable(w.path, err)
		}
		cells := make([]any, len(cols))
		for j, c := range cols {
			cells[j] = r[c]
		}
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return unwritable(w.path, err)
		}
		if err := f.SetSheetRow(SheetName, ref, &cells); err != nil {
			return unwritable(w.path, err)
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return unwritable(w.path, err)
	}
	w.logger.Debug("wrote xlsx", "path", w.path, "sheet", SheetName, "rows", t.Len())
	return nil
}
