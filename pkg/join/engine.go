package join

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sheetjoin/pkg/table"
)

// Left and right table labels used in errors and logs.
const (
	LeftLabel  = "table1"
	RightLabel = "table2"
)

// Spec names the join columns and the mode.
type Spec struct {
	LeftColumn  string
	RightColumn string
	Mode        Mode
}

// Stats summarizes one Execute call.
type Stats struct {
	LeftRows   int
	RightRows  int
	Matched    int
	Unmatched  int
	OutputRows int
}

// Engine executes joins. The zero value is usable and logs nothing.
type Engine struct {
	logger *slog.Logger
}

// New creates an engine. A nil logger discards log output.
func New(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

func (e *Engine) log() *slog.Logger {
	if e == nil || e.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.logger
}

// Execute joins left and right according to spec using a discard logger.
func Execute(left, right *table.Table, spec Spec) (*table.Table, error) {
	out, _, err := New(nil).ExecuteWithStats(left, right, spec)
	return out, err
}

// Execute joins left and right according to spec.
func (e *Engine) Execute(left, right *table.Table, spec Spec) (*table.Table, error) {
	out, _, err := e.ExecuteWithStats(left, right, spec)
	return out, err
}

// ExecuteWithStats is Execute that also reports match counts.
func (e *Engine) ExecuteWithStats(left, right *table.Table, spec Spec) (*table.Table, Stats, error) {
	if err := validate(left, right, spec); err != nil {
		return nil, Stats{}, err
	}

	logger := e.log()
	logger.Debug("starting join",
		slog.String("mode", spec.Mode.String()),
		slog.String("left_column", spec.LeftColumn),
		slog.String("right_column", spec.RightColumn),
		slog.Int("left_rows", left.Len()),
		slog.Int("right_rows", right.Len()),
	)

	idx := buildIndex(right, spec.RightColumn)
	rightCols := right.Columns()

	var columns []string
	if spec.Mode == Absent {
		columns = left.Columns()
	} else {
		columns = table.UnionColumns(left.Columns(), rightCols)
	}

	stats := Stats{LeftRows: left.Len(), RightRows: right.Len()}
	rows := make([]table.Row, 0, left.Len())

	for _, l := range left.Rows() {
		pos, found := idx[l[spec.LeftColumn]]
		if found {
			stats.Matched++
		} else {
			stats.Unmatched++
		}

		switch spec.Mode {
		case Intersect:
			if found {
				rows = append(rows, table.Merge(l, right.Row(pos)))
			}
		case Join:
			if found {
				rows = append(rows, table.Merge(l, right.Row(pos)))
			} else {
				rows = append(rows, table.Merge(l, table.DefaultRow(rightCols, "")))
			}
		case Absent:
			if !found {
				rows = append(rows, l)
			}
		}
	}

	out, err := table.New(columns, rows)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("building output table: %w", err)
	}
	stats.OutputRows = out.Len()

	logger.Info("join completed",
		slog.String("mode", spec.Mode.String()),
		slog.Int("matched", stats.Matched),
		slog.Int("unmatched", stats.Unmatched),
		slog.Int("output_rows", stats.OutputRows),
	)

	return out, stats, nil
}

func validate(left, right *table.Table, spec Spec) error {
	if _, ok := modeNames[spec.Mode]; !ok {
		return &UnknownModeError{Mode: spec.Mode.String()}
	}
	if left == nil || !left.HasColumn(spec.LeftColumn) {
		return &MissingColumnError{Table: LeftLabel, Column: spec.LeftColumn}
	}
	if right == nil || !right.HasColumn(spec.RightColumn) {
		return &MissingColumnError{Table: RightLabel, Column: spec.RightColumn}
	}
	return nil
}

// buildIndex maps each join value to the position of its first occurrence
// in t, which is exactly the row a front-to-back scan would stop at.
func buildIndex(t *table.Table, column string) map[table.Value]int {
	idx := make(map[table.Value]int, t.Len())
	for i, row := range t.Rows() {
		v := row[column]
		if _, seen := idx[v]; !seen {
			idx[v] = i
		}
	}
	return idx
}
