package join

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks.
var (
	ErrMissingColumn = errors.New("column not found")
	ErrUnknownMode   = errors.New("unknown join mode")
)

// MissingColumnError reports a join column absent from one of the tables.
// Table is "table1" for the left side and "table2" for the right side.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found in %s", e.Column, e.Table)
}

// Is makes errors.Is(err, ErrMissingColumn) hold.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// UnknownModeError is returned for a mode name outside Modes().
type UnknownModeError struct {
	Mode string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("mode should be one of: %s (got %q)", strings.Join(Modes(), ", "), e.Mode)
}

// Is makes errors.Is(err, ErrUnknownMode) hold.
func (e *UnknownModeError) Is(target error) bool {
	return target == ErrUnknownMode
}
