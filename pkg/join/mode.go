package join

import (
	"fmt"
	"strings"
)

// Mode selects the relational result produced by Execute.
type Mode int

// Join modes.
const (
	Intersect Mode = iota
	Join
	Absent
)

var modeNames = map[Mode]string{
	Intersect: "intersect",
	Join:      "join",
	Absent:    "absent",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Modes returns the accepted mode names in declaration order.
func Modes() []string {
	return []string{Intersect.String(), Join.String(), Absent.String()}
}

// ParseMode converts a mode name to a Mode. Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, &UnknownModeError{Mode: s}
}
