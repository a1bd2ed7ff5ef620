package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/sheetjoin/internal/sink"
	"github.com/leapstack-labs/sheetjoin/internal/source"
	"github.com/leapstack-labs/sheetjoin/pkg/join"
)

// ErrMissingTables is returned when either table locator is empty.
var ErrMissingTables = errors.New("two tables are required: pass them as arguments or with --table1 and --table2")

// Validate checks the configuration before any table is read.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Table1) == "" || strings.TrimSpace(c.Table2) == "" {
		return ErrMissingTables
	}
	for _, locator := range []string{c.Table1, c.Table2} {
		if _, err := source.ForLocator(locator, source.Options{}); err != nil {
			return err
		}
	}
	if _, err := c.JoinMode(); err != nil {
		return err
	}
	if c.Column1 == "" || c.Column2 == "" {
		return fmt.Errorf("column1 and column2 must not be empty")
	}
	if _, err := c.Delimiter(); err != nil {
		return err
	}
	if err := sink.CheckDestination(c.Output); err != nil {
		return err
	}
	if _, err := c.ConsoleFormat(); err != nil {
		return err
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// JoinMode parses the configured mode.
func (c *Config) JoinMode() (join.Mode, error) {
	return join.ParseMode(c.Mode)
}

// ConsoleFormat parses the configured console format.
func (c *Config) ConsoleFormat() (sink.ConsoleFormat, error) {
	return sink.ParseConsoleFormat(c.Format)
}

// Delimiter returns the CSV delimiter as a rune. The two-character
// sequence \t and the word "tab" both mean a tab.
func (c *Config) Delimiter() (rune, error) {
	return ParseDelimiter(c.CSVDelimiter)
}

// ParseDelimiter validates a CSV delimiter setting.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("csv delimiter must be a single character (got %q)", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("csv delimiter %q is not allowed", s)
	}
	return r, nil
}

// SlogLevel returns the log level. Verbose forces debug.
func (c *Config) SlogLevel() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level should be one of: debug, info, warn, error (got %q)", c.LogLevel)
	}
	return level, nil
}
