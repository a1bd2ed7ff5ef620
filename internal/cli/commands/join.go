package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/leapstack-labs/sheetjoin/internal/cli/config"
	"github.com/leapstack-labs/sheetjoin/internal/sink"
	"github.com/leapstack-labs/sheetjoin/internal/source"
	"github.com/leapstack-labs/sheetjoin/pkg/join"
)

// RunJoin reads both tables, joins them and writes the result.
// cfg must already have passed Validate.
func RunJoin(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger) error {
	start := time.Now()

	mode, err := cfg.JoinMode()
	if err != nil {
		return err
	}
	delim, err := cfg.Delimiter()
	if err != nil {
		return err
	}
	format, err := cfg.ConsoleFormat()
	if err != nil {
		return err
	}

	srcOpts := source.Options{
		CSVDelimiter:    delim,
		CredentialsFile: cfg.Credentials,
		Logger:          logger,
	}

	left, err := source.Read(ctx, cfg.Table1, srcOpts)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", join.LeftLabel, err)
	}
	right, err := source.Read(ctx, cfg.Table2, srcOpts)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", join.RightLabel, err)
	}

	result, stats, err := join.New(logger).ExecuteWithStats(left, right, join.Spec{
		LeftColumn:  cfg.Column1,
		RightColumn: cfg.Column2,
		Mode:        mode,
	})
	if err != nil {
		return err
	}

	w, err := sink.ForDestination(cfg.Output, sink.Options{
		CSVDelimiter: delim,
		Format:       format,
		Stdout:       out,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	if err := w.Write(ctx, result); err != nil {
		return err
	}

	if sink.IsFile(cfg.Output) {
		_, _ = fmt.Fprintf(out, "Saved to %s\n", cfg.Output)
	}

	logger.Info("done",
		"mode", mode.String(),
		"matched", stats.Matched,
		"unmatched", stats.Unmatched,
		"rows", stats.OutputRows,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
