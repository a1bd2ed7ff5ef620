// Package cli provides the command-line interface for sheetjoin.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/sheetjoin/internal/cli/commands"
	"github.com/leapstack-labs/sheetjoin/internal/cli/config"
	"github.com/leapstack-labs/sheetjoin/internal/sink"
	"github.com/leapstack-labs/sheetjoin/pkg/join"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version is set at build time.
var Version = "0.1.0"

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetjoin [table1] [table2]",
		Short: "sheetjoin - join two tables on a matching column",
		Long: `sheetjoin joins two tables on a matching column and prints or saves the result.

Tables can be Google Sheets URLs or csv, xlsx, parquet and sqlite files
(use path.db#table to pick a sqlite table). Three modes are supported:

  intersect  rows of table1 that have a match in table2, merged with it
  join       every row of table1, merged with its match or with empty values
  absent     rows of table1 that have no match in table2`,
		Example: `  # Rows of leads.csv whose url appears in the crm sheet
  sheetjoin leads.csv https://docs.google.com/spreadsheets/d/<id>/edit

  # Leads that are not in the crm export yet, saved as xlsx
  sheetjoin --table1 leads.csv --table2 crm.xlsx --mode absent --output todo.xlsx

  # Join on differently named columns, tab separated input
  sheetjoin a.csv b.csv --column1 link --column2 href --csv-delimiter '\t'`,
		Version: Version,
		Args:    cobra.MaximumNArgs(2),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			cfg.ApplyArgs(args, cmd.Flags())

			level, err := cfg.SlogLevel()
			if err != nil {
				// reported by Validate
				level = slog.LevelWarn
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := GetConfig(ctx)
			if err := cfg.Validate(); err != nil {
				if errors.Is(err, config.ErrMissingTables) {
					_ = cmd.Usage()
				}
				return err
			}
			return commands.RunJoin(ctx, cmd.OutOrStdout(), cfg, config.GetLogger(ctx))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sheetjoin.yaml)")
	config.AddFlags(rootCmd.Flags())

	_ = rootCmd.RegisterFlagCompletionFunc("mode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return join.Modes(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return sink.ConsoleFormats(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return config.Default()
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sheetjoin.

To load completions:

Bash:
  $ source <(sheetjoin completion bash)

Zsh:
  $ sheetjoin completion zsh > "${fpath[1]}/_sheetjoin"

Fish:
  $ sheetjoin completion fish | source

PowerShell:
  PS> sheetjoin completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
