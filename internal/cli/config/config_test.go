package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/sheetjoin/internal/testutil"
	"github.com/leapstack-labs/sheetjoin/pkg/join"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("sheetjoin", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

// chdir moves into a fresh temp dir so no stray sheetjoin.yaml is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t)
	ResetConfig()

	cfg, err := LoadConfig("", newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_File(t *testing.T) {
	chdir(t)
	ResetConfig()

	cfg, err := LoadConfig(filepath.Join(testdataDir(t), "sheetjoin.yaml"), newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "join", cfg.Mode)
	assert.Equal(t, "link", cfg.Column1)
	assert.Equal(t, "href", cfg.Column2)
	assert.Equal(t, "joined.csv", cfg.Output)
	assert.Equal(t, ";", cfg.CSVDelimiter)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultFormat, cfg.Format)
}

func TestLoadConfig_DiscoversFileInWorkingDir(t *testing.T) {
	dir := chdir(t)
	ResetConfig()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sheetjoin.yaml"), []byte("mode: absent\n"), 0o600))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "absent", cfg.Mode)
	assert.Equal(t, "sheetjoin.yaml", GetConfigFileUsed())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	chdir(t)
	ResetConfig()

	_, err := LoadConfig("nope.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoadConfig_Precedence(t *testing.T) {
	chdir(t)
	ResetConfig()
	t.Setenv("SHEETJOIN_MODE", "absent")
	t.Setenv("SHEETJOIN_COLUMN1", "env_col")
	t.Setenv("SHEETJOIN_VERBOSE", "true")

	cfg, err := LoadConfig(filepath.Join(testdataDir(t), "sheetjoin.yaml"),
		newFlags(t, "--column1", "flag_col", "--csv-delimiter", `\t`))
	require.NoError(t, err)

	assert.Equal(t, "absent", cfg.Mode, "env beats file")
	assert.Equal(t, "flag_col", cfg.Column1, "flag beats env")
	assert.Equal(t, "href", cfg.Column2, "file beats default")
	assert.Equal(t, `\t`, cfg.CSVDelimiter)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_SheetAliases(t *testing.T) {
	chdir(t)
	ResetConfig()

	cfg, err := LoadConfig("", newFlags(t, "--sheet1", "a.csv", "--sheet2", "b.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a.csv", cfg.Table1)
	assert.Equal(t, "b.csv", cfg.Table2)
}

func TestApplyArgs(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
		args  []string
		want1 string
		want2 string
	}{
		{name: "positionals", args: []string{"a.csv", "b.csv"}, want1: "a.csv", want2: "b.csv"},
		{name: "flags win", flags: []string{"--table1", "f.csv"}, args: []string{"a.csv", "b.csv"}, want1: "f.csv", want2: "b.csv"},
		{name: "alias wins", flags: []string{"--sheet2", "s.csv"}, args: []string{"a.csv", "b.csv"}, want1: "a.csv", want2: "s.csv"},
		{name: "one positional", args: []string{"a.csv"}, want1: "a.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t)
			ResetConfig()
			fs := newFlags(t, tt.flags...)

			cfg, err := LoadConfig("", fs)
			require.NoError(t, err)
			cfg.ApplyArgs(tt.args, fs)

			assert.Equal(t, tt.want1, cfg.Table1)
			assert.Equal(t, tt.want2, cfg.Table2)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Table1, c.Table2 = "a.csv", "b.csv"
		return c
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name      string
		mutate    func(*Config)
		errIs     error
		errSubstr string
	}{
		{name: "missing table1", mutate: func(c *Config) { c.Table1 = "" }, errIs: ErrMissingTables},
		{name: "missing table2", mutate: func(c *Config) { c.Table2 = " " }, errIs: ErrMissingTables},
		{name: "unsupported table", mutate: func(c *Config) { c.Table2 = "b.txt" }, errSubstr: "should be one of"},
		{name: "unknown mode", mutate: func(c *Config) { c.Mode = "outer" }, errIs: join.ErrUnknownMode},
		{name: "empty column", mutate: func(c *Config) { c.Column2 = "" }, errSubstr: "must not be empty"},
		{name: "long delimiter", mutate: func(c *Config) { c.CSVDelimiter = ";;" }, errSubstr: "single character"},
		{name: "quote delimiter", mutate: func(c *Config) { c.CSVDelimiter = `"` }, errSubstr: "not allowed"},
		{name: "bad output", mutate: func(c *Config) { c.Output = "out.json" }, errSubstr: "should be one of: console"},
		{name: "bad format", mutate: func(c *Config) { c.Format = "html" }, errSubstr: "format should be one of"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, errSubstr: "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
			}
			if tt.errSubstr != "" {
				assert.Contains(t, err.Error(), tt.errSubstr)
			}
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{"", ','},
		{",", ','},
		{";", ';'},
		{`\t`, '\t'},
		{"tab", '\t'},
		{"\t", '\t'},
		{"|", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelimiter(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	c := Default()
	level, err := c.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	c.LogLevel = "info"
	level, err = c.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)

	c.Verbose = true
	level, err = c.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := testutil.NewTestLogger(t)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func testdataDir(t *testing.T) string {
	t.Helper()
	_, err := os.Stat(testdataAbs)
	require.NoError(t, err)
	return testdataAbs
}

var testdataAbs = func() string {
	abs, err := filepath.Abs("testdata")
	if err != nil {
		return "testdata"
	}
	return abs
}()
