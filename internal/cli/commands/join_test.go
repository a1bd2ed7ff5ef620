package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/sheetjoin/internal/cli/config"
	"github.com/leapstack-labs/sheetjoin/internal/source"
	"github.com/leapstack-labs/sheetjoin/internal/testutil"
	"github.com/leapstack-labs/sheetjoin/pkg/join"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	leadsCSV  = "url,name\na.com,Ann\nb.com,Bob\nc.com,Cy\n"
	visitsCSV = "url,visits\nc.com,9\na.com,3\n"
)

func joinConfig(t *testing.T, mode string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Table1 = testutil.WriteFile(t, "leads.csv", leadsCSV)
	cfg.Table2 = testutil.WriteFile(t, "visits.csv", visitsCSV)
	cfg.Mode = mode
	cfg.Format = "json"
	require.NoError(t, cfg.Validate())
	return cfg
}

func runJSON(t *testing.T, cfg *config.Config) []map[string]any {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, RunJoin(context.Background(), &out, cfg, testutil.NewTestLogger(t)))

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	return rows
}

func TestRunJoin_Modes(t *testing.T) {
	tests := []struct {
		mode string
		want []map[string]any
	}{
		{
			mode: "intersect",
			want: []map[string]any{
				{"url": "a.com", "name": "Ann", "visits": "3"},
				{"url": "c.com", "name": "Cy", "visits": "9"},
			},
		},
		{
			mode: "join",
			want: []map[string]any{
				{"url": "a.com", "name": "Ann", "visits": "3"},
				{"url": "b.com", "name": "Bob", "visits": ""},
				{"url": "c.com", "name": "Cy", "visits": "9"},
			},
		},
		{
			mode: "absent",
			want: []map[string]any{
				{"url": "b.com", "name": "Bob"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			assert.Equal(t, tt.want, runJSON(t, joinConfig(t, tt.mode)))
		})
	}
}

func TestRunJoin_WritesCSV(t *testing.T) {
	cfg := joinConfig(t, "intersect")
	cfg.Output = filepath.Join(t.TempDir(), "out.csv")

	var out bytes.Buffer
	require.NoError(t, RunJoin(context.Background(), &out, cfg, testutil.NewTestLogger(t)))

	assert.Equal(t, "Saved to "+cfg.Output+"\n", out.String())
	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, "url,name,visits\r\na.com,Ann,3\r\nc.com,Cy,9\r\n", string(data))
}

func TestRunJoin_MissingColumn(t *testing.T) {
	cfg := joinConfig(t, "intersect")
	cfg.Column2 = "link"

	err := RunJoin(context.Background(), &bytes.Buffer{}, cfg, testutil.NewTestLogger(t))
	require.ErrorIs(t, err, join.ErrMissingColumn)
	assert.Contains(t, err.Error(), "table2")
}

func TestRunJoin_UnreadableTable(t *testing.T) {
	cfg := joinConfig(t, "intersect")
	cfg.Table2 = filepath.Join(t.TempDir(), "missing.csv")

	err := RunJoin(context.Background(), &bytes.Buffer{}, cfg, testutil.NewTestLogger(t))
	require.ErrorIs(t, err, source.ErrUnreadableSource)
	assert.Contains(t, err.Error(), "table2")
}

func TestRunJoin_UnsupportedTable(t *testing.T) {
	cfg := joinConfig(t, "intersect")
	cfg.Table1 = "leads.txt"

	err := RunJoin(context.Background(), &bytes.Buffer{}, cfg, testutil.NewTestLogger(t))
	var unsupported *source.UnsupportedLocatorError
	require.ErrorAs(t, err, &unsupported)
}
