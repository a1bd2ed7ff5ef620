package source

import (
	"context"
	"testing"

	"github.com/leapstack-labs/sheetjoin/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForLocator(t *testing.T) {
	tests := []struct {
		locator string
		want    any
	}{
		{"https://docs.google.com/spreadsheets/d/abc/edit#gid=0", &GSheetReader{}},
		{"data/left.csv", &CSVReader{}},
		{"LEFT.CSV", &CSVReader{}},
		{"book.xlsx", &XLSXReader{}},
		{"events.parquet", &ParquetReader{}},
		{"store.db", &SQLiteReader{}},
		{"store.sqlite#customers", &SQLiteReader{}},
	}

	for _, tt := range tests {
		t.Run(tt.locator, func(t *testing.T) {
			r, err := ForLocator(tt.locator, Options{})
			require.NoError(t, err)
			assert.IsType(t, tt.want, r)
		})
	}
}

func TestForLocator_Unsupported(t *testing.T) {
	_, err := ForLocator("notes.txt", Options{})
	require.Error(t, err)

	var ule *UnsupportedLocatorError
	require.ErrorAs(t, err, &ule)
	assert.Equal(t, "notes.txt", ule.Locator)
	assert.Contains(t, err.Error(), "csv file path")
	assert.Contains(t, err.Error(), "Google Sheets URL")
	assert.False(t, Supported("notes.txt"))
	assert.True(t, Supported("a.csv"))
}

func TestRegister_ReplacesInPlace(t *testing.T) {
	before := Kinds()
	Register("csv", "csv file path", HasExt(".csv"), func(o Options) Reader { return NewCSVReader(o) })
	assert.Equal(t, before, Kinds())
	require.GreaterOrEqual(t, len(before), 5)
	assert.Equal(t, []string{"gsheet", "csv", "xlsx", "parquet", "sqlite"}, before[:5])
}

type stubReader struct{ t *table.Table }

func (s stubReader) Read(context.Context, string) (*table.Table, error) { return s.t, nil }

func TestRead_UsesRegisteredReader(t *testing.T) {
	want := table.MustNew([]string{"url"}, table.Row{"url": "a"})
	Register("stub", "stub locator", HasExt(".stub"), func(Options) Reader { return stubReader{want} })

	got, err := Read(context.Background(), "x.stub", Options{})
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestHeaderNames(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  []string
	}{
		{name: "blank cell", cells: []string{"url", " ", "x"}, want: []string{"url", "field2", "x"}},
		{name: "duplicate", cells: []string{"url", "name", "name"}, want: []string{"url", "name", "name_2"}},
		{name: "generated clashes with real", cells: []string{"url", "", "field2"}, want: []string{"url", "field2_2", "field2"}},
		{name: "suffix clashes with real", cells: []string{"a", "a", "a_2"}, want: []string{"a", "a_3", "a_2"}},
		{name: "triple", cells: []string{"a", "a", "a"}, want: []string{"a", "a_2", "a_3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, headerNames(tt.cells))
		})
	}
}
