package source

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/leapstack-labs/sheetjoin/pkg/table"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetURLPrefix identifies Google Sheets locators.
const SheetURLPrefix = "https://docs.google.com/spreadsheets"

// DefaultCredentialsFile is the service-account key read when none is configured.
const DefaultCredentialsFile = "credentials.json"

var sheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// IsSheetURL reports whether locator is a Google Sheets URL.
func IsSheetURL(locator string) bool {
	return strings.HasPrefix(locator, SheetURLPrefix)
}

// SpreadsheetID extracts the spreadsheet id from a sheet URL.
func SpreadsheetID(url string) (string, error) {
	m := sheetIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("invalid Google sheets URL")
	}
	return m[1], nil
}

// GSheetReader reads the first sheet of a Google spreadsheet using a
// service account. All values are the sheet's formatted strings.
// Header columns starting with "_" are dropped.
type GSheetReader struct {
	clientOpts []option.ClientOption
	logger     *slog.Logger
}

// NewGSheetReader creates a Sheets reader.
func NewGSheetReader(opts Options) *GSheetReader {
	clientOpts := opts.SheetsClientOptions
	if len(clientOpts) == 0 {
		creds := opts.CredentialsFile
		if creds == "" {
			creds = DefaultCredentialsFile
		}
		clientOpts = []option.ClientOption{
			option.WithCredentialsFile(creds),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope),
		}
	}
	return &GSheetReader{clientOpts: clientOpts, logger: opts.logger()}
}

// Read implements Reader.
func (r *GSheetReader) Read(ctx context.Context, locator string) (*table.Table, error) {
	id, err := SpreadsheetID(locator)
	if err != nil {
		return nil, unreadable(locator, err)
	}

	svc, err := sheets.NewService(ctx, r.clientOpts...)
	if err != nil {
		return nil, unreadable(locator, fmt.Errorf("creating sheets client: %w", err))
	}

	doc, err := svc.Spreadsheets.Get(id).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, unreadable(locator, fmt.Errorf("loading spreadsheet: %w", err))
	}
	if len(doc.Sheets) == 0 || doc.Sheets[0].Properties == nil {
		return nil, empty(locator)
	}
	title := doc.Sheets[0].Properties.Title

	vr, err := svc.Spreadsheets.Values.Get(id, quoteSheetTitle(title)).Context(ctx).Do()
	if err != nil {
		return nil, unreadable(locator, fmt.Errorf("loading values of %q: %w", title, err))
	}
	if len(vr.Values) == 0 {
		return nil, empty(locator)
	}

	header := make([]string, len(vr.Values[0]))
	for i, v := range vr.Values[0] {
		header[i] = fmt.Sprint(v)
	}
	header = headerNames(header)

	var columns []string
	var positions []int
	for i, name := range header {
		if strings.HasPrefix(name, "_") {
			continue
		}
		columns = append(columns, name)
		positions = append(positions, i)
	}

	rows := make([]table.Row, 0, len(vr.Values)-1)
	for _, cells := range vr.Values[1:] {
		row := make(table.Row, len(columns))
		for j, name := range columns {
			pos := positions[j]
			if pos < len(cells) && cells[pos] != nil {
				row[name] = fmt.Sprint(cells[pos])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, empty(locator)
	}

	t, err := table.New(columns, rows)
	if err != nil {
		return nil, unreadable(locator, err)
	}
	r.logger.Debug("read google sheet", "spreadsheet_id", id, "sheet", title, "rows", t.Len())
	return t, nil
}

func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
