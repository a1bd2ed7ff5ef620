package config

import "github.com/spf13/pflag"

// AddFlags registers the join flags on fs. Defaults shown in help come
// from Default; LoadConfig only reads flags the user changed.
func AddFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("table1", "", "First table: Google Sheets URL or csv, xlsx, parquet, sqlite path")
	fs.String("table2", "", "Second table: Google Sheets URL or csv, xlsx, parquet, sqlite path")
	fs.String("sheet1", "", "Alias for --table1")
	fs.String("sheet2", "", "Alias for --table2")
	fs.StringP("mode", "m", d.Mode, "Join mode (intersect|join|absent)")
	fs.String("column1", d.Column1, "Join column in table1")
	fs.String("column2", d.Column2, "Join column in table2")
	fs.StringP("output", "o", d.Output, "Output target: console or a .csv, .xlsx, .db path")
	fs.String("csv-delimiter", d.CSVDelimiter, `CSV field delimiter (one character, \t for tab)`)
	fs.StringP("format", "f", d.Format, "Console format (table|markdown|json|yaml)")
	fs.String("credentials", d.Credentials, "Google service account key file")
	fs.BoolP("verbose", "v", false, "Verbose output (same as --log-level debug)")
	fs.String("log-level", d.LogLevel, "Log level (debug|info|warn|error)")

	_ = fs.MarkHidden("sheet1")
	_ = fs.MarkHidden("sheet2")
}
