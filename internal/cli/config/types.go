// Package config provides configuration management for the sheetjoin CLI.
//
// Values are layered from defaults, an optional sheetjoin.yaml file,
// SHEETJOIN_* environment variables and explicitly set flags, in rising
// order of precedence.
package config

// Config holds all CLI configuration options.
type Config struct {
	Table1       string `koanf:"table1"`
	Table2       string `koanf:"table2"`
	Mode         string `koanf:"mode"`
	Column1      string `koanf:"column1"`
	Column2      string `koanf:"column2"`
	Output       string `koanf:"output"`
	CSVDelimiter string `koanf:"csv_delimiter"`
	Format       string `koanf:"format"`
	Credentials  string `koanf:"credentials"`
	Verbose      bool   `koanf:"verbose"`
	LogLevel     string `koanf:"log_level"`
}

// Default configuration values.
const (
	DefaultMode         = "intersect"
	DefaultColumn       = "url"
	DefaultOutput       = "console"
	DefaultCSVDelimiter = ","
	DefaultFormat       = "table"
	DefaultCredentials  = "credentials.json"
	DefaultLogLevel     = "warn"
)

// Default returns a Config populated with default values only.
func Default() *Config {
	return &Config{
		Mode:         DefaultMode,
		Column1:      DefaultColumn,
		Column2:      DefaultColumn,
		Output:       DefaultOutput,
		CSVDelimiter: DefaultCSVDelimiter,
		Format:       DefaultFormat,
		Credentials:  DefaultCredentials,
		LogLevel:     DefaultLogLevel,
	}
}

func defaultValues() map[string]interface{} {
	d := Default()
	return map[string]interface{}{
		"mode":          d.Mode,
		"column1":       d.Column1,
		"column2":       d.Column2,
		"output":        d.Output,
		"csv_delimiter": d.CSVDelimiter,
		"format":        d.Format,
		"credentials":   d.Credentials,
		"verbose":       false,
		"log_level":     d.LogLevel,
	}
}
