package contract

import (
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/casewatch/schema"
)

// Default values for configuration.
const (
	DefaultPrecision   = 1
	DefaultChartWidth  = 1024
	DefaultChartHeight = 512
	MinChartSize       = 200
	MaxChartSize       = 4096
)

// Config holds the runtime configuration for a command.
// This struct remains the "final, validated" config.
type Config struct {
	Dataset     schema.DatasetID
	DatasetFile string // Optional YAML/TOML/JSON dataset replacing a built-in one

	// Start and End stay raw because they resolve against the selected dataset
	Start string
	End   string

	Mode       schema.DisplayMode
	Hidden     []string
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	OutputDir   string // Destination directory of chart, report and bundle exports
	ChartFormat schema.ChartFormat
	ChartKind   schema.ChartKind
	ChartWidth  int
	ChartHeight int

	AnomalyThreshold float64

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Verbose bool
	Quiet   bool

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Dataset          string  `mapstructure:"dataset"`
	DatasetFile      string  `mapstructure:"dataset-file"`
	Start            string  `mapstructure:"start"`
	End              string  `mapstructure:"end"`
	Mode             string  `mapstructure:"mode"`
	Hide             string  `mapstructure:"hide"`
	Precision        int     `mapstructure:"precision"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Width            int     `mapstructure:"width"`
	Threshold        float64 `mapstructure:"threshold"`
	HistoryBackend   string  `mapstructure:"history-backend"`
	HistoryDBConnect string  `mapstructure:"history-db-connect"`
	Verbose          bool    `mapstructure:"verbose"`
	Quiet            bool    `mapstructure:"quiet"`
	Emoji            string  `mapstructure:"emoji"`
	Color            string  `mapstructure:"color"`

	// --- Fields from exportCmd.PersistentFlags() ---
	OutputDir   string `mapstructure:"output-dir"`
	ChartFormat string `mapstructure:"chart-format"`
	ChartKind   string `mapstructure:"chart-kind"`
	ChartWidth  int    `mapstructure:"chart-width"`
	ChartHeight int    `mapstructure:"chart-height"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Hidden = slices.Clone(c.Hidden)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processFilterInputs(cfg, input); err != nil {
		return err
	}
	if err := processChartOptions(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.DatasetFile = strings.TrimSpace(input.DatasetFile)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose
	cfg.Quiet = input.Quiet

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Dataset Validation ---
	cfg.Dataset = schema.NormalizeDatasetID(input.Dataset)
	if cfg.Dataset == "" {
		cfg.Dataset = schema.ScreeningDataset
	}

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Anomaly Threshold ---
	cfg.AnomalyThreshold = input.Threshold
	if cfg.AnomalyThreshold == 0 {
		cfg.AnomalyThreshold = schema.DefaultAnomalyThreshold
	}
	if cfg.AnomalyThreshold < 0 {
		return fmt.Errorf("threshold must be positive (received %g)", input.Threshold)
	}

	return nil
}

// processFilterInputs handles the initial filter parameters.
// Period labels are kept raw and resolved once the dataset is loaded.
func processFilterInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Start = strings.TrimSpace(input.Start)
	cfg.End = strings.TrimSpace(input.End)

	cfg.Mode = schema.DisplayMode(strings.ToLower(strings.TrimSpace(input.Mode)))
	if cfg.Mode == "" {
		cfg.Mode = schema.CountsMode
	}
	if _, ok := schema.ValidDisplayModes[cfg.Mode]; !ok {
		return fmt.Errorf("invalid mode '%s'. must be counts, percentages", input.Mode)
	}

	cfg.Hidden = nil
	for p := range strings.SplitSeq(input.Hide, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			cfg.Hidden = append(cfg.Hidden, trimmed)
		}
	}
	return nil
}

// processChartOptions handles the chart export parameters.
func processChartOptions(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputDir = strings.TrimSpace(input.OutputDir)
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	cfg.ChartFormat = schema.ChartFormat(strings.ToLower(input.ChartFormat))
	if cfg.ChartFormat == "" {
		cfg.ChartFormat = schema.PNGFormat
	}
	if _, ok := schema.ValidChartFormats[cfg.ChartFormat]; !ok {
		return fmt.Errorf("invalid chart format '%s'. must be png, svg", input.ChartFormat)
	}

	cfg.ChartKind = schema.ChartKind(strings.ToLower(input.ChartKind))
	if cfg.ChartKind == "" {
		cfg.ChartKind = schema.TrendChart
	}
	if _, ok := schema.ValidChartKinds[cfg.ChartKind]; !ok {
		return fmt.Errorf("invalid chart kind '%s'. must be trend, summary", input.ChartKind)
	}

	cfg.ChartWidth, cfg.ChartHeight = input.ChartWidth, input.ChartHeight
	if cfg.ChartWidth == 0 {
		cfg.ChartWidth = DefaultChartWidth
	}
	if cfg.ChartHeight == 0 {
		cfg.ChartHeight = DefaultChartHeight
	}
	for _, size := range []int{cfg.ChartWidth, cfg.ChartHeight} {
		if size < MinChartSize || size > MaxChartSize {
			return fmt.Errorf("chart dimensions must be between %d and %d pixels (received %dx%d)",
				MinChartSize, MaxChartSize, cfg.ChartWidth, cfg.ChartHeight)
		}
	}
	return nil
}

// validateBackendConfig validates the export history backend.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidHistoryBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}
