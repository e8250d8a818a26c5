// Package cmd defines the command-line interface for casewatch.
package cmd

import (
	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the export subcommands to the parent export command
	exportCmd.AddCommand(exportChartCmd)
	exportCmd.AddCommand(exportReportCmd)
	exportCmd.AddCommand(exportBundleCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("dataset", string(schema.ScreeningDataset), "Dataset: investigation or screening")
	rootCmd.PersistentFlags().String("dataset-file", "", "Optional YAML/TOML/JSON dataset replacing the built-in one with the same id")
	rootCmd.PersistentFlags().String("start", "", "First period of the window (label like 'Jan 22' or zero-based index)")
	rootCmd.PersistentFlags().String("end", "", "Last period of the window (label like 'Jun 22' or zero-based index)")
	rootCmd.PersistentFlags().String("mode", string(schema.CountsMode), "Display mode: counts or percentages")
	rootCmd.PersistentFlags().String("hide", "", "Comma-separated list of categories to hide")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Float64("threshold", schema.DefaultAnomalyThreshold, "Z-score above which a monthly value is an anomaly")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "Export history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log store changes and setup details to stderr")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log warnings and errors")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all persistent flags of exportCmd to Viper
	exportCmd.PersistentFlags().String("output-dir", ".", "Directory that receives exported files")
	exportCmd.PersistentFlags().String("chart-format", string(schema.PNGFormat), "Chart format: png or svg")
	exportCmd.PersistentFlags().String("chart-kind", string(schema.TrendChart), "Chart kind: trend (lines) or summary (bars)")
	exportCmd.PersistentFlags().Int("chart-width", contract.DefaultChartWidth, "Chart width in pixels")
	exportCmd.PersistentFlags().Int("chart-height", contract.DefaultChartHeight, "Chart height in pixels")
	if err := viper.BindPFlags(exportCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding export flags", err)
	}

	// Bind all flags of describeCmd to Viper
	describeCmd.Flags().Bool("summary", false, "Describe the summary (bar) chart instead of the trend (line) chart")
	if err := viper.BindPFlags(describeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding describe flags", err)
	}

	// Bind all flags of datasetsCmd to Viper
	datasetsCmd.Flags().String("template", "", "Write the selected dataset to this YAML/TOML/JSON file as a starting point")
	if err := viper.BindPFlags(datasetsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding datasets flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
