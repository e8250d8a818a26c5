package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/huangsam/casewatch/core"
	"github.com/huangsam/casewatch/internal/app"
	"github.com/huangsam/casewatch/internal/board"
	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/internal/dataset"
	"github.com/huangsam/casewatch/internal/history"
	"github.com/huangsam/casewatch/internal/log"
	"github.com/huangsam/casewatch/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// historyManager is the global export history manager instance.
var historyManager contract.HistoryManager

// dashboard holds one store per dataset once sharedSetup ran.
var dashboard *board.Board

// logger is the structured logger configured by sharedSetup.
var logger = slog.Default()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "casewatch",
	Short:              "Explore monthly child welfare case volumes from the terminal.",
	Long:               `CaseWatch filters the investigation and screening datasets by date window, display mode and category, then renders, describes, charts or exports the result.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".casewatch") // Name of config file (without extension)
		viper.SetConfigType("yaml")       // We'll use YAML format
		viper.AddConfigPath(".")          // Look in the current directory
		viper.AddConfigPath("$HOME")      // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("CASEWATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("dataset", schema.ScreeningDataset)
	viper.SetDefault("mode", schema.CountsMode)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("output-dir", ".")
	viper.SetDefault("threshold", schema.DefaultAnomalyThreshold)
	viper.SetDefault("history-backend", schema.NoneBackend)
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("chart-format", schema.PNGFormat)
	viper.SetDefault("chart-kind", schema.TrendChart)
	viper.SetDefault("chart-width", contract.DefaultChartWidth)
	viper.SetDefault("chart-height", contract.DefaultChartHeight)
	viper.SetDefault("color", "yes")
	viper.SetDefault("emoji", "no")
}

// sharedSetup unmarshals config, runs validation and builds the stores.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.Dataset = args[0]
	}

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	logger = log.Setup(cfg.Verbose, cfg.Quiet)

	// 5. Build the catalog and one store per dataset.
	catalog := dataset.Builtin()
	if cfg.DatasetFile != "" {
		ds, err := dataset.LoadFile(cfg.DatasetFile)
		if err != nil {
			return fmt.Errorf("failed to load dataset file: %w", err)
		}
		catalog.Put(ds)
		logger.Debug("loaded dataset file", "path", cfg.DatasetFile, "dataset", ds.ID)
	}
	b, err := board.New(catalog, logger)
	if err != nil {
		return err
	}
	dashboard = b

	// 6. Initialize export history with validated config
	if err := history.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	historyManager = history.Manager

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// filteredStore returns the store of the configured dataset with the CLI filters applied.
func filteredStore() (*core.Store, error) {
	store, err := dashboard.Store(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	if err := app.ApplyFilters(store, cfg); err != nil {
		return nil, err
	}
	return store, nil
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".casewatch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetHistoryManager sets the global history manager.
func SetHistoryManager(mgr contract.HistoryManager) {
	historyManager = mgr
}
