package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/internal/history"
	"github.com/huangsam/casewatch/internal/outwriter"
	"github.com/huangsam/casewatch/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendConfig reads and validates the history backend settings.
func historyBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	// Get history-related config values
	backendStr := strings.ToLower(viper.GetString("history-backend"))
	connStr := viper.GetString("history-db-connect")

	// Handle empty backend as NoneBackend
	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidHistoryBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}

	// Initialize the history store with the loaded config
	if err := history.InitHistory(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	historyManager = history.Manager

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT open the store, so migrations can run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on export history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by view commands. This avoids loading datasets
// for simple database operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the export history (what was exported, and when)",
	Long: `Manage the history of exported views.

When --history-backend is set, every view, chart, report and bundle export
records the dataset, window, display mode, destination and per-category totals.
Filter state itself is never persisted.

Supported backends: SQLite, MySQL, PostgreSQL, or None (default)

Subcommands:
  status  - Show history statistics and connection info
  clear   - Remove all recorded exports
  export  - Export the history to Parquet
  migrate - Run database schema migrations

Examples:
  # Record exports in SQLite
  CASEWATCH_HISTORY_BACKEND=sqlite casewatch export bundle

  # Check what was recorded
  CASEWATCH_HISTORY_BACKEND=sqlite casewatch history status`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display export history statistics and connection details",
	Long: `Show detailed information about the export history.

Displays:
- Backend type and connection status
- Total number of recorded exports
- Last and oldest export timestamps
- Database table sizes

Examples:
  casewatch history status --history-backend sqlite
  casewatch history status --history-backend sqlite --output json`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := history.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", fmt.Errorf("history store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		if err := outwriter.NewOutWriter().WriteHistoryStatus(status, cfg); err != nil {
			contract.LogFatal("Failed to print history status", err)
		}
	},
}

// historyClearCmd clears the export history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded exports",
	Long: `Delete all recorded exports from the configured backend.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables

Examples:
  # Export before clearing
  casewatch history export --history-backend sqlite --output-file backup
  casewatch history clear --history-backend sqlite`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("Export history cleared successfully.")
	},
}

// historyExportCmd exports the history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the history to Parquet for BI tools and analytics",
	Long: `Export all recorded exports to Parquet format.

Writes two files next to --output-file:
- <output-file>.export_runs.parquet - one row per export
- <output-file>.category_totals.parquet - per-category totals of every export

Requires: --output-file parameter

Examples:
  casewatch history export --history-backend sqlite --output-file casewatch
  duckdb -c "SELECT * FROM read_parquet('casewatch.export_runs.parquet')"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ExecuteHistoryExport(os.Stdout, historyManager, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the export history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  casewatch history migrate --history-backend sqlite

  # Migrate to specific version
  casewatch history migrate --history-backend sqlite --target-version 1

  # Rollback to initial state
  casewatch history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.MigrateHistory(os.Stdout, cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
