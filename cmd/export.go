package cmd

import (
	"os"

	"github.com/huangsam/casewatch/internal/app"
	"github.com/huangsam/casewatch/internal/contract"
	"github.com/spf13/cobra"
)

// runExport applies the filters and writes the given export target.
func runExport(target string) {
	store, err := filteredStore()
	if err != nil {
		contract.LogFatal("Cannot apply filters", err)
	}
	if err := app.ExecuteExport(rootCtx, os.Stdout, cfg, store, historyManager, target, logger); err != nil {
		contract.LogFatal("Cannot export "+target, err)
	}
}

// exportCmd groups the file exports of a filtered view.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export charts, reports and bundles of the filtered view",
	Long: `Write the filtered view to files in --output-dir.

Subcommands:
  chart  - PNG or SVG chart of the visible categories
  report - Text report with summary, insights, anomalies and trends
  bundle - Chart, report and parquet view written together

When an export history backend is configured, every export is recorded with
its window, display mode and per-category totals.

Examples:
  # Summary bars as SVG
  casewatch export chart --chart-kind summary --chart-format svg

  # Full bundle of the 2022 investigation data
  casewatch export bundle investigation --start "Jan 22" --output-dir out/`,
}

// exportChartCmd writes a chart file.
var exportChartCmd = &cobra.Command{
	Use:   "chart [dataset]",
	Short: "Write a PNG or SVG chart of the filtered view",
	Long: `Render the trend (one line per visible category) or the summary (one bar per
visible category) chart of the filtered view.

The file is named after the dataset, the chart kind and the window, for example
screening_trend_jul21-dec22.png. Nothing is written when every category is hidden.

Examples:
  casewatch export chart
  casewatch export chart investigation --chart-kind summary --mode percentages`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExport(app.ChartTarget)
	},
}

// exportReportCmd writes the text report.
var exportReportCmd = &cobra.Command{
	Use:   "report [dataset]",
	Short: "Write the text report of the filtered view",
	Long: `Write the full text report: executive summary, key insights, detected
anomalies and per-category trends.

Examples:
  casewatch export report screening --threshold 1.5`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExport(app.ReportTarget)
	},
}

// exportBundleCmd writes the chart, report and parquet view.
var exportBundleCmd = &cobra.Command{
	Use:   "bundle [dataset]",
	Short: "Write the chart, report and parquet view together",
	Long: `Write the chart, the text report and the parquet view of the filtered view
concurrently. If any of them fails, the bundle fails.

Examples:
  casewatch export bundle --output-dir exports/
  CASEWATCH_HISTORY_BACKEND=sqlite casewatch export bundle investigation`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runExport(app.BundleTarget)
	},
}
