package cmd

import (
	"os"
	"strings"

	"github.com/huangsam/casewatch/internal/app"
	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// viewCmd renders the filtered view of a dataset.
var viewCmd = &cobra.Command{
	Use:   "view [dataset]",
	Short: "Show the filtered per-month breakdown and category totals.",
	Long: `Render the derived view of a dataset after applying the date window,
display mode and category visibility filters.

The view contains:
- One row per month in the window with the count of every visible category
- Totals and shares per category over the window
- The grand total, which always includes hidden categories

Display mode and hidden categories only change what is shown. Totals and
percentages are always computed over every category.

Examples:
  # Show the whole screening dataset
  casewatch view

  # First half of 2022 for investigations, as percentages
  casewatch view investigation --start "Jan 22" --end "Jun 22" --mode percentages

  # Hide a category but keep it in the totals
  casewatch view screening --hide "Evaluate Out"

  # Export the view for analysis in pandas/DuckDB
  casewatch view --output parquet --output-file view.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := filteredStore()
		if err != nil {
			contract.LogFatal("Cannot apply filters", err)
		}
		if err := app.ExecuteView(rootCtx, cfg, store, historyManager); err != nil {
			contract.LogFatal("Cannot render view", err)
		}
	},
}

// describeCmd prints the screen reader description of a chart.
var describeCmd = &cobra.Command{
	Use:   "describe [dataset]",
	Short: "Describe the current chart in plain language.",
	Long: `Print the accessible description of the trend (line) chart or the summary
(bar) chart of the filtered view, as a screen reader would announce it.

Examples:
  # Describe the screening trend
  casewatch describe

  # Describe the investigation summary bars for 2022
  casewatch describe investigation --summary --start "Jan 22"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := filteredStore()
		if err != nil {
			contract.LogFatal("Cannot apply filters", err)
		}
		kind := schema.TrendChart
		if viper.GetBool("summary") {
			kind = schema.SummaryChart
		}
		if err := app.ExecuteDescribe(os.Stdout, store, kind); err != nil {
			contract.LogFatal("Cannot describe view", err)
		}
	},
}

// insightsCmd prints the generated insights of a view.
var insightsCmd = &cobra.Command{
	Use:   "insights [dataset]",
	Short: "Generate insights, anomalies and trends for the filtered view.",
	Long: `Analyze the filtered view and report what stands out.

Reports:
- Key insights such as the dominant category and overall growth
- Monthly values whose z-score exceeds --threshold
- Highest and lowest month of every category
- First-to-last month growth of every category

Examples:
  # Insights for the whole screening dataset
  casewatch insights

  # Stricter anomaly detection on investigations
  casewatch insights investigation --threshold 2.5

  # Anomalies as CSV
  casewatch insights --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := filteredStore()
		if err != nil {
			contract.LogFatal("Cannot apply filters", err)
		}
		if err := app.ExecuteInsights(cfg, store); err != nil {
			contract.LogFatal("Cannot generate insights", err)
		}
	},
}

// summaryCmd prints the executive summary of a view.
var summaryCmd = &cobra.Command{
	Use:   "summary [dataset]",
	Short: "Print the executive summary of the filtered view.",
	Long: `Print a short executive summary of the filtered view: total volume, the
leading category and its share, and how many anomalies were detected.

Examples:
  casewatch summary investigation --start "Jul 22"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := filteredStore()
		if err != nil {
			contract.LogFatal("Cannot apply filters", err)
		}
		if err := app.ExecuteSummary(os.Stdout, cfg, store); err != nil {
			contract.LogFatal("Cannot summarize view", err)
		}
	},
}

// askCmd answers a question about the filtered view.
var askCmd = &cobra.Command{
	Use:   "ask [dataset] <question...>",
	Short: "Ask the assistant a question about the filtered view.",
	Long: `Answer a question about the filtered view using keyword matching.

Understands questions about:
- Highest or lowest months of a category
- Anomalies and trends
- A specific month, e.g. "june 2022" or "jun 22"
- Percentages and category comparisons

Examples:
  casewatch ask what was the highest screen in month
  casewatch ask investigation any anomalies
  casewatch ask screening how did june 2022 look`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The dataset is optional, so only a leading known id counts as one.
		return sharedSetup(rootCtx, cmd, datasetArg(args))
	},
	Run: func(_ *cobra.Command, args []string) {
		store, err := filteredStore()
		if err != nil {
			contract.LogFatal("Cannot apply filters", err)
		}
		if len(datasetArg(args)) == 1 {
			args = args[1:]
		}
		if err := app.ExecuteAsk(os.Stdout, cfg, store, strings.Join(args, " ")); err != nil {
			contract.LogFatal("Cannot answer question", err)
		}
	},
}

// datasetArg returns the leading dataset id of args, if there is one followed by more words.
func datasetArg(args []string) []string {
	if len(args) < 2 {
		return nil
	}
	switch schema.NormalizeDatasetID(args[0]) {
	case schema.InvestigationDataset, schema.ScreeningDataset:
		return args[:1]
	}
	return nil
}
