package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/casewatch/internal/app"
	"github.com/huangsam/casewatch/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// datasetsCmd lists the datasets known to the catalog.
var datasetsCmd = &cobra.Command{
	Use:   "datasets [dataset]",
	Short: "List the datasets with their months and categories.",
	Long: `List every dataset of the catalog: the built-in investigation and screening
datasets, plus the one loaded with --dataset-file.

With --template, the selected dataset is written to a YAML, TOML or JSON file
instead. Edit the counts and load it back with --dataset-file to replace the
built-in data.

Examples:
  # List datasets
  casewatch datasets

  # Write the investigation dataset as a template
  casewatch datasets investigation --template investigation.yaml

  # Use the edited file
  casewatch view --dataset-file investigation.yaml investigation`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		template := viper.GetString("template")
		if template == "" {
			if err := app.ExecuteDatasets(cfg, dashboard.Stores()); err != nil {
				contract.LogFatal("Cannot list datasets", err)
			}
			return
		}

		store, err := dashboard.Store(cfg.Dataset)
		if err != nil {
			contract.LogFatal("Cannot find dataset", err)
		}
		file, err := os.Create(template)
		if err != nil {
			contract.LogFatal("Cannot create template", err)
		}
		defer func() { _ = file.Close() }()
		if err := app.ExecuteTemplate(file, store, template); err != nil {
			contract.LogFatal("Cannot write template", err)
		}
		fmt.Printf("💾 Wrote %s template to %s\n", store.ID(), template)
	},
}
