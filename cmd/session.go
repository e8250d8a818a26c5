package cmd

import (
	"os"

	"github.com/huangsam/casewatch/internal/app"
	"github.com/huangsam/casewatch/internal/console"
	"github.com/huangsam/casewatch/internal/contract"
	"github.com/spf13/cobra"
)

// sessionCmd starts an interactive filter session.
var sessionCmd = &cobra.Command{
	Use:   "session [dataset]",
	Short: "Explore a dataset interactively.",
	Long: `Start an interactive session on one dataset. Every filter change is
announced right away, the way the dashboard announced it to screen readers.

Moving the start past the end (or the end before the start) pulls the other
bound along. An explicit "range" with an inverted window is rejected and
leaves the filters unchanged.

Commands are read from standard input, so a session can also be scripted:
  printf 'range jan22 jun22\nsummary\n' | casewatch session investigation

Examples:
  # Start a session on the screening data
  casewatch session

  # Start from a filtered view
  casewatch session investigation --start "Jan 22" --hide "Investigation Timely"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := filteredStore()
		if err != nil {
			contract.LogFatal("Cannot apply filters", err)
		}
		if err := app.ExecuteSession(rootCtx, cfg, store, os.Stdin, os.Stdout, console.IsInteractive(os.Stdin)); err != nil {
			contract.LogFatal("Session failed", err)
		}
	},
}
