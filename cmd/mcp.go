package cmd

import (
	"github.com/huangsam/casewatch/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the CaseWatch MCP server",
	Long: `Launch an MCP server that lets AI agents filter, describe and export the
datasets through standard tools. Filter changes persist across tool calls.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// Logs go to stderr so stdout stays reserved for the protocol.
		// The dataset is chosen per tool call, so positional args are ignored.
		return sharedSetup(rootCtx, cmd, nil)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, dashboard, historyManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
