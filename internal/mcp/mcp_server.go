// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/casewatch/internal/board"
	"github.com/huangsam/casewatch/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the CaseWatch MCP server without starting it.
// Every tool works on the live stores of b, so filter changes persist across calls.
func NewMCPServer(baseCfg *contract.Config, b *board.Board, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"CaseWatch Dashboard Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		board:   b,
		mgr:     mgr,
	}

	datasetArg := mcp.WithString("dataset", mcp.Description("Dataset id (investigation or screening). Defaults to the configured dataset."))

	// --- 1. Tool: list_datasets ---
	s.AddTool(mcp.NewTool("list_datasets",
		mcp.WithDescription("List the datasets with their periods and categories."),
	), h.handleListDatasets)

	// --- 2. Tool: get_view ---
	s.AddTool(mcp.NewTool("get_view",
		mcp.WithDescription("Return the current derived view of a dataset: window, per-period breakdown, totals and shares."),
		datasetArg,
	), h.handleGetView)

	// --- 3. Tool: set_date_range ---
	s.AddTool(mcp.NewTool("set_date_range",
		mcp.WithDescription("Select the inclusive period window. Periods are labels like 'Jan 22' or zero-based indices."),
		datasetArg,
		mcp.WithString("start", mcp.Description("First period of the window."), mcp.Required()),
		mcp.WithString("end", mcp.Description("Last period of the window."), mcp.Required()),
	), h.handleSetDateRange)

	// --- 4. Tool: set_display_mode ---
	s.AddTool(mcp.NewTool("set_display_mode",
		mcp.WithDescription("Switch between counts and percentages. Only a presentation hint; the numbers never change."),
		datasetArg,
		mcp.WithString("mode", mcp.Description("Display mode."), mcp.Required(), mcp.Enum("counts", "percentages")),
	), h.handleSetDisplayMode)

	// --- 5. Tool: set_category_visibility ---
	s.AddTool(mcp.NewTool("set_category_visibility",
		mcp.WithDescription("Show or hide one category. Hidden categories still count towards totals."),
		datasetArg,
		mcp.WithString("category", mcp.Description("Category id or display name."), mcp.Required()),
		mcp.WithBoolean("visible", mcp.Description("Whether the category is shown."), mcp.Required()),
	), h.handleSetCategoryVisibility)

	// --- 6. Tool: reset_filters ---
	s.AddTool(mcp.NewTool("reset_filters",
		mcp.WithDescription("Select every period, show every category and switch back to counts."),
		datasetArg,
	), h.handleResetFilters)

	// --- 7. Tool: describe_view ---
	s.AddTool(mcp.NewTool("describe_view",
		mcp.WithDescription("Describe the current chart in plain language for screen readers."),
		datasetArg,
		mcp.WithString("kind", mcp.Description("Chart to describe. Defaults to 'trend'."), mcp.Enum("trend", "summary")),
	), h.handleDescribeView)

	// --- 8. Tool: ask_assistant ---
	s.AddTool(mcp.NewTool("ask_assistant",
		mcp.WithDescription("Ask a question about the current view, e.g. 'highest screen in' or 'june 2022'."),
		datasetArg,
		mcp.WithString("question", mcp.Description("The question."), mcp.Required()),
	), h.handleAskAssistant)

	// --- 9. Tool: get_insights ---
	s.AddTool(mcp.NewTool("get_insights",
		mcp.WithDescription("Generate insights, anomalies, extremes, growth and an executive summary for the current view."),
		datasetArg,
		mcp.WithNumber("threshold", mcp.Description("Z-score above which a value is an anomaly. Defaults to the configured threshold.")),
	), h.handleGetInsights)

	// --- 10. Tool: export_bundle ---
	s.AddTool(mcp.NewTool("export_bundle",
		mcp.WithDescription("Write the chart, the text report and the parquet view of the current view into a directory."),
		datasetArg,
		mcp.WithString("dir", mcp.Description("Destination directory."), mcp.Required()),
	), h.handleExportBundle)

	return s
}

// StartMCPServer starts the CaseWatch MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, b *board.Board, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, b, mgr)
	return server.ServeStdio(s)
}
