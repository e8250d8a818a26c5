package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/casewatch/core"
	"github.com/huangsam/casewatch/core/insight"
	"github.com/huangsam/casewatch/internal/announce"
	"github.com/huangsam/casewatch/internal/assistant"
	"github.com/huangsam/casewatch/internal/board"
	"github.com/huangsam/casewatch/internal/chart"
	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/internal/dataset"
	"github.com/huangsam/casewatch/internal/export"
	"github.com/huangsam/casewatch/internal/outwriter"
	"github.com/huangsam/casewatch/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	board   *board.Board
	mgr     contract.HistoryManager
}

// store resolves the dataset argument, falling back to the configured dataset.
func (h *toolHandler) store(request mcp.CallToolRequest) (*core.Store, error) {
	id := schema.NormalizeDatasetID(request.GetString("dataset", ""))
	if id == "" {
		id = h.baseCfg.Dataset
	}
	return h.board.Store(id)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListDatasets(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	datasets := make([]*schema.Dataset, 0)
	for _, s := range h.board.Stores() {
		datasets = append(datasets, s.Dataset())
	}
	var buf bytes.Buffer
	if err := outwriter.WriteDatasetResults(&buf, datasets, &contract.Config{Output: schema.JSONOut}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (h *toolHandler) handleGetView(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := h.store(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.View())
}

func (h *toolHandler) handleSetDateRange(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := h.store(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := dataset.ResolvePeriod(s.Dataset(), request.GetString("start", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid start: %v", err)), nil
	}
	end, err := dataset.ResolvePeriod(s.Dataset(), request.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid end: %v", err)), nil
	}
	v, err := s.SetDateRange(start, end)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(v)
}

func (h *toolHandler) handleSetDisplayMode(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := h.store(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.SetDisplayMode(schema.DisplayMode(request.GetString("mode", "")))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(v)
}

func (h *toolHandler) handleSetCategoryVisibility(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := h.store(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, _ := dataset.ResolveCategory(s.Dataset(), request.GetString("category", ""))
	v, err := s.SetCategoryVisibility(id, request.GetBool("visible", true))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(v)
}

func (h *toolHandler) handleResetFilters(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := h.store(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for _, id := range s.Dataset().CategoryIDs() {
		if _, err := s.SetCategoryVisibility(id, true); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if _, err := s.SetDisplayMode(schema.CountsMode); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.ResetDateRange())
}

func (h *toolHandler) handleDescribeView(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := h.store(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if request.GetString("kind", "trend") == string(schema.SummaryChart) {
		return mcp.NewToolResultText(announce.DescribeSummary(s.View())), nil
	}
	return mcp.NewToolResultText(announce.DescribeTrend(s.View())), nil
}

func (h *toolHandler) handleAskAssistant(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := h.store(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	question, err := request.RequireString("question")
	if err != nil || question == "" {
		return mcp.NewToolResultError("question is required"), nil
	}
	return mcp.NewToolResultText(assistant.New(h.baseCfg.AnomalyThreshold).Answer(s.View(), question)), nil
}

func (h *toolHandler) handleGetInsights(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := h.store(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	threshold := request.GetFloat("threshold", h.baseCfg.AnomalyThreshold)
	if threshold <= 0 {
		return mcp.NewToolResultError("threshold must be positive"), nil
	}
	return jsonResult(insight.Analyze(s.View(), threshold))
}

func (h *toolHandler) handleExportBundle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := h.store(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dir, err := request.RequireString("dir")
	if err != nil || dir == "" {
		return mcp.NewToolResultError("dir is required"), nil
	}

	opts := export.Options{
		Dir: dir,
		Chart: chart.Options{
			Kind:   h.baseCfg.ChartKind,
			Format: h.baseCfg.ChartFormat,
			Width:  h.baseCfg.ChartWidth,
			Height: h.baseCfg.ChartHeight,
		},
		Threshold: h.baseCfg.AnomalyThreshold,
	}
	if h.mgr != nil {
		opts.History = h.mgr.GetHistoryStore()
	}
	result, err := export.WriteBundle(ctx, s.View(), opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	return jsonResult(result)
}
