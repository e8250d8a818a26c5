// Package app holds the command entrypoints shared by the CLI.
// Each Execute function works on a store that the caller already filtered.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/huangsam/casewatch/core"
	"github.com/huangsam/casewatch/core/insight"
	"github.com/huangsam/casewatch/internal/announce"
	"github.com/huangsam/casewatch/internal/assistant"
	"github.com/huangsam/casewatch/internal/chart"
	"github.com/huangsam/casewatch/internal/console"
	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/internal/dataset"
	"github.com/huangsam/casewatch/internal/export"
	"github.com/huangsam/casewatch/internal/outwriter"
	"github.com/huangsam/casewatch/schema"
)

// Export targets of ExecuteExport.
const (
	ChartTarget  = "chart"
	ReportTarget = "report"
	BundleTarget = "bundle"
)

// ApplyFilters applies the start, end, mode and hidden categories of cfg to store.
// A missing bound keeps the current one. Every filter is resolved before the first
// change, so a rejected filter set leaves the store untouched.
func ApplyFilters(store *core.Store, cfg *contract.Config) error {
	ds := store.Dataset()
	p := store.Params()
	start, end := p.StartIndex, p.EndIndex
	if cfg.Start != "" {
		idx, err := dataset.ResolvePeriod(ds, cfg.Start)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		start = idx
	}
	if cfg.End != "" {
		idx, err := dataset.ResolvePeriod(ds, cfg.End)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		end = idx
	}
	if end < start {
		return &core.InvalidRangeError{Start: start, End: end, Len: ds.Len()}
	}
	if cfg.Mode != "" {
		if _, ok := schema.ValidDisplayModes[cfg.Mode]; !ok {
			return fmt.Errorf("%w: %q", core.ErrInvalidDisplayMode, cfg.Mode)
		}
	}
	hidden := make([]schema.CategoryID, 0, len(cfg.Hidden))
	for _, name := range cfg.Hidden {
		id, ok := dataset.ResolveCategory(ds, name)
		if !ok {
			return fmt.Errorf("invalid --hide: %w", &core.UnknownCategoryError{Category: id})
		}
		hidden = append(hidden, id)
	}

	if _, err := store.SetDateRange(start, end); err != nil {
		return err
	}
	if cfg.Mode != "" {
		if _, err := store.SetDisplayMode(cfg.Mode); err != nil {
			return err
		}
	}
	for _, id := range hidden {
		if _, err := store.SetCategoryVisibility(id, false); err != nil {
			return fmt.Errorf("invalid --hide: %w", err)
		}
	}
	return nil
}

// ExecuteDatasets prints the datasets of every store.
func ExecuteDatasets(cfg *contract.Config, stores []*core.Store) error {
	datasets := make([]*schema.Dataset, 0, len(stores))
	for _, s := range stores {
		datasets = append(datasets, s.Dataset())
	}
	return outwriter.NewOutWriter().WriteDatasets(datasets, cfg)
}

// ExecuteTemplate writes the dataset of store in the file format of path, ready to edit and load back.
func ExecuteTemplate(w io.Writer, store *core.Store, path string) error {
	format, err := dataset.FormatFromPath(path)
	if err != nil {
		return err
	}
	return dataset.Encode(w, store.Dataset(), format)
}

// ExecuteView prints the view of store and records it in the export history when one is set.
func ExecuteView(_ context.Context, cfg *contract.Config, store *core.Store, mgr contract.HistoryManager) error {
	v := store.View()
	if err := outwriter.NewOutWriter().WriteView(v, cfg); err != nil {
		return err
	}
	return recordRun(v, viewDestination(cfg), mgr)
}

// ExecuteDescribe writes the accessibility description of the trend or the summary chart.
func ExecuteDescribe(w io.Writer, store *core.Store, kind schema.ChartKind) error {
	v := store.View()
	text := announce.DescribeTrend(v)
	if kind == schema.SummaryChart {
		text = announce.DescribeSummary(v)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

// ExecuteInsights prints the insight report of store.
func ExecuteInsights(cfg *contract.Config, store *core.Store) error {
	v := store.View()
	return outwriter.NewOutWriter().WriteInsights(v, insight.Analyze(v, cfg.AnomalyThreshold), cfg)
}

// ExecuteSummary writes the executive summary of store.
func ExecuteSummary(w io.Writer, cfg *contract.Config, store *core.Store) error {
	v := store.View()
	_, err := fmt.Fprintln(w, insight.ExecutiveSummary(v, insight.DetectAnomalies(v, cfg.AnomalyThreshold)))
	return err
}

// ExecuteAsk writes the assistant answer to question.
func ExecuteAsk(w io.Writer, cfg *contract.Config, store *core.Store, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return errors.New("a question is required")
	}
	_, err := fmt.Fprintln(w, assistant.New(cfg.AnomalyThreshold).Answer(store.View(), question))
	return err
}

// ExecuteExport writes a chart, a report or the full bundle of store into cfg.OutputDir.
// Written paths are listed on w.
func ExecuteExport(ctx context.Context, w io.Writer, cfg *contract.Config, store *core.Store, mgr contract.HistoryManager, target string, logger *slog.Logger) error {
	v := store.View()
	opts := ChartOptions(cfg)

	var files []string
	switch target {
	case ChartTarget:
		path, err := export.WriteChartFile(v, cfg.OutputDir, opts)
		if err != nil {
			return fmt.Errorf("chart export failed: %w", err)
		}
		files = append(files, path)
		if err := recordRun(v, path, mgr); err != nil {
			return err
		}
	case ReportTarget:
		path, err := export.WriteReportFile(v, cfg.OutputDir, cfg.AnomalyThreshold, time.Now())
		if err != nil {
			return fmt.Errorf("report export failed: %w", err)
		}
		files = append(files, path)
		if err := recordRun(v, path, mgr); err != nil {
			return err
		}
	case BundleTarget:
		bundleOpts := export.Options{
			Dir:       cfg.OutputDir,
			Chart:     opts,
			Threshold: cfg.AnomalyThreshold,
			Logger:    logger,
		}
		if mgr != nil {
			bundleOpts.History = mgr.GetHistoryStore()
		}
		result, err := export.WriteBundle(ctx, v, bundleOpts)
		if err != nil {
			return err
		}
		files = result.Files
	default:
		return fmt.Errorf("unknown export target %q. must be chart, report, bundle", target)
	}

	for _, f := range files {
		if _, err := fmt.Fprintf(w, "💾 Wrote %s\n", f); err != nil {
			return err
		}
	}
	return nil
}

// ExecuteSession runs an interactive console on store until quit or EOF.
func ExecuteSession(ctx context.Context, cfg *contract.Config, store *core.Store, in io.Reader, out io.Writer, interactive bool) error {
	session := console.New(store, out, cfg, interactive)
	defer session.Close()
	return session.Run(ctx, in)
}

// ChartOptions returns the chart settings of cfg.
func ChartOptions(cfg *contract.Config) chart.Options {
	return chart.Options{
		Kind:   cfg.ChartKind,
		Format: cfg.ChartFormat,
		Width:  cfg.ChartWidth,
		Height: cfg.ChartHeight,
	}
}

func viewDestination(cfg *contract.Config) string {
	if cfg.OutputFile == "" {
		return "stdout"
	}
	return cfg.OutputFile
}

// recordRun stores an export history entry for v. Without a history store it does nothing.
func recordRun(v *schema.DerivedView, output string, mgr contract.HistoryManager) error {
	if mgr == nil {
		return nil
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return nil
	}
	if _, err := store.RecordRun(schema.NewExportRun(v, output)); err != nil {
		return fmt.Errorf("failed to record export history: %w", err)
	}
	return nil
}
