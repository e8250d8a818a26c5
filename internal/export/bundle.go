package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/casewatch/core/insight"
	"github.com/huangsam/casewatch/internal/chart"
	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/internal/parquet"
	"github.com/huangsam/casewatch/schema"
	"golang.org/x/sync/errgroup"
)

// Options controls a bundle export.
type Options struct {
	Dir       string
	Chart     chart.Options
	Threshold float64
	// History records the bundle when set.
	History contract.HistoryStore
	Logger  *slog.Logger
	Now     func() time.Time
}

// Result lists what a bundle export produced.
type Result struct {
	Files []string `json:"files"`
	RunID int64    `json:"run_id"`
}

// WriteChartFile renders the chart of v into dir and returns its path.
func WriteChartFile(v *schema.DerivedView, dir string, opts chart.Options) (string, error) {
	path := filepath.Join(dir, chart.FileName(v, opts))
	err := createFile(path, func(w io.Writer) error {
		return chart.Render(w, v, opts)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// WriteReportFile writes the text report of v into dir and returns its path.
func WriteReportFile(v *schema.DerivedView, dir string, threshold float64, now time.Time) (string, error) {
	path := filepath.Join(dir, ReportFileName(v))
	report := insight.Analyze(v, threshold)
	err := createFile(path, func(w io.Writer) error {
		return WriteReport(w, v, report, now)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// WriteBundle writes the chart, the text report and the parquet view of v concurrently.
// The chart is skipped when no category is visible. A failed writer cancels the others.
func WriteBundle(ctx context.Context, v *schema.DerivedView, opts Options) (Result, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create bundle directory: %w", err)
	}

	// Each writer owns one slot so the file order is stable.
	files := make([]string, 3)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, err := WriteChartFile(v, opts.Dir, opts.Chart)
		if errors.Is(err, chart.ErrNothingToDraw) {
			logger.Warn("skipping chart", "dataset", v.Dataset, "reason", err)
			return nil
		}
		files[0] = path
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, err := WriteReportFile(v, opts.Dir, opts.Threshold, now())
		files[1] = path
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(opts.Dir, ViewFileName(v))
		if err := parquet.WriteViewParquet(parquet.ConvertView(v), path); err != nil {
			return err
		}
		files[2] = path
		return nil
	})

	if err := g.Wait(); err != nil {
		removeFiles(files, logger)
		return Result{}, fmt.Errorf("bundle export failed: %w", err)
	}

	result := Result{}
	for _, f := range files {
		if f != "" {
			result.Files = append(result.Files, f)
		}
	}
	logger.Debug("bundle written", "dataset", v.Dataset, "files", len(result.Files))

	if opts.History != nil {
		runID, err := opts.History.RecordRun(schema.NewExportRun(v, opts.Dir))
		if err != nil {
			return result, fmt.Errorf("failed to record bundle: %w", err)
		}
		result.RunID = runID
	}
	return result, nil
}

// removeFiles deletes the files a failed bundle already wrote.
func removeFiles(files []string, logger *slog.Logger) {
	for _, f := range files {
		if f == "" {
			continue
		}
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed to remove partial bundle file", "path", f, "error", err)
		}
	}
}

// createFile creates path and hands it to write, removing the file again on failure.
func createFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return err
	}
	return file.Close()
}
