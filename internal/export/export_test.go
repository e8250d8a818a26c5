package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/casewatch/core"
	"github.com/huangsam/casewatch/core/insight"
	"github.com/huangsam/casewatch/internal/chart"
	"github.com/huangsam/casewatch/internal/dataset"
	"github.com/huangsam/casewatch/internal/history"
	"github.com/huangsam/casewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newStore(t *testing.T, ds *schema.Dataset) *core.Store {
	t.Helper()
	s, err := core.NewStore(ds)
	require.NoError(t, err)
	return s
}

func TestWriteReport(t *testing.T) {
	v := newStore(t, dataset.Investigation()).View()
	report := insight.Analyze(v, schema.DefaultAnomalyThreshold)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, v, report, fixedNow))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "Time to Investigation Report\nGenerated: 2026-01-02 03:04\nDisplay mode: counts\n\n"))
	assert.Contains(t, output, "Executive Summary: Time to Investigation")
	assert.Contains(t, output, "\nInsights:\n- [")
	assert.Contains(t, output, "Investigation Timely in Dec 22 shows an unusual spike (1,737 vs expected ~269).")
	assert.Contains(t, output, "\nTrends:\n")
	assert.Contains(t, output, "- Pending Investigation: ")
}

func TestWriteReportQuietWindow(t *testing.T) {
	s := newStore(t, dataset.Investigation())
	v, err := s.SetDateRange(0, 5)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, v, insight.Analyze(v, schema.DefaultAnomalyThreshold), fixedNow))
	assert.Contains(t, buf.String(), "- No significant anomalies were detected.")
}

func TestFileNames(t *testing.T) {
	v := newStore(t, dataset.Screening()).View()
	assert.Equal(t, "screening_report_jul21-dec22.txt", ReportFileName(v))
	assert.Equal(t, "screening_view_jul21-dec22.parquet", ViewFileName(v))
}

func TestWriteBundle(t *testing.T) {
	v := newStore(t, dataset.Screening()).View()
	dir := filepath.Join(t.TempDir(), "bundle")

	store := &history.MockHistoryStore{}
	store.On("RecordRun", mock.MatchedBy(func(run schema.ExportRun) bool {
		return run.Dataset == schema.ScreeningDataset && run.Output == dir && run.GrandTotal == 31150
	})).Return(int64(7), nil)

	result, err := WriteBundle(context.Background(), v, Options{
		Dir:       dir,
		Chart:     chart.Options{Kind: schema.TrendChart, Format: schema.SVGFormat, Width: 640, Height: 320},
		Threshold: schema.DefaultAnomalyThreshold,
		History:   store,
		Now:       func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.RunID)
	assert.Equal(t, []string{
		filepath.Join(dir, "screening_trend_jul21-dec22.svg"),
		filepath.Join(dir, "screening_report_jul21-dec22.txt"),
		filepath.Join(dir, "screening_view_jul21-dec22.parquet"),
	}, result.Files)
	for _, f := range result.Files {
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	store.AssertExpectations(t)
}

func TestWriteBundleSkipsChartWhenNothingVisible(t *testing.T) {
	s := newStore(t, dataset.Investigation())
	var v *schema.DerivedView
	for _, id := range dataset.Investigation().CategoryIDs() {
		var err error
		v, err = s.SetCategoryVisibility(id, false)
		require.NoError(t, err)
	}

	dir := t.TempDir()
	result, err := WriteBundle(context.Background(), v, Options{Dir: dir, Chart: chart.Options{Format: schema.PNGFormat}})
	require.NoError(t, err)
	assert.Len(t, result.Files, 2)
	_, err = os.Stat(filepath.Join(dir, chart.FileName(v, chart.Options{Format: schema.PNGFormat})))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteBundleHistoryFailure(t *testing.T) {
	v := newStore(t, dataset.Screening()).View()
	store := &history.MockHistoryStore{}
	store.On("RecordRun", mock.Anything).Return(int64(0), errors.New("database is locked"))

	result, err := WriteBundle(context.Background(), v, Options{Dir: t.TempDir(), History: store})
	assert.ErrorContains(t, err, "database is locked")
	assert.Len(t, result.Files, 3)
}

func TestWriteBundleCancelled(t *testing.T) {
	v := newStore(t, dataset.Screening()).View()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WriteBundle(ctx, v, Options{Dir: t.TempDir()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteBundleRemovesWrittenFilesOnFailure(t *testing.T) {
	v := newStore(t, dataset.Screening()).View()
	dir := t.TempDir()
	// A directory in place of the report makes that writer fail.
	blocker := filepath.Join(dir, ReportFileName(v))
	require.NoError(t, os.Mkdir(blocker, 0o755))

	result, err := WriteBundle(context.Background(), v, Options{
		Dir:   dir,
		Chart: chart.Options{Kind: schema.TrendChart, Format: schema.SVGFormat, Width: 640, Height: 320},
	})
	assert.ErrorContains(t, err, "bundle export failed")
	assert.Empty(t, result.Files)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ReportFileName(v), entries[0].Name())
	assert.True(t, entries[0].IsDir())
}

func TestWriteBundleSinglePeriod(t *testing.T) {
	s := newStore(t, dataset.Screening())
	v, err := s.SetDateRange(4, 4)
	require.NoError(t, err)

	dir := t.TempDir()
	result, err := WriteBundle(context.Background(), v, Options{
		Dir:   dir,
		Chart: chart.Options{Kind: schema.TrendChart, Format: schema.PNGFormat, Width: 640, Height: 320},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "screening_trend_nov21-nov21.png"),
		filepath.Join(dir, "screening_report_nov21-nov21.txt"),
		filepath.Join(dir, "screening_view_nov21-nov21.parquet"),
	}, result.Files)
}
