package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/casewatch/core"
	"github.com/huangsam/casewatch/internal/dataset"
	"github.com/huangsam/casewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screeningRun(t *testing.T, output string) schema.ExportRun {
	t.Helper()
	s, err := core.NewStore(dataset.Screening())
	require.NoError(t, err)
	_, err = s.SetCategoryVisibility(dataset.EvaluateOut, false)
	require.NoError(t, err)
	v, err := s.SetDateRange(0, 1)
	require.NoError(t, err)
	return schema.NewExportRun(v, output)
}

func TestHistoryStore_NoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	runID, err := store.RecordRun(screeningRun(t, "view.csv"))
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)

	totals, err := store.GetAllCategoryTotals()
	assert.NoError(t, err)
	assert.Nil(t, totals)

	assert.NoError(t, store.Close())
}

func TestHistoryStore_UnsupportedBackend(t *testing.T) {
	_, err := NewHistoryStore("oracle", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestHistoryStore_SQLite(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	store.(*HistoryStoreImpl).now = func() time.Time { return fixed }

	firstID, err := store.RecordRun(screeningRun(t, "view.csv"))
	require.NoError(t, err)
	assert.Greater(t, firstID, int64(0))

	secondID, err := store.RecordRun(screeningRun(t, "chart.png"))
	require.NoError(t, err)
	assert.Greater(t, secondID, firstID)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, secondID, status.LastRunID)
	assert.True(t, fixed.Equal(status.LastRunTime))
	assert.True(t, fixed.Equal(status.OldestRunTime))
	assert.Equal(t, int64(2), status.TableSizes[exportRunsTable])
	assert.Equal(t, int64(8), status.TableSizes[categoryTotalsTable])

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, firstID, runs[0].RunID)
	assert.Equal(t, "screening", runs[0].Dataset)
	assert.Equal(t, "Jul 21", runs[0].StartLabel)
	assert.Equal(t, "Aug 21", runs[0].EndLabel)
	assert.Equal(t, "counts", runs[0].DisplayMode)
	assert.Equal(t, "view.csv", runs[0].Output)
	assert.Equal(t, int64(2823), runs[0].GrandTotal)
	assert.Len(t, runs[0].RunUID, 36)
	assert.NotEqual(t, runs[0].RunUID, runs[1].RunUID)

	totals, err := store.GetAllCategoryTotals()
	require.NoError(t, err)
	require.Len(t, totals, 8)
	var sum int64
	hidden := 0
	for _, total := range totals[:4] {
		assert.Equal(t, firstID, total.RunID)
		sum += total.Total
		if !total.Visible {
			hidden++
			assert.Equal(t, string(dataset.EvaluateOut), total.Category)
		}
	}
	assert.Equal(t, int64(2823), sum)
	assert.Equal(t, 1, hidden)
}

func TestHistoryStore_SQLiteReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = store.RecordRun(screeningRun(t, "report.txt"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(schema.SQLiteBackend, 3))
	assert.Equal(t, "?, ?", placeholders(schema.MySQLBackend, 2))
	assert.Equal(t, "$1, $2, $3", placeholders(schema.PostgreSQLBackend, 3))
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`casewatch_export_runs`", quoteTableName(exportRunsTable, schema.MySQLBackend))
	assert.Equal(t, `"casewatch_export_runs"`, quoteTableName(exportRunsTable, schema.PostgreSQLBackend))
	assert.Equal(t, `"casewatch_export_runs"`, quoteTableName(exportRunsTable, schema.SQLiteBackend))
}
