package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/casewatch/core"
	"github.com/huangsam/casewatch/core/insight"
	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/internal/dataset"
	"github.com/huangsam/casewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func investigationView(t *testing.T) *schema.DerivedView {
	t.Helper()
	s, err := core.NewStore(dataset.Investigation())
	require.NoError(t, err)
	return s.View()
}

func TestWriteInsightResultsText(t *testing.T) {
	v := investigationView(t)
	report := insight.Analyze(v, schema.DefaultAnomalyThreshold)

	var buf bytes.Buffer
	require.NoError(t, WriteInsightResults(&buf, v, report, textConfig()))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "Insights for Time to Investigation (Jan 21 - Dec 22)\n"))
	assert.Contains(t, output, "[positive] Small share: Only 4.5% of the total is Pending Investigation.")
	assert.Contains(t, output, "[warning] Anomalies:")
	assert.Contains(t, output, "1,737 (Dec 22)")
	assert.Contains(t, output, "Investigation Timely")
	assert.Contains(t, output, "spike")
}

func TestWriteInsightResultsQuietRange(t *testing.T) {
	s, err := core.NewStore(dataset.Investigation())
	require.NoError(t, err)
	v, err := s.SetDateRange(0, 5)
	require.NoError(t, err)
	report := insight.Analyze(v, schema.DefaultAnomalyThreshold)

	var buf bytes.Buffer
	require.NoError(t, WriteInsightResults(&buf, v, report, textConfig()))
	assert.Contains(t, buf.String(), "No significant anomalies were detected.")
}

func TestWriteInsightResultsCSVAndJSON(t *testing.T) {
	v := investigationView(t)
	report := insight.Analyze(v, schema.DefaultAnomalyThreshold)

	cfg := textConfig()
	cfg.Output = schema.CSVOut
	var buf bytes.Buffer
	require.NoError(t, WriteInsightResults(&buf, v, report, cfg))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1+len(report.Anomalies))
	assert.Equal(t, "period,category,value,expected,z_score,kind", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Dec 22,timely,1737,269,"))

	cfg.Output = schema.JSONOut
	buf.Reset()
	require.NoError(t, WriteInsightResults(&buf, v, report, cfg))
	var decoded schema.InsightReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, report.Anomalies, decoded.Anomalies)
	assert.Equal(t, report.Summary, decoded.Summary)

	cfg.Output = schema.ParquetOut
	assert.Error(t, WriteInsightResults(&buf, v, report, cfg))
}

func TestWriteDatasetResults(t *testing.T) {
	datasets := dataset.Builtin().List()

	var buf bytes.Buffer
	require.NoError(t, WriteDatasetResults(&buf, datasets, textConfig()))
	assert.Contains(t, buf.String(), "Jan 21 - Dec 22")
	assert.Contains(t, buf.String(), "Jul 21 - Dec 22")

	cfg := textConfig()
	cfg.Output = schema.CSVOut
	buf.Reset()
	require.NoError(t, WriteDatasetResults(&buf, datasets, cfg))
	assert.Contains(t, buf.String(), "screening,SDM Hotline Screening Decision,18,Jul 21,Dec 22,Screen In|Evaluate Out|Override to In Person|Override to Eval Out")

	cfg.Output = schema.JSONOut
	buf.Reset()
	require.NoError(t, WriteDatasetResults(&buf, datasets, cfg))
	var decoded []datasetSummary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
}

func TestWriteHistoryStatus(t *testing.T) {
	status := schema.HistoryStatus{
		Backend:       "sqlite",
		Connected:     true,
		TotalRuns:     2,
		LastRunID:     2,
		LastRunTime:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		OldestRunTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		TableSizes:    map[string]int64{"casewatch_export_runs": 2, "casewatch_category_totals": 7},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHistoryStatus(&buf, status, &contract.Config{Output: schema.TextOut}))
	assert.Equal(t, "History Backend: sqlite\n"+
		"Connected: true\n"+
		"Total Runs: 2\n"+
		"Last Run ID: 2\n"+
		"Last Run: 2026-01-02 03:04:05\n"+
		"Oldest Run: 2026-01-01 00:00:00\n"+
		"Table Sizes:\n"+
		"  casewatch_category_totals: 7 rows\n"+
		"  casewatch_export_runs: 2 rows\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteHistoryStatus(&buf, schema.HistoryStatus{Backend: "none"}, &contract.Config{}))
	assert.Equal(t, "History Backend: none\nConnected: false\n", buf.String())
}
