package insight

import (
	"testing"

	"github.com/huangsam/casewatch/core"
	"github.com/huangsam/casewatch/internal/dataset"
	"github.com/huangsam/casewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullView(t *testing.T, ds *schema.Dataset) *schema.DerivedView {
	t.Helper()
	s, err := core.NewStore(ds)
	require.NoError(t, err)
	return s.View()
}

func TestDetectAnomaliesInvestigation(t *testing.T) {
	v := fullView(t, dataset.Investigation())
	anomalies := DetectAnomalies(v, schema.DefaultAnomalyThreshold)
	require.Len(t, anomalies, 2)

	assert.Equal(t, dataset.Timely, anomalies[0].Category)
	assert.Equal(t, "Dec 22", anomalies[0].Period)
	assert.Equal(t, int64(1737), anomalies[0].Value)
	assert.Equal(t, int64(269), anomalies[0].Expected)
	assert.Equal(t, schema.SpikeAnomaly, anomalies[0].Kind)
	assert.InDelta(t, 4.56, anomalies[0].ZScore, 0.01)

	assert.Equal(t, dataset.NotTimely, anomalies[1].Category)
	assert.Equal(t, int64(55), anomalies[1].Expected)
}

func TestDetectAnomaliesScreeningDrops(t *testing.T) {
	v := fullView(t, dataset.Screening())
	anomalies := DetectAnomalies(v, schema.DefaultAnomalyThreshold)
	require.Len(t, anomalies, 2)
	for _, a := range anomalies {
		assert.Equal(t, dataset.OverrideInPerson, a.Category)
		assert.Equal(t, schema.DropAnomaly, a.Kind)
		assert.Equal(t, int64(38), a.Expected)
	}
	assert.Equal(t, "Oct 22", anomalies[0].Period)
	assert.Equal(t, "Dec 22", anomalies[1].Period)
	assert.Equal(t, "Override to In Person in Oct 22 shows an unusual drop (28 vs expected ~38).", DescribeAnomaly(v, anomalies[0]))
}

func TestDetectAnomaliesSkipsFlatSeries(t *testing.T) {
	ds := dataset.Screening()
	for id := range ds.Series {
		ds.Series[id] = make([]int64, ds.Len())
		for i := range ds.Series[id] {
			ds.Series[id][i] = 7
		}
	}
	v := fullView(t, ds)
	assert.Empty(t, DetectAnomalies(v, schema.DefaultAnomalyThreshold))
}

func TestFindExtremes(t *testing.T) {
	v := fullView(t, dataset.Investigation())
	extremes := FindExtremes(v)
	require.Len(t, extremes, 3)
	timely := extremes[0]
	assert.Equal(t, dataset.Timely, timely.Category)
	assert.Equal(t, "Dec 22", timely.MaxPeriod)
	assert.Equal(t, int64(1737), timely.MaxValue)
	assert.Equal(t, "Jan 21", timely.MinPeriod)
	assert.Equal(t, int64(45), timely.MinValue)
	assert.Greater(t, timely.TopSharePercent, 0.0)
	assert.NotEmpty(t, timely.TopSharePeriod)
}

func TestComputeGrowth(t *testing.T) {
	v := fullView(t, dataset.Investigation())
	growth := ComputeGrowth(v)
	require.Len(t, growth, 3)
	assert.True(t, growth[0].Defined)
	assert.InDelta(t, (1737.0/45.0-1)*100, growth[0].Percent, 1e-9)

	ds := dataset.Screening()
	ds.Series[dataset.ScreenIn][0] = 0
	growth = ComputeGrowth(fullView(t, ds))
	assert.False(t, growth[0].Defined)
	assert.Equal(t, 0.0, growth[0].Percent)
}

func TestAutoInsights(t *testing.T) {
	v := fullView(t, dataset.Investigation())
	anomalies := DetectAnomalies(v, schema.DefaultAnomalyThreshold)
	insights := AutoInsights(v, anomalies)
	require.Len(t, insights, 3)
	assert.Equal(t, schema.PositiveInsight, insights[0].Severity)
	assert.Equal(t, "Only 4.5% of the total is Pending Investigation.", insights[0].Text)
	assert.Equal(t, schema.InfoInsight, insights[1].Severity)
	assert.Equal(t, "Volume increased 3088% from Jan 21 to Dec 22.", insights[1].Text)
	assert.Equal(t, schema.WarningInsight, insights[2].Severity)
	assert.Equal(t, "2 statistical anomalies detected - may require review.", insights[2].Text)
}

func TestAutoInsightsDominantShare(t *testing.T) {
	s, err := core.NewStore(dataset.Investigation())
	require.NoError(t, err)
	// Only the last period, where timely is 1737 of 1913.
	v, err := s.SetDateRange(23, 23)
	require.NoError(t, err)
	insights := AutoInsights(v, nil)
	require.NotEmpty(t, insights)
	assert.Equal(t, "Strong concentration: 90.8% of the total is Investigation Timely.", insights[0].Text)
}

func TestExecutiveSummary(t *testing.T) {
	v := fullView(t, dataset.Screening())
	report := Analyze(v, schema.DefaultAnomalyThreshold)
	assert.Equal(t, schema.ScreeningDataset, report.Dataset)
	assert.Contains(t, report.Summary, "Executive Summary: SDM Hotline Screening Decision")
	assert.Contains(t, report.Summary, "Period: Jul 21 - Dec 22 (18 periods)")
	assert.Contains(t, report.Summary, "Total: 31,150")
	assert.Contains(t, report.Summary, "- Screen In: 23,977 (77.0%)")
	assert.Contains(t, report.Summary, "Monthly volume changed +57% from Jul 21 to Dec 22.")
	assert.Contains(t, report.Summary, "Screen In leads with 77.0% of the total.")
	assert.Contains(t, report.Summary, "2 statistical anomalies were detected")
	assert.Len(t, report.Growth, 4)
	assert.Len(t, report.Extremes, 4)
}
