package chart

import (
	"bytes"
	"testing"

	"github.com/huangsam/casewatch/core"
	"github.com/huangsam/casewatch/internal/dataset"
	"github.com/huangsam/casewatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func screeningStore(t *testing.T) *core.Store {
	t.Helper()
	s, err := core.NewStore(dataset.Screening())
	require.NoError(t, err)
	return s
}

func TestRenderFormatsAndKinds(t *testing.T) {
	s := screeningStore(t)
	tests := []struct {
		name string
		opts Options
		mode schema.DisplayMode
	}{
		{"trend png counts", Options{Kind: schema.TrendChart, Format: schema.PNGFormat, Width: 800, Height: 400}, schema.CountsMode},
		{"trend svg percentages", Options{Kind: schema.TrendChart, Format: schema.SVGFormat, Width: 800, Height: 400}, schema.PercentagesMode},
		{"summary png counts", Options{Kind: schema.SummaryChart, Format: schema.PNGFormat, Width: 800, Height: 400}, schema.CountsMode},
		{"summary svg percentages", Options{Kind: schema.SummaryChart, Format: schema.SVGFormat, Width: 800, Height: 400}, schema.PercentagesMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := s.SetDisplayMode(tt.mode)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, Render(&buf, v, tt.opts))
			if tt.opts.Format == schema.SVGFormat {
				assert.Contains(t, buf.String(), "<svg")
			} else {
				assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
			}
		})
	}
}

func TestRenderSinglePeriod(t *testing.T) {
	s := screeningStore(t)
	v, err := s.SetDateRange(4, 4)
	require.NoError(t, err)

	ch := TrendChart(v, Options{Width: 640, Height: 320})
	require.Len(t, ch.Series, 4)
	first := ch.Series[0].(chart.ContinuousSeries)
	assert.Equal(t, []float64{-0.5, 0.5}, first.XValues)
	assert.Equal(t, first.YValues[0], first.YValues[1])
	require.Len(t, ch.XAxis.Ticks, 1)
	assert.Equal(t, "Nov 21", ch.XAxis.Ticks[0].Label)

	for _, format := range []schema.ChartFormat{schema.PNGFormat, schema.SVGFormat} {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, v, Options{Kind: schema.TrendChart, Format: format, Width: 640, Height: 320}))
		assert.NotZero(t, buf.Len())
	}
}

func TestRenderNothingVisible(t *testing.T) {
	s := screeningStore(t)
	var v *schema.DerivedView
	for _, id := range dataset.Screening().CategoryIDs() {
		var err error
		v, err = s.SetCategoryVisibility(id, false)
		require.NoError(t, err)
	}
	err := Render(&bytes.Buffer{}, v, Options{Kind: schema.SummaryChart})
	assert.ErrorIs(t, err, ErrNothingToDraw)
}

func TestTrendChartSkipsHiddenCategories(t *testing.T) {
	s := screeningStore(t)
	v, err := s.SetCategoryVisibility(dataset.EvaluateOut, false)
	require.NoError(t, err)

	ch := TrendChart(v, Options{Width: 800, Height: 400})
	require.Len(t, ch.Series, 3)
	assert.Equal(t, "Screen In", ch.Series[0].GetName())
	assert.Equal(t, "SDM Hotline Screening Decision (Jul 21 - Dec 22)", ch.Title)
	assert.Len(t, ch.XAxis.Ticks, 9)
	assert.Equal(t, "Jul 21", ch.XAxis.Ticks[0].Label)

	bc := SummaryChart(v, Options{Width: 800, Height: 400})
	require.Len(t, bc.Bars, 3)
	assert.Equal(t, "Screen In (23,977)", bc.Bars[0].Label)
}

func TestSummaryChartPercentLabels(t *testing.T) {
	s := screeningStore(t)
	v, err := s.SetDisplayMode(schema.PercentagesMode)
	require.NoError(t, err)

	bc := SummaryChart(v, Options{})
	assert.Equal(t, "Screen In (77.0%)", bc.Bars[0].Label)
	assert.InDelta(t, 77.0, bc.Bars[0].Value, 1e-9)
	assert.Equal(t, 60, bc.BarWidth)
}

func TestCountTicks(t *testing.T) {
	ticks := countTicks(1913)
	require.Len(t, ticks, 5)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.Equal(t, 2000.0, ticks[4].Value)
	assert.Equal(t, "2,000", ticks[4].Label)

	ticks = countTicks(0)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.GreaterOrEqual(t, ticks[len(ticks)-1].Value, 0.99)
}

func TestNiceStep(t *testing.T) {
	assert.Equal(t, 500.0, niceStep(382.6))
	assert.Equal(t, 2.5, niceStep(2.1))
	assert.Equal(t, 10.0, niceStep(6))
	assert.Equal(t, 100.0, niceStep(100))
}

func TestFileName(t *testing.T) {
	s := screeningStore(t)
	v, err := s.SetDateRange(0, 5)
	require.NoError(t, err)
	assert.Equal(t, "screening_summary_jul21-dec21.svg", FileName(v, Options{Kind: schema.SummaryChart, Format: schema.SVGFormat}))
	assert.Equal(t, "screening_trend_jul21-dec21.png", FileName(v, Options{}))
}

func TestCategoryColor(t *testing.T) {
	c := categoryColor(schema.CategoryDescriptor{Color: "#3366cc"})
	assert.Equal(t, uint8(0x33), c.R)
	assert.Equal(t, uint8(0xcc), c.B)
	assert.Equal(t, categoryColor(schema.CategoryDescriptor{Color: "blue"}), categoryColor(schema.CategoryDescriptor{}))
}
