// Package chart renders derived views as PNG or SVG images with go-chart.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/casewatch/schema"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToDraw is returned when every category of the view is hidden.
var ErrNothingToDraw = errors.New("no visible categories to draw")

// maxXLabels bounds the number of period labels printed on the x axis.
const maxXLabels = 12

// Options controls how a view is drawn.
type Options struct {
	Kind   schema.ChartKind
	Format schema.ChartFormat
	Width  int
	Height int
}

// Render draws v to w. Hidden categories are left out; the display mode picks counts or shares.
func Render(w io.Writer, v *schema.DerivedView, opts Options) error {
	if len(v.VisibleCategories()) == 0 {
		return ErrNothingToDraw
	}
	provider := chart.PNG
	if opts.Format == schema.SVGFormat {
		provider = chart.SVG
	}

	var err error
	switch opts.Kind {
	case schema.SummaryChart:
		bc := SummaryChart(v, opts)
		err = bc.Render(provider, w)
	default:
		ch := TrendChart(v, opts)
		err = ch.Render(provider, w)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s chart: %w", opts.Kind, err)
	}
	return nil
}

// FileName returns a default file name for the chart of v, e.g. "screening_trend_jul21-dec22.png".
func FileName(v *schema.DerivedView, opts Options) string {
	kind := opts.Kind
	if kind == "" {
		kind = schema.TrendChart
	}
	format := opts.Format
	if format == "" {
		format = schema.PNGFormat
	}
	slug := func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, " ", ""))
	}
	return fmt.Sprintf("%s_%s_%s-%s.%s", v.Dataset, kind, slug(v.DateRange.Start), slug(v.DateRange.End), format)
}

// TrendChart builds a line chart with one series per visible category.
// A single period is drawn as a short flat segment centered on its tick.
func TrendChart(v *schema.DerivedView, opts Options) chart.Chart {
	percentages := v.DisplayMode == schema.PercentagesMode
	single := v.Len() == 1
	xs := make([]float64, v.Len())
	for i := range xs {
		xs[i] = float64(i)
	}
	if single {
		xs = []float64{-0.5, 0.5}
	}

	var series []chart.Series
	maxY := 0.0
	for _, c := range v.VisibleCategories() {
		ys := make([]float64, v.Len())
		for i, b := range v.Breakdown {
			if percentages {
				ys[i] = b.Percentages[c.ID]
			} else {
				ys[i] = float64(b.Counts[c.ID])
			}
			maxY = math.Max(maxY, ys[i])
		}
		if single {
			ys = []float64{ys[0], ys[0]}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    c.DisplayName,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(categoryColor(c)),
		})
	}

	yTicks := countTicks(maxY)
	yName := "Cases"
	if percentages {
		yTicks = percentTicks()
		yName = "Share of period (%)"
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s (%s)", v.Title, v.DateRange.Full),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      periodAxis(v),
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: yTicks[0].Value, Max: yTicks[len(yTicks)-1].Value},
			Ticks: yTicks,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// SummaryChart builds a bar chart of the window totals of the visible categories.
func SummaryChart(v *schema.DerivedView, opts Options) chart.BarChart {
	percentages := v.DisplayMode == schema.PercentagesMode
	visible := v.VisibleCategories()

	bars := make([]chart.Value, 0, len(visible))
	maxY := 0.0
	for _, c := range visible {
		total := v.Aggregate.TotalsByCategory[c.ID]
		pct := v.Aggregate.PercentagesByCategory[c.ID]
		value := float64(total)
		label := fmt.Sprintf("%s (%s)", c.DisplayName, humanize.Comma(total))
		if percentages {
			value = pct
			label = fmt.Sprintf("%s (%s)", c.DisplayName, schema.FormatPercent(pct))
		}
		maxY = math.Max(maxY, value)
		col := categoryColor(c)
		bars = append(bars, chart.Value{
			Label: label,
			Value: value,
			Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
		})
	}

	yTicks := countTicks(maxY)
	if percentages {
		yTicks = percentTicks()
	}

	barWidth := 60
	if n := len(bars); n > 0 && opts.Width > 0 {
		barWidth = min(120, max(20, opts.Width/(2*n)))
	}

	return chart.BarChart{
		Title:      fmt.Sprintf("%s Summary (%s)", v.Title, v.DateRange.Full),
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth,
		BarSpacing: barWidth / 2,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: yTicks[0].Value, Max: yTicks[len(yTicks)-1].Value},
			Ticks: yTicks,
		},
		Bars: bars,
	}
}

// lineStyle returns a style that renders a line with small dots at each period.
func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    3,
	}
}

// categoryColor parses the "#rrggbb" color of a category, falling back to gray.
func categoryColor(c schema.CategoryDescriptor) drawing.Color {
	hex := strings.TrimPrefix(c.Color, "#")
	if len(hex) != 6 {
		return chart.ColorAlternateGray
	}
	return drawing.ColorFromHex(hex)
}

// periodAxis labels the x axis with period names, thinning them out for long ranges.
// A single period gets a padded range around its flat segment.
func periodAxis(v *schema.DerivedView) chart.XAxis {
	n := v.Len()
	step := int(math.Ceil(float64(n) / maxXLabels))
	ticks := make([]chart.Tick, 0, maxXLabels+1)
	for i := 0; i < n; i += max(step, 1) {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: v.Periods[i]})
	}
	rng := &chart.ContinuousRange{Min: 0, Max: float64(n - 1)}
	if n <= 1 {
		rng = &chart.ContinuousRange{Min: -1, Max: 1}
	}
	return chart.XAxis{Name: "Period", Ticks: ticks, Range: rng}
}

// countTicks returns about five evenly spaced ticks from zero to at least maxY.
func countTicks(maxY float64) []chart.Tick {
	if maxY <= 0 {
		maxY = 1
	}
	step := niceStep(maxY / 5)
	top := math.Ceil(maxY/step) * step
	ticks := []chart.Tick{}
	for y := 0.0; y <= top+step/2; y += step {
		ticks = append(ticks, chart.Tick{Value: y, Label: formatTick(y)})
	}
	return ticks
}

// niceStep rounds raw up to 1, 2, 2.5 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, c := range []float64{1, 2, 2.5, 5} {
		if c*mag >= raw {
			return c * mag
		}
	}
	return 10 * mag
}

func formatTick(y float64) string {
	if y == math.Trunc(y) {
		return humanize.Comma(int64(y))
	}
	return fmt.Sprintf("%.1f", y)
}

func percentTicks() []chart.Tick {
	return []chart.Tick{{Value: 0, Label: "0%"}, {Value: 25, Label: "25%"}, {Value: 50, Label: "50%"}, {Value: 75, Label: "75%"}, {Value: 100, Label: "100%"}}
}
