// Package insight derives anomalies, extremes and narrative insights from a derived view.
package insight

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/casewatch/schema"
)

// Thresholds for the generated insights.
const (
	StrongShareThreshold = 85.0
	SmallShareThreshold  = 5.0
)

// meanStdDev returns the mean and population standard deviation of values.
func meanStdDev(values []int64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

// DetectAnomalies flags values whose |z-score| within their category exceeds threshold.
// Categories with zero variance never produce anomalies.
func DetectAnomalies(v *schema.DerivedView, threshold float64) []schema.Anomaly {
	var out []schema.Anomaly
	for _, c := range v.Categories {
		values := v.SeriesValues[c.ID]
		mean, std := meanStdDev(values)
		if std == 0 {
			continue
		}
		for i, value := range values {
			z := (float64(value) - mean) / std
			if math.Abs(z) <= threshold {
				continue
			}
			kind := schema.SpikeAnomaly
			if z < 0 {
				kind = schema.DropAnomaly
			}
			out = append(out, schema.Anomaly{
				Period:   v.Periods[i],
				Category: c.ID,
				Value:    value,
				Expected: int64(math.Round(mean)),
				ZScore:   math.Round(z*100) / 100,
				Kind:     kind,
			})
		}
	}
	return out
}

// FindExtremes returns the peak, the trough and the highest-share period of every category.
func FindExtremes(v *schema.DerivedView) []schema.Extreme {
	out := make([]schema.Extreme, 0, len(v.Categories))
	for _, c := range v.Categories {
		values := v.SeriesValues[c.ID]
		if len(values) == 0 {
			continue
		}
		ext := schema.Extreme{
			Category:        c.ID,
			MaxPeriod:       v.Periods[0],
			MaxValue:        values[0],
			MinPeriod:       v.Periods[0],
			MinValue:        values[0],
			TopSharePercent: -1,
		}
		for i, value := range values {
			if value > ext.MaxValue {
				ext.MaxValue, ext.MaxPeriod = value, v.Periods[i]
			}
			if value < ext.MinValue {
				ext.MinValue, ext.MinPeriod = value, v.Periods[i]
			}
		}
		for _, b := range v.Breakdown {
			if pct := b.Percentages[c.ID]; pct > ext.TopSharePercent {
				ext.TopSharePercent, ext.TopSharePeriod = pct, b.Period
			}
		}
		ext.TopSharePercent = schema.Round1(ext.TopSharePercent)
		out = append(out, ext)
	}
	return out
}

// ComputeGrowth returns the first-to-last change of every category in the window.
// Growth is undefined when the first value is zero.
func ComputeGrowth(v *schema.DerivedView) []schema.Growth {
	out := make([]schema.Growth, 0, len(v.Categories))
	for _, c := range v.Categories {
		values := v.SeriesValues[c.ID]
		if len(values) == 0 {
			continue
		}
		g := schema.Growth{Category: c.ID, First: values[0], Last: values[len(values)-1]}
		if g.First > 0 {
			g.Percent = (float64(g.Last)/float64(g.First) - 1) * 100
			g.Defined = true
		}
		out = append(out, g)
	}
	return out
}

// leader returns the category with the largest aggregate share and the one with the smallest.
func leader(v *schema.DerivedView) (top, bottom schema.CategoryDescriptor) {
	pcts := v.Aggregate.PercentagesByCategory
	for i, c := range v.Categories {
		if i == 0 || pcts[c.ID] > pcts[top.ID] {
			top = c
		}
		if i == 0 || pcts[c.ID] < pcts[bottom.ID] {
			bottom = c
		}
	}
	return top, bottom
}

// AutoInsights generates the short observations shown next to a chart.
func AutoInsights(v *schema.DerivedView, anomalies []schema.Anomaly) []schema.Insight {
	var out []schema.Insight
	if v.Aggregate.GrandTotal > 0 && len(v.Categories) > 0 {
		top, bottom := leader(v)
		if pct := v.Aggregate.PercentagesByCategory[top.ID]; pct > StrongShareThreshold {
			out = append(out, schema.Insight{
				Severity: schema.PositiveInsight,
				Title:    "Dominant category",
				Text:     fmt.Sprintf("Strong concentration: %s of the total is %s.", schema.FormatPercent(pct), top.DisplayName),
			})
		}
		if pct := v.Aggregate.PercentagesByCategory[bottom.ID]; len(v.Categories) > 1 && pct < SmallShareThreshold {
			out = append(out, schema.Insight{
				Severity: schema.PositiveInsight,
				Title:    "Small share",
				Text:     fmt.Sprintf("Only %s of the total is %s.", schema.FormatPercent(pct), bottom.DisplayName),
			})
		}
	}
	if n := len(v.Breakdown); n > 1 {
		first, last := v.Breakdown[0], v.Breakdown[n-1]
		if first.Total > 0 {
			growth := (float64(last.Total)/float64(first.Total) - 1) * 100
			verb := "increased"
			if growth < 0 {
				verb = "decreased"
			}
			out = append(out, schema.Insight{
				Severity: schema.InfoInsight,
				Title:    "Volume change",
				Text:     fmt.Sprintf("Volume %s %.0f%% from %s to %s.", verb, math.Abs(growth), first.Period, last.Period),
			})
		}
	}
	if len(anomalies) > 0 {
		out = append(out, schema.Insight{
			Severity: schema.WarningInsight,
			Title:    "Anomalies",
			Text:     fmt.Sprintf("%d statistical anomalies detected - may require review.", len(anomalies)),
		})
	}
	return out
}

// ExecutiveSummary renders a plain-text summary of the view.
func ExecutiveSummary(v *schema.DerivedView, anomalies []schema.Anomaly) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Executive Summary: %s\n\n", v.Title)
	fmt.Fprintf(&sb, "Period: %s (%d periods)\n\n", v.DateRange.Full, v.Len())
	fmt.Fprintf(&sb, "Total: %s\n", humanize.Comma(v.Aggregate.GrandTotal))
	for _, c := range v.Categories {
		fmt.Fprintf(&sb, "- %s: %s (%s)\n", c.DisplayName,
			humanize.Comma(v.Aggregate.TotalsByCategory[c.ID]),
			schema.FormatPercent(v.Aggregate.PercentagesByCategory[c.ID]))
	}

	sb.WriteString("\nKey findings:\n")
	finding := 1
	if n := len(v.Breakdown); n > 1 && v.Breakdown[0].Total > 0 {
		growth := (float64(v.Breakdown[n-1].Total)/float64(v.Breakdown[0].Total) - 1) * 100
		fmt.Fprintf(&sb, "%d. Monthly volume changed %+.0f%% from %s to %s.\n", finding, growth, v.Breakdown[0].Period, v.Breakdown[n-1].Period)
		finding++
	}
	if v.Aggregate.GrandTotal > 0 && len(v.Categories) > 0 {
		top, _ := leader(v)
		fmt.Fprintf(&sb, "%d. %s leads with %s of the total.\n", finding, top.DisplayName,
			schema.FormatPercent(v.Aggregate.PercentagesByCategory[top.ID]))
		finding++
	}
	if len(anomalies) > 0 {
		fmt.Fprintf(&sb, "%d. %d statistical anomalies were detected that may warrant further investigation.\n", finding, len(anomalies))
	} else {
		fmt.Fprintf(&sb, "%d. No significant anomalies were detected.\n", finding)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Analyze builds the full insight report for a view.
func Analyze(v *schema.DerivedView, threshold float64) schema.InsightReport {
	anomalies := DetectAnomalies(v, threshold)
	return schema.InsightReport{
		Dataset:   v.Dataset,
		DateRange: v.DateRange,
		Insights:  AutoInsights(v, anomalies),
		Anomalies: anomalies,
		Extremes:  FindExtremes(v),
		Growth:    ComputeGrowth(v),
		Summary:   ExecutiveSummary(v, anomalies),
	}
}

// DescribeAnomaly renders one anomaly as a sentence.
func DescribeAnomaly(v *schema.DerivedView, a schema.Anomaly) string {
	name := string(a.Category)
	for _, c := range v.Categories {
		if c.ID == a.Category {
			name = c.DisplayName
		}
	}
	return fmt.Sprintf("%s in %s shows an unusual %s (%s vs expected ~%s).",
		name, a.Period, a.Kind, humanize.Comma(a.Value), humanize.Comma(a.Expected))
}
