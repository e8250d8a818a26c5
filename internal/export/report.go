// Package export writes charts, reports and bundles of a derived view to disk.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/casewatch/core/insight"
	"github.com/huangsam/casewatch/schema"
)

// ReportFileName returns the default name of the text report of v.
func ReportFileName(v *schema.DerivedView) string {
	return fmt.Sprintf("%s_report_%s-%s.txt", v.Dataset, slug(v.DateRange.Start), slug(v.DateRange.End))
}

// ViewFileName returns the default name of the parquet dump of v.
func ViewFileName(v *schema.DerivedView) string {
	return fmt.Sprintf("%s_view_%s-%s.parquet", v.Dataset, slug(v.DateRange.Start), slug(v.DateRange.End))
}

func slug(label string) string {
	return strings.ToLower(strings.ReplaceAll(label, " ", ""))
}

// WriteReport writes the full text report of v: executive summary, insights,
// anomalies and per-category trends. Every category is reported regardless of visibility.
func WriteReport(w io.Writer, v *schema.DerivedView, report schema.InsightReport, generated time.Time) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s Report\n", v.Title)
	fmt.Fprintf(&sb, "Generated: %s\n", generated.Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "Display mode: %s\n\n", v.DisplayMode)

	sb.WriteString(report.Summary)
	sb.WriteString("\n\nInsights:\n")
	if len(report.Insights) == 0 {
		sb.WriteString("- None.\n")
	}
	for _, in := range report.Insights {
		fmt.Fprintf(&sb, "- [%s] %s: %s\n", in.Severity, in.Title, in.Text)
	}

	sb.WriteString("\nAnomalies:\n")
	if len(report.Anomalies) == 0 {
		sb.WriteString("- No significant anomalies were detected.\n")
	}
	for _, a := range report.Anomalies {
		fmt.Fprintf(&sb, "- %s (z = %.2f)\n", insight.DescribeAnomaly(v, a), a.ZScore)
	}

	sb.WriteString("\nTrends:\n")
	extremes := make(map[schema.CategoryID]schema.Extreme, len(report.Extremes))
	for _, e := range report.Extremes {
		extremes[e.Category] = e
	}
	for _, g := range report.Growth {
		name := string(g.Category)
		if c, ok := categoryByID(v, g.Category); ok {
			name = c.DisplayName
		}
		change := "n/a"
		if g.Defined {
			change = fmt.Sprintf("%+.1f%%", g.Percent)
		}
		fmt.Fprintf(&sb, "- %s: %s to %s (%s)", name, humanize.Comma(g.First), humanize.Comma(g.Last), change)
		if e, ok := extremes[g.Category]; ok {
			fmt.Fprintf(&sb, ", peak %s in %s, low %s in %s",
				humanize.Comma(e.MaxValue), e.MaxPeriod, humanize.Comma(e.MinValue), e.MinPeriod)
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func categoryByID(v *schema.DerivedView, id schema.CategoryID) (schema.CategoryDescriptor, bool) {
	for _, c := range v.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return schema.CategoryDescriptor{}, false
}
