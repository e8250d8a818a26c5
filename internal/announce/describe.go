// Package announce turns derived views into screen-reader friendly text.
package announce

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/casewatch/schema"
)

// categoryText renders one category according to the display mode.
func categoryText(v *schema.DerivedView, c schema.CategoryDescriptor) string {
	pct := schema.FormatPercent(v.Aggregate.PercentagesByCategory[c.ID])
	if v.DisplayMode == schema.PercentagesMode {
		return fmt.Sprintf("%s: %s", c.DisplayName, pct)
	}
	return fmt.Sprintf("%s: %s, %s", c.DisplayName, humanize.Comma(v.Aggregate.TotalsByCategory[c.ID]), pct)
}

func periodWord(n int) string {
	if n == 1 {
		return "1 period"
	}
	return fmt.Sprintf("%d periods", n)
}

// DescribeTrend describes the line chart of the view.
func DescribeTrend(v *schema.DerivedView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s. Line chart showing %s from %s to %s.", v.Title, periodWord(v.Len()), v.DateRange.Start, v.DateRange.End)
	visible := v.VisibleCategories()
	if len(visible) == 0 {
		sb.WriteString(" No categories are visible.")
		return sb.String()
	}
	for _, c := range visible {
		values := v.SeriesValues[c.ID]
		maxIdx, minIdx := 0, 0
		for i, value := range values {
			if value > values[maxIdx] {
				maxIdx = i
			}
			if value < values[minIdx] {
				minIdx = i
			}
		}
		if v.DisplayMode == schema.PercentagesMode {
			fmt.Fprintf(&sb, " %s peaks at %s of its period in %s.", c.DisplayName,
				schema.FormatPercent(schema.Round1(v.Breakdown[maxIdx].Percentages[c.ID])), v.Periods[maxIdx])
			continue
		}
		fmt.Fprintf(&sb, " %s peaks at %s in %s, lowest %s in %s.", c.DisplayName,
			humanize.Comma(values[maxIdx]), v.Periods[maxIdx], humanize.Comma(values[minIdx]), v.Periods[minIdx])
	}
	fmt.Fprintf(&sb, " Total: %s.", humanize.Comma(visibleTotal(v)))
	return sb.String()
}

// DescribeSummary describes the aggregate bar chart of the view.
func DescribeSummary(v *schema.DerivedView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Summary for %s to %s. Total: %s.", v.DateRange.Start, v.DateRange.End, humanize.Comma(visibleTotal(v)))
	visible := v.VisibleCategories()
	if len(visible) == 0 {
		sb.WriteString(" No categories are visible.")
		return sb.String()
	}
	parts := make([]string, len(visible))
	for i, c := range visible {
		parts[i] = categoryText(v, c)
	}
	sb.WriteString(" " + strings.Join(parts, ". ") + ".")
	return sb.String()
}

// DescribeChange explains what differs between two consecutive views.
// A nil prev describes the view from scratch.
func DescribeChange(prev, next *schema.DerivedView) string {
	if prev == nil {
		return DescribeSummary(next)
	}
	var changes []string
	if prev.DateRange != next.DateRange {
		changes = append(changes, fmt.Sprintf("Date range changed to %s.", next.DateRange.Full))
	}
	if prev.DisplayMode != next.DisplayMode {
		changes = append(changes, fmt.Sprintf("Display mode changed to %s.", next.DisplayMode))
	}
	for _, c := range next.Categories {
		if prev.Visibility[c.ID] == next.Visibility[c.ID] {
			continue
		}
		state := "hidden"
		if next.Visibility[c.ID] {
			state = "shown"
		}
		changes = append(changes, fmt.Sprintf("%s %s.", c.DisplayName, state))
	}
	if len(changes) == 0 {
		changes = append(changes, "Filters reapplied.")
	}
	return fmt.Sprintf("Filter updated. %s Now showing %s with %s total.",
		strings.Join(changes, " "), periodWord(next.Len()), humanize.Comma(visibleTotal(next)))
}

// DescribeInsights reads out a list of generated insights.
func DescribeInsights(insights []schema.Insight) string {
	if len(insights) == 0 {
		return "No insights available."
	}
	parts := make([]string, len(insights))
	for i, in := range insights {
		parts[i] = fmt.Sprintf("Insight %d: %s", i+1, in.Text)
	}
	return fmt.Sprintf("%d insights available. %s", len(insights), strings.Join(parts, " "))
}

// visibleTotal sums the aggregate totals of the visible categories.
func visibleTotal(v *schema.DerivedView) int64 {
	var total int64
	for _, c := range v.VisibleCategories() {
		total += v.Aggregate.TotalsByCategory[c.ID]
	}
	return total
}
