// Package assistant answers natural-language questions about a derived view with keyword rules.
package assistant

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/casewatch/core/insight"
	"github.com/huangsam/casewatch/schema"
)

// maxListedAnomalies bounds the anomalies listed in one answer.
const maxListedAnomalies = 5

var (
	monthPattern = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s*'?(?:20)?(\d{2})\b`)
	wordPattern  = regexp.MustCompile(`[a-z0-9]+`)
)

// Assistant routes a question to the first rule whose keywords match.
type Assistant struct {
	threshold float64
}

// New returns an assistant flagging anomalies above the given z-score.
func New(threshold float64) *Assistant {
	if threshold <= 0 {
		threshold = schema.DefaultAnomalyThreshold
	}
	return &Assistant{threshold: threshold}
}

// Answer responds to question using only the numbers of v.
func (a *Assistant) Answer(v *schema.DerivedView, question string) string {
	q := strings.ToLower(strings.TrimSpace(question))
	words := wordSet(q)

	switch {
	case words["highest"] || words["peak"] || words["most"]:
		return a.extreme(v, words, true)
	case words["lowest"] || words["least"] || words["minimum"]:
		return a.extreme(v, words, false)
	case containsAny(q, "anomal", "unusual", "outlier"):
		return a.anomalies(v)
	case strings.Contains(q, "trend"):
		return a.trends(v)
	case containsAny(q, "summar", "overview", "executive"):
		return insight.ExecutiveSummary(v, insight.DetectAnomalies(v, a.threshold))
	}
	if m := monthPattern.FindStringSubmatch(q); m != nil {
		if answer, ok := a.month(v, strings.ToLower(m[1]), m[2]); ok {
			return answer
		}
		return fmt.Sprintf("There is no %s %s period in the selected range (%s).",
			strings.ToUpper(m[1][:1])+m[1][1:], m[2], v.DateRange.Full)
	}
	switch {
	case strings.Contains(q, "percent") || strings.Contains(q, "share"):
		return a.percentages(v)
	case containsAny(q, "compare", "versus") || words["vs"]:
		return a.compare(v)
	}
	return a.help(v)
}

func (a *Assistant) extreme(v *schema.DerivedView, words map[string]bool, highest bool) string {
	label := "highest"
	if !highest {
		label = "lowest"
	}
	cat, ok := matchCategory(v.Categories, words)
	if !ok {
		idx := 0
		for i, b := range v.Breakdown {
			if (highest && b.Total > v.Breakdown[idx].Total) || (!highest && b.Total < v.Breakdown[idx].Total) {
				idx = i
			}
		}
		b := v.Breakdown[idx]
		return fmt.Sprintf("The period with the %s total volume was **%s** with **%s** cases.", label, b.Period, humanize.Comma(b.Total))
	}
	values := v.SeriesValues[cat.ID]
	idx := 0
	for i, value := range values {
		if (highest && value > values[idx]) || (!highest && value < values[idx]) {
			idx = i
		}
	}
	return fmt.Sprintf("The period with the %s %s was **%s** with **%s**.", label, cat.DisplayName, v.Periods[idx], humanize.Comma(values[idx]))
}

func (a *Assistant) anomalies(v *schema.DerivedView) string {
	anomalies := insight.DetectAnomalies(v, a.threshold)
	if len(anomalies) == 0 {
		return fmt.Sprintf("No significant statistical anomalies were detected between %s and %s.", v.DateRange.Start, v.DateRange.End)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found **%d anomalies** in the data:\n", len(anomalies))
	for i, an := range anomalies {
		if i == maxListedAnomalies {
			fmt.Fprintf(&sb, "\n• ... and %d more", len(anomalies)-maxListedAnomalies)
			break
		}
		fmt.Fprintf(&sb, "\n• **%s**: %s - %s (%s vs expected ~%s)", an.Period, displayName(v, an.Category), an.Kind,
			humanize.Comma(an.Value), humanize.Comma(an.Expected))
	}
	return sb.String()
}

func (a *Assistant) trends(v *schema.DerivedView) string {
	if v.Len() < 2 {
		return fmt.Sprintf("Trends need at least two periods; the current range is %s.", v.DateRange.Full)
	}
	var sb strings.Builder
	sb.WriteString("Key trends in the data:\n")
	for _, g := range insight.ComputeGrowth(v) {
		name := displayName(v, g.Category)
		if !g.Defined {
			fmt.Fprintf(&sb, "\n• **%s**: went from 0 to %s", name, humanize.Comma(g.Last))
			continue
		}
		direction := "up"
		if g.Percent < 0 {
			direction = "down"
		}
		fmt.Fprintf(&sb, "\n• **%s**: %s %.0f%% from %s to %s (%s → %s)", name, direction, math.Abs(g.Percent),
			v.DateRange.Start, v.DateRange.End, humanize.Comma(g.First), humanize.Comma(g.Last))
	}
	return sb.String()
}

func (a *Assistant) month(v *schema.DerivedView, month, year string) (string, bool) {
	var idx = -1
	for i, p := range v.Periods {
		lp := strings.ToLower(p)
		if strings.HasPrefix(lp, month) && strings.HasSuffix(lp, year) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", false
	}
	b := v.Breakdown[idx]
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** data:", b.Period)
	for _, c := range v.Categories {
		fmt.Fprintf(&sb, "\n• %s: %s (%s)", c.DisplayName, humanize.Comma(b.Counts[c.ID]),
			schema.FormatPercent(schema.Round1(b.Percentages[c.ID])))
	}
	fmt.Fprintf(&sb, "\n• Total: %s", humanize.Comma(b.Total))
	return sb.String(), true
}

func (a *Assistant) percentages(v *schema.DerivedView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Current percentages (%s):", v.DateRange.Full)
	for _, c := range v.Categories {
		fmt.Fprintf(&sb, "\n• %s: **%s**", c.DisplayName, schema.FormatPercent(v.Aggregate.PercentagesByCategory[c.ID]))
	}
	return sb.String()
}

func (a *Assistant) compare(v *schema.DerivedView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Comparison of %s categories (%s):\n\n", v.Title, v.DateRange.Full)
	sb.WriteString("| Category | Count | Percentage |\n|----------|-------|------------|\n")
	for _, c := range v.Categories {
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", c.DisplayName, humanize.Comma(v.Aggregate.TotalsByCategory[c.ID]),
			schema.FormatPercent(v.Aggregate.PercentagesByCategory[c.ID]))
	}
	first, second := topTwo(v)
	if second != nil && v.Aggregate.TotalsByCategory[second.ID] > 0 {
		ratio := float64(v.Aggregate.TotalsByCategory[first.ID]) / float64(v.Aggregate.TotalsByCategory[second.ID])
		fmt.Fprintf(&sb, "\n%s outnumbers %s by a ratio of approximately **%.1f:1**.", first.DisplayName, second.DisplayName, ratio)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (a *Assistant) help(v *schema.DerivedView) string {
	return fmt.Sprintf("I can help you analyze the %s data. Try asking about:\n"+
		"• **Trends**: \"What are the main trends?\"\n"+
		"• **Anomalies**: \"Are there any anomalies?\"\n"+
		"• **Specific months**: \"What happened in %s?\"\n"+
		"• **Extremes**: \"Which month had the highest %s?\"\n"+
		"• **Comparisons**: \"Compare the categories\"\n"+
		"• **Summaries**: \"Give me an executive summary\"",
		v.Title, v.DateRange.End, firstName(v))
}

// matchCategory picks the category sharing the most words with the question,
// preferring the one whose display name is covered best on ties.
func matchCategory(categories []schema.CategoryDescriptor, words map[string]bool) (schema.CategoryDescriptor, bool) {
	var best schema.CategoryDescriptor
	bestHits, bestRatio := 0, 0.0
	for _, c := range categories {
		nameWords := wordPattern.FindAllString(strings.ToLower(c.DisplayName), -1)
		hits := 0
		for _, w := range nameWords {
			if words[w] {
				hits++
			}
		}
		if id := strings.ToLower(string(c.ID)); words[id] && !slices.Contains(nameWords, id) {
			hits++
		}
		if hits == 0 {
			continue
		}
		ratio := float64(hits) / float64(max(len(nameWords), 1))
		if hits > bestHits || (hits == bestHits && ratio > bestRatio) {
			best, bestHits, bestRatio = c, hits, ratio
		}
	}
	return best, bestHits > 0
}

func topTwo(v *schema.DerivedView) (*schema.CategoryDescriptor, *schema.CategoryDescriptor) {
	var first, second *schema.CategoryDescriptor
	totals := v.Aggregate.TotalsByCategory
	for i := range v.Categories {
		c := &v.Categories[i]
		switch {
		case first == nil || totals[c.ID] > totals[first.ID]:
			first, second = c, first
		case second == nil || totals[c.ID] > totals[second.ID]:
			second = c
		}
	}
	return first, second
}

func displayName(v *schema.DerivedView, id schema.CategoryID) string {
	for _, c := range v.Categories {
		if c.ID == id {
			return c.DisplayName
		}
	}
	return string(id)
}

func firstName(v *schema.DerivedView) string {
	if len(v.Categories) == 0 {
		return "volume"
	}
	return v.Categories[0].DisplayName
}

func wordSet(q string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(q, -1) {
		set[w] = true
	}
	return set
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
