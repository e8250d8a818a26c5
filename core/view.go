package core

import (
	"github.com/huangsam/casewatch/schema"
)

// ValidateDataset checks the invariants every store relies on.
func ValidateDataset(ds *schema.Dataset) error {
	if ds == nil {
		return invalidDataset("", "dataset is nil")
	}
	n := ds.Len()
	if n == 0 {
		return invalidDataset(ds.ID, "no periods")
	}
	seenPeriod := make(map[string]struct{}, n)
	for _, p := range ds.Periods {
		if _, dup := seenPeriod[p]; dup {
			return invalidDataset(ds.ID, "duplicate period %q", p)
		}
		seenPeriod[p] = struct{}{}
	}
	if len(ds.Categories) == 0 {
		return invalidDataset(ds.ID, "no categories")
	}
	seenCat := make(map[schema.CategoryID]struct{}, len(ds.Categories))
	for _, c := range ds.Categories {
		if c.ID == "" {
			return invalidDataset(ds.ID, "empty category id")
		}
		if _, dup := seenCat[c.ID]; dup {
			return invalidDataset(ds.ID, "duplicate category %q", c.ID)
		}
		seenCat[c.ID] = struct{}{}
		values, ok := ds.Series[c.ID]
		if !ok {
			return invalidDataset(ds.ID, "missing series for %q", c.ID)
		}
		if len(values) != n {
			return invalidDataset(ds.ID, "series %q has %d values, want %d", c.ID, len(values), n)
		}
		for i, v := range values {
			if v < 0 {
				return invalidDataset(ds.ID, "series %q has negative value %d at %q", c.ID, v, ds.Periods[i])
			}
		}
	}
	for id := range ds.Series {
		if _, ok := seenCat[id]; !ok {
			return invalidDataset(ds.ID, "series %q has no category descriptor", id)
		}
	}
	return nil
}

// ComputeView derives the view for the given parameters. It assumes the dataset was
// validated and the parameters are in range. The result shares no memory with ds or p.
func ComputeView(ds *schema.Dataset, p schema.FilterParameters) *schema.DerivedView {
	start, end := p.StartIndex, p.EndIndex
	width := end - start + 1

	periods := make([]string, width)
	copy(periods, ds.Periods[start:end+1])

	series := make(map[schema.CategoryID][]int64, len(ds.Categories))
	totals := make(map[schema.CategoryID]int64, len(ds.Categories))
	var grand int64
	for _, c := range ds.Categories {
		values := make([]int64, width)
		copy(values, ds.Series[c.ID][start:end+1])
		series[c.ID] = values
		var sum int64
		for _, v := range values {
			sum += v
		}
		totals[c.ID] = sum
		grand += sum
	}

	breakdown := make([]schema.PeriodBreakdown, width)
	for i := range width {
		counts := make(map[schema.CategoryID]int64, len(ds.Categories))
		var total int64
		for _, c := range ds.Categories {
			v := series[c.ID][i]
			counts[c.ID] = v
			total += v
		}
		pcts := make(map[schema.CategoryID]float64, len(ds.Categories))
		for _, c := range ds.Categories {
			pcts[c.ID] = schema.Share(counts[c.ID], total)
		}
		breakdown[i] = schema.PeriodBreakdown{
			Period:      periods[i],
			Counts:      counts,
			Total:       total,
			Percentages: pcts,
		}
	}

	aggPcts := make(map[schema.CategoryID]float64, len(ds.Categories))
	for _, c := range ds.Categories {
		aggPcts[c.ID] = schema.Round1(schema.Share(totals[c.ID], grand))
	}

	categories := make([]schema.CategoryDescriptor, len(ds.Categories))
	copy(categories, ds.Categories)

	return &schema.DerivedView{
		Dataset:      ds.ID,
		Title:        ds.Title,
		Periods:      periods,
		SeriesValues: series,
		Breakdown:    breakdown,
		Aggregate: schema.Aggregate{
			TotalsByCategory:      totals,
			PercentagesByCategory: aggPcts,
			GrandTotal:            grand,
		},
		DateRange: schema.DateRange{
			Start: ds.Periods[start],
			End:   ds.Periods[end],
			Full:  schema.RangeLabel(ds.Periods[start], ds.Periods[end]),
		},
		StartIndex:  start,
		EndIndex:    end,
		DisplayMode: p.DisplayMode,
		Visibility:  p.Clone().Visibility,
		Categories:  categories,
	}
}

// DefaultParams returns the initial parameters: full range, counts, every category visible.
func DefaultParams(ds *schema.Dataset) schema.FilterParameters {
	vis := make(map[schema.CategoryID]bool, len(ds.Categories))
	for _, c := range ds.Categories {
		vis[c.ID] = true
	}
	return schema.FilterParameters{
		StartIndex:  0,
		EndIndex:    ds.Len() - 1,
		DisplayMode: schema.CountsMode,
		Visibility:  vis,
	}
}
