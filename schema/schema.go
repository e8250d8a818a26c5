// Package schema holds the data types shared by the store, its consumers and the CLI.
package schema

// CategoryID identifies one series inside a dataset, e.g. "screenIn".
type CategoryID string

// CategoryDescriptor is the fixed metadata for one category.
type CategoryDescriptor struct {
	ID          CategoryID `json:"id" yaml:"id" toml:"id"`
	DisplayName string     `json:"display_name" yaml:"display_name" toml:"display_name"`
	Color       string     `json:"color" yaml:"color" toml:"color"`
}

// RawSeries is the immutable input of a store: period labels plus one count series per category.
type RawSeries struct {
	Periods []string               `json:"periods" yaml:"periods" toml:"periods"`
	Series  map[CategoryID][]int64 `json:"series" yaml:"series" toml:"series"`
}

// Dataset bundles a RawSeries with its ordered category registry.
type Dataset struct {
	ID         DatasetID            `json:"id" yaml:"id" toml:"id"`
	Title      string               `json:"title" yaml:"title" toml:"title"`
	Categories []CategoryDescriptor `json:"categories" yaml:"categories" toml:"categories"`
	RawSeries  `yaml:",inline"`
}

// Len returns the number of periods in the dataset.
func (d *Dataset) Len() int {
	return len(d.Periods)
}

// CategoryIDs returns the registry ids in declaration order.
func (d *Dataset) CategoryIDs() []CategoryID {
	ids := make([]CategoryID, len(d.Categories))
	for i, c := range d.Categories {
		ids[i] = c.ID
	}
	return ids
}

// Category looks up a descriptor by id.
func (d *Dataset) Category(id CategoryID) (CategoryDescriptor, bool) {
	for _, c := range d.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return CategoryDescriptor{}, false
}

// FilterParameters is the mutable state owned by a store.
type FilterParameters struct {
	StartIndex  int                 `json:"start_index"`
	EndIndex    int                 `json:"end_index"`
	DisplayMode DisplayMode         `json:"display_mode"`
	Visibility  map[CategoryID]bool `json:"visibility"`
}

// Clone returns a deep copy of the parameters.
func (p FilterParameters) Clone() FilterParameters {
	vis := make(map[CategoryID]bool, len(p.Visibility))
	for k, v := range p.Visibility {
		vis[k] = v
	}
	p.Visibility = vis
	return p
}

// PeriodBreakdown holds the per-category counts of one period in the window.
// Percentages are kept at full precision.
type PeriodBreakdown struct {
	Period      string                 `json:"period"`
	Counts      map[CategoryID]int64   `json:"counts"`
	Total       int64                  `json:"total"`
	Percentages map[CategoryID]float64 `json:"percentages"`
}

// Aggregate holds the window totals. Percentages are rounded to one decimal.
type Aggregate struct {
	TotalsByCategory      map[CategoryID]int64   `json:"totals_by_category"`
	PercentagesByCategory map[CategoryID]float64 `json:"percentages_by_category"`
	GrandTotal            int64                  `json:"grand_total"`
}

// DateRange is the label form of the selected window.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Full  string `json:"full"`
}

// DerivedView is the computed snapshot handed to subscribers.
// A view is never mutated after it has been published.
type DerivedView struct {
	Dataset      DatasetID              `json:"dataset"`
	Title        string                 `json:"title"`
	Periods      []string               `json:"periods"`
	SeriesValues map[CategoryID][]int64 `json:"series_values"`
	Breakdown    []PeriodBreakdown      `json:"breakdown"`
	Aggregate    Aggregate              `json:"aggregate"`
	DateRange    DateRange              `json:"date_range"`
	StartIndex   int                    `json:"start_index"`
	EndIndex     int                    `json:"end_index"`

	// Presentation hints; they never change the numbers above.
	DisplayMode DisplayMode          `json:"display_mode"`
	Visibility  map[CategoryID]bool  `json:"visibility"`
	Categories  []CategoryDescriptor `json:"categories"`
}

// VisibleCategories returns the registry entries currently marked visible, in order.
func (v *DerivedView) VisibleCategories() []CategoryDescriptor {
	out := make([]CategoryDescriptor, 0, len(v.Categories))
	for _, c := range v.Categories {
		if v.Visibility[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of periods in the window.
func (v *DerivedView) Len() int {
	return len(v.Periods)
}
