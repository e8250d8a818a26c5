package schema

import "time"

// HistoryStatus represents the status of the export history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// ExportRun describes one export of a derived view.
type ExportRun struct {
	Dataset     DatasetID
	StartLabel  string
	EndLabel    string
	DisplayMode DisplayMode
	Output      string
	GrandTotal  int64
	Totals      []CategoryTotal
}

// CategoryTotal is the per-category aggregate recorded with an export run.
type CategoryTotal struct {
	Category   CategoryID
	Total      int64
	Percentage float64
	Visible    bool
}

// ExportRunRecord represents a row from the casewatch_export_runs table.
type ExportRunRecord struct {
	RunID       int64
	RunUID      string
	Dataset     string
	StartLabel  string
	EndLabel    string
	DisplayMode string
	Output      string
	GrandTotal  int64
	CreatedAt   time.Time
}

// CategoryTotalRecord represents a row from the casewatch_category_totals table.
type CategoryTotalRecord struct {
	RunID      int64
	Category   string
	Total      int64
	Percentage float64
	Visible    bool
}

// NewExportRun builds the history entry for a view.
func NewExportRun(v *DerivedView, output string) ExportRun {
	run := ExportRun{
		Dataset:     v.Dataset,
		StartLabel:  v.DateRange.Start,
		EndLabel:    v.DateRange.End,
		DisplayMode: v.DisplayMode,
		Output:      output,
		GrandTotal:  v.Aggregate.GrandTotal,
	}
	for _, c := range v.Categories {
		run.Totals = append(run.Totals, CategoryTotal{
			Category:   c.ID,
			Total:      v.Aggregate.TotalsByCategory[c.ID],
			Percentage: v.Aggregate.PercentagesByCategory[c.ID],
			Visible:    v.Visibility[c.ID],
		})
	}
	return run
}
