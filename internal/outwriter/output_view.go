package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/internal/parquet"
	"github.com/huangsam/casewatch/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintView opens the configured destination and writes the view to it.
func PrintView(v *schema.DerivedView, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteViewResults(w, v, cfg)
	}, fmt.Sprintf("Wrote %s view", cfg.Output))
}

// WriteViewResults outputs the view, dispatching based on the output format configured.
func WriteViewResults(w io.Writer, v *schema.DerivedView, cfg *contract.Config) error {
	fmtFloat, fmtPercent := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSONResultsForView(w, v); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVResultsForView(w, v, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteRows(w, parquet.ConvertView(v)); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable tables
		return writeViewTable(w, v, cfg, fmtPercent)
	}
	return nil
}

// writeViewTable writes the per-period table followed by the aggregate table.
// Hidden categories are left out of both.
func writeViewTable(w io.Writer, v *schema.DerivedView, cfg *contract.Config, fmtPercent func(float64) string) error {
	title := fmt.Sprintf("%s (%s)", v.Title, v.DateRange.Full)
	if cfg.UseEmojis {
		title = "📊 " + title
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	visible := v.VisibleCategories()
	if len(visible) == 0 {
		_, err := fmt.Fprintln(w, "No categories are visible. Use --hide with fewer categories or show one in a session.")
		return err
	}

	if err := writePeriodTable(w, v, visible, cfg, fmtPercent); err != nil {
		return err
	}
	if err := writeAggregateTable(w, v, visible, cfg, fmtPercent); err != nil {
		return err
	}

	var footer strings.Builder
	fmt.Fprintf(&footer, "Grand total: %s across %d period(s). Mode: %s.", fmtCount(v.Aggregate.GrandTotal), v.Len(), v.DisplayMode)
	if hidden := hiddenNames(v); len(hidden) > 0 {
		fmt.Fprintf(&footer, " Hidden: %s.", strings.Join(hidden, ", "))
	}
	_, err := fmt.Fprintln(w, footer.String())
	return err
}

// writePeriodTable renders one row per period with a column per visible category.
func writePeriodTable(w io.Writer, v *schema.DerivedView, visible []schema.CategoryDescriptor, cfg *contract.Config, fmtPercent func(float64) string) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	labelWidth := GetMaxTableLabelWidth(cfg, len(visible))
	headers := []string{"Period"}
	for _, c := range visible {
		headers = append(headers, contract.TruncateText(c.DisplayName, labelWidth))
	}
	headers = append(headers, "Total")
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(v.Breakdown))
	for _, b := range v.Breakdown {
		row := []string{b.Period}
		for _, c := range visible {
			if v.DisplayMode == schema.PercentagesMode {
				row = append(row, fmtPercent(b.Percentages[c.ID]))
			} else {
				row = append(row, fmtCount(b.Counts[c.ID]))
			}
		}
		row = append(row, fmtCount(b.Total))
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeAggregateTable renders the window totals of the visible categories.
func writeAggregateTable(w io.Writer, v *schema.DerivedView, visible []schema.CategoryDescriptor, cfg *contract.Config, fmtPercent func(float64) string) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Category", "Total", "Share", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(visible))
	for _, c := range visible {
		pct := v.Aggregate.PercentagesByCategory[c.ID]
		label := contract.GetPlainLabel(pct)
		if cfg.UseColors {
			label = contract.GetColorLabel(pct)
		}
		data = append(data, []string{
			c.DisplayName,
			fmtCount(v.Aggregate.TotalsByCategory[c.ID]),
			fmtPercent(pct),
			label,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func hiddenNames(v *schema.DerivedView) []string {
	var names []string
	for _, c := range v.Categories {
		if !v.Visibility[c.ID] {
			names = append(names, c.DisplayName)
		}
	}
	return names
}
