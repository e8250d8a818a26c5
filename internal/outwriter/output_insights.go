package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintInsights opens the configured destination and writes the insight report to it.
func PrintInsights(v *schema.DerivedView, report schema.InsightReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteInsightResults(w, v, report, cfg)
	}, fmt.Sprintf("Wrote %s insights", cfg.Output))
}

// WriteInsightResults outputs the insight report, dispatching based on the output format configured.
// CSV output lists the anomalies only.
func WriteInsightResults(w io.Writer, v *schema.DerivedView, report schema.InsightReport, cfg *contract.Config) error {
	fmtFloat, fmtPercent := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, report); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVAnomalies(w, report.Anomalies, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not available for insights")
	default:
		return writeInsightText(w, v, report, cfg, fmtFloat, fmtPercent)
	}
	return nil
}

func writeInsightText(w io.Writer, v *schema.DerivedView, report schema.InsightReport, cfg *contract.Config, fmtFloat, fmtPercent func(float64) string) error {
	title := fmt.Sprintf("Insights for %s (%s)", v.Title, report.DateRange.Full)
	if cfg.UseEmojis {
		title = "💡 " + title
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	if len(report.Insights) == 0 {
		if _, err := fmt.Fprintln(w, "  No notable patterns in the selected range."); err != nil {
			return err
		}
	}
	for _, in := range report.Insights {
		tag := fmt.Sprintf("[%s]", in.Severity)
		if cfg.UseColors {
			tag = contract.GetSeverityColor(in.Severity).Sprint(tag)
		}
		if _, err := fmt.Fprintf(w, "  %s %s: %s\n", tag, in.Title, in.Text); err != nil {
			return err
		}
	}

	if err := writeTrendTable(w, v, report, fmtPercent); err != nil {
		return err
	}

	if len(report.Anomalies) == 0 {
		_, err := fmt.Fprintln(w, "No significant anomalies were detected.")
		return err
	}
	return writeAnomalyTable(w, v, report.Anomalies, fmtFloat)
}

// writeTrendTable renders extremes and growth per category.
func writeTrendTable(w io.Writer, v *schema.DerivedView, report schema.InsightReport, fmtPercent func(float64) string) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Category", "Peak", "Low", "Top Share", "Change"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	growth := make(map[schema.CategoryID]schema.Growth, len(report.Growth))
	for _, g := range report.Growth {
		growth[g.Category] = g
	}

	data := make([][]string, 0, len(report.Extremes))
	for _, e := range report.Extremes {
		change := "n/a"
		if g, ok := growth[e.Category]; ok && g.Defined {
			change = fmt.Sprintf("%+.0f%%", g.Percent)
		}
		data = append(data, []string{
			displayName(v, e.Category),
			fmt.Sprintf("%s (%s)", fmtCount(e.MaxValue), e.MaxPeriod),
			fmt.Sprintf("%s (%s)", fmtCount(e.MinValue), e.MinPeriod),
			fmt.Sprintf("%s (%s)", fmtPercent(e.TopSharePercent), e.TopSharePeriod),
			change,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeAnomalyTable(w io.Writer, v *schema.DerivedView, anomalies []schema.Anomaly, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Period", "Category", "Value", "Expected", "Z-Score", "Kind"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(anomalies))
	for _, a := range anomalies {
		data = append(data, []string{
			a.Period,
			displayName(v, a.Category),
			fmtCount(a.Value),
			fmtCount(a.Expected),
			fmtFloat(a.ZScore),
			string(a.Kind),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVAnomalies writes the anomaly list as CSV.
func writeCSVAnomalies(w io.Writer, anomalies []schema.Anomaly, fmtFloat func(float64) string) error {
	header := []string{"period", "category", "value", "expected", "z_score", "kind"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, a := range anomalies {
			row := []string{
				a.Period,
				string(a.Category),
				strconv.FormatInt(a.Value, 10),
				strconv.FormatInt(a.Expected, 10),
				fmtFloat(a.ZScore),
				string(a.Kind),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func displayName(v *schema.DerivedView, id schema.CategoryID) string {
	for _, c := range v.Categories {
		if c.ID == id {
			return c.DisplayName
		}
	}
	return string(id)
}
