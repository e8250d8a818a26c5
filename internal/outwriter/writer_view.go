package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/huangsam/casewatch/schema"
)

// writeJSONResultsForView marshals the schema.DerivedView to JSON and writes it.
func writeJSONResultsForView(w io.Writer, v *schema.DerivedView) error {
	return writeJSON(w, v)
}

// writeCSVResultsForView writes one row per period and category.
// Every category is written; the visible column carries the hint.
func writeCSVResultsForView(w io.Writer, v *schema.DerivedView, fmtFloat func(float64) string) error {
	header := []string{
		"period",
		"category",
		"display_name",
		"count",
		"period_total",
		"period_share",
		"visible",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, b := range v.Breakdown {
			for _, c := range v.Categories {
				row := []string{
					b.Period,
					string(c.ID),
					c.DisplayName,
					strconv.FormatInt(b.Counts[c.ID], 10),
					strconv.FormatInt(b.Total, 10),
					fmtFloat(b.Percentages[c.ID]),
					strconv.FormatBool(v.Visibility[c.ID]),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
