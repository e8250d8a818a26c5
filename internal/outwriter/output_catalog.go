package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// datasetSummary is the JSON and CSV shape of one catalog entry.
type datasetSummary struct {
	ID          schema.DatasetID `json:"id"`
	Title       string           `json:"title"`
	Periods     int              `json:"periods"`
	FirstPeriod string           `json:"first_period"`
	LastPeriod  string           `json:"last_period"`
	Categories  []string         `json:"categories"`
}

func summarizeDatasets(datasets []*schema.Dataset) []datasetSummary {
	out := make([]datasetSummary, 0, len(datasets))
	for _, ds := range datasets {
		s := datasetSummary{ID: ds.ID, Title: ds.Title, Periods: ds.Len()}
		if ds.Len() > 0 {
			s.FirstPeriod, s.LastPeriod = ds.Periods[0], ds.Periods[ds.Len()-1]
		}
		for _, c := range ds.Categories {
			s.Categories = append(s.Categories, c.DisplayName)
		}
		out = append(out, s)
	}
	return out
}

// PrintDatasets opens the configured destination and writes the catalog to it.
func PrintDatasets(datasets []*schema.Dataset, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteDatasetResults(w, datasets, cfg)
	}, fmt.Sprintf("Wrote %s datasets", cfg.Output))
}

// WriteDatasetResults outputs the catalog, dispatching based on the output format configured.
func WriteDatasetResults(w io.Writer, datasets []*schema.Dataset, cfg *contract.Config) error {
	summaries := summarizeDatasets(datasets)

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, summaries)
	case schema.CSVOut:
		header := []string{"id", "title", "periods", "first_period", "last_period", "categories"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, s := range summaries {
				if err := cw.Write([]string{
					string(s.ID), s.Title, strconv.Itoa(s.Periods), s.FirstPeriod, s.LastPeriod, strings.Join(s.Categories, "|"),
				}); err != nil {
					return err
				}
			}
			return nil
		})
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not available for the dataset catalog")
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"ID", "Title", "Periods", "Range", "Categories"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	data := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		data = append(data, []string{
			string(s.ID),
			s.Title,
			strconv.Itoa(s.Periods),
			schema.RangeLabel(s.FirstPeriod, s.LastPeriod),
			strings.Join(s.Categories, ", "),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
