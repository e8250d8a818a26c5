// Package parquet provides data structures and functions for exporting casewatch
// views and export history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/casewatch/schema"
	"github.com/parquet-go/parquet-go"
)

// ViewRow is one (period, category) cell of a derived view.
type ViewRow struct {
	// Dataset is the id of the dataset the view was computed from
	Dataset string `parquet:"dataset,snappy,dict"`

	// PeriodIndex is the absolute index of the period in the full dataset
	PeriodIndex int32 `parquet:"period_index,snappy"`

	// Period is the period label, e.g. "Jul 21"
	Period string `parquet:"period,snappy,dict"`

	// Category is the category id
	Category string `parquet:"category,snappy,dict"`

	// DisplayName is the human readable category name
	DisplayName string `parquet:"display_name,snappy,dict"`

	// Count is the raw count of the category in the period
	Count int64 `parquet:"count,snappy"`

	// PeriodTotal is the sum of all categories in the period
	PeriodTotal int64 `parquet:"period_total,snappy"`

	// PeriodShare is the full precision share of the category within the period
	PeriodShare float64 `parquet:"period_share,snappy"`

	// Visible is the visibility hint at export time
	Visible bool `parquet:"visible,snappy"`
}

// ExportRun represents a single recorded export.
// This struct maps to the casewatch_export_runs database table.
type ExportRun struct {
	// RunID is the sequential identifier of the export
	RunID int64 `parquet:"run_id,snappy"`

	// RunUID is the globally unique identifier of the export
	RunUID string `parquet:"run_uid,snappy"`

	// Dataset is the exported dataset id
	Dataset string `parquet:"dataset,snappy,dict"`

	// StartLabel and EndLabel bound the exported window
	StartLabel string `parquet:"start_label,snappy"`
	EndLabel   string `parquet:"end_label,snappy"`

	// DisplayMode is the presentation hint at export time
	DisplayMode string `parquet:"display_mode,snappy,dict"`

	// Output is the kind of artifact that was written
	Output string `parquet:"output,snappy,dict"`

	// GrandTotal is the window total over all categories
	GrandTotal int64 `parquet:"grand_total,snappy"`

	// CreatedAt is when the export happened (stored as TIMESTAMP with nanosecond precision)
	CreatedAt time.Time `parquet:"created_at,snappy"`
}

// CategoryTotal represents the aggregate of one category in a recorded export.
// This struct maps to the casewatch_category_totals database table.
type CategoryTotal struct {
	RunID      int64   `parquet:"run_id,snappy"`
	Category   string  `parquet:"category,snappy,dict"`
	Total      int64   `parquet:"total,snappy"`
	Percentage float64 `parquet:"percentage,snappy"`
	Visible    bool    `parquet:"visible,snappy"`
}

// WriteRows writes rows to w using the schema inferred from the struct tags of T.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteViewParquet writes the cells of a view to a Parquet file.
func WriteViewParquet(data []ViewRow, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteExportRunsParquet writes a slice of ExportRun structs to a Parquet file.
func WriteExportRunsParquet(data []ExportRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteCategoryTotalsParquet writes a slice of CategoryTotal structs to a Parquet file.
func WriteCategoryTotalsParquet(data []CategoryTotal, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertView flattens a view into one row per period and category, in period then registry order.
func ConvertView(v *schema.DerivedView) []ViewRow {
	rows := make([]ViewRow, 0, v.Len()*len(v.Categories))
	for i, b := range v.Breakdown {
		for _, c := range v.Categories {
			rows = append(rows, ViewRow{
				Dataset:     string(v.Dataset),
				PeriodIndex: int32(v.StartIndex + i),
				Period:      b.Period,
				Category:    string(c.ID),
				DisplayName: c.DisplayName,
				Count:       b.Counts[c.ID],
				PeriodTotal: b.Total,
				PeriodShare: b.Percentages[c.ID],
				Visible:     v.Visibility[c.ID],
			})
		}
	}
	return rows
}

// ConvertExportRunRecords converts schema.ExportRunRecord to ExportRun for Parquet export.
func ConvertExportRunRecords(records []schema.ExportRunRecord) []ExportRun {
	result := make([]ExportRun, len(records))
	for i, record := range records {
		result[i] = ExportRun{
			RunID:       record.RunID,
			RunUID:      record.RunUID,
			Dataset:     record.Dataset,
			StartLabel:  record.StartLabel,
			EndLabel:    record.EndLabel,
			DisplayMode: record.DisplayMode,
			Output:      record.Output,
			GrandTotal:  record.GrandTotal,
			CreatedAt:   record.CreatedAt,
		}
	}
	return result
}

// ConvertCategoryTotalRecords converts schema.CategoryTotalRecord to CategoryTotal for Parquet export.
func ConvertCategoryTotalRecords(records []schema.CategoryTotalRecord) []CategoryTotal {
	result := make([]CategoryTotal, len(records))
	for i, record := range records {
		result[i] = CategoryTotal(record)
	}
	return result
}
