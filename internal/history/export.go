package history

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/internal/parquet"
)

// ExecuteHistoryExport writes every recorded run and category total to Parquet files
// named after outputFile, reporting progress to w.
func ExecuteHistoryExport(w io.Writer, mgr contract.HistoryManager, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := mgr.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no export history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total export runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total category records: %d\n", status.TableSizes[categoryTotalsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve export runs: %w", err)
	}
	totals, err := store.GetAllCategoryTotals()
	if err != nil {
		return fmt.Errorf("failed to retrieve category totals: %w", err)
	}

	parquetRuns := parquet.ConvertExportRunRecords(runs)
	runsFile := outputFile + ".export_runs.parquet"
	if err := parquet.WriteExportRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write export runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d export runs to: %s\n", len(parquetRuns), runsFile)

	parquetTotals := parquet.ConvertCategoryTotalRecords(totals)
	totalsFile := outputFile + ".category_totals.parquet"
	if err := parquet.WriteCategoryTotalsParquet(parquetTotals, totalsFile); err != nil {
		return fmt.Errorf("failed to write category totals: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d category totals to: %s\n", len(parquetTotals), totalsFile)

	return nil
}
