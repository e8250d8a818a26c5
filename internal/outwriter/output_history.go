package outwriter

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/schema"
)

// PrintHistoryStatus writes the export history status to stdout or the output file.
func PrintHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteHistoryStatus(w, status, cfg)
	}, "Wrote history status")
}

// WriteHistoryStatus writes status information about the export history.
func WriteHistoryStatus(w io.Writer, status schema.HistoryStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeJSON(w, status)
	}

	lines := []string{
		fmt.Sprintf("History Backend: %s", status.Backend),
		fmt.Sprintf("Connected: %t", status.Connected),
	}
	if status.Connected {
		lines = append(lines, fmt.Sprintf("Total Runs: %d", status.TotalRuns))
		if status.TotalRuns > 0 {
			lines = append(lines,
				fmt.Sprintf("Last Run ID: %d", status.LastRunID),
				fmt.Sprintf("Last Run: %s", status.LastRunTime.Format("2006-01-02 15:04:05")),
				fmt.Sprintf("Oldest Run: %s", status.OldestRunTime.Format("2006-01-02 15:04:05")),
			)
		}
		lines = append(lines, "Table Sizes:")
		tables := make([]string, 0, len(status.TableSizes))
		for table := range status.TableSizes {
			tables = append(tables, table)
		}
		slices.Sort(tables)
		for _, table := range tables {
			lines = append(lines, fmt.Sprintf("  %s: %d rows", table, status.TableSizes[table]))
		}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
