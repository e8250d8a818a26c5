// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/casewatch/internal/contract"
	"github.com/huangsam/casewatch/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteView prints a derived view using the configured output format.
func (ow *OutWriter) WriteView(v *schema.DerivedView, cfg *contract.Config) error {
	return PrintView(v, cfg)
}

// WriteInsights prints the insight report of a view using the configured output format.
func (ow *OutWriter) WriteInsights(v *schema.DerivedView, report schema.InsightReport, cfg *contract.Config) error {
	return PrintInsights(v, report, cfg)
}

// WriteDatasets prints the dataset catalog using the configured output format.
func (ow *OutWriter) WriteDatasets(datasets []*schema.Dataset, cfg *contract.Config) error {
	return PrintDatasets(datasets, cfg)
}

// WriteHistoryStatus prints the state of the export history using the configured output format.
func (ow *OutWriter) WriteHistoryStatus(status schema.HistoryStatus, cfg *contract.Config) error {
	return PrintHistoryStatus(status, cfg)
}
