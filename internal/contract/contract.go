// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"github.com/huangsam/casewatch/schema"
)

// HistoryManager defines the interface for reaching the export history.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for recording exports of derived views.
type HistoryStore interface {
	// RecordRun stores one export together with its per-category totals and returns the run ID
	RecordRun(run schema.ExportRun) (int64, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded export ordered by run ID
	GetAllRuns() ([]schema.ExportRunRecord, error)

	// GetAllCategoryTotals returns every recorded category total ordered by run ID
	GetAllCategoryTotals() ([]schema.CategoryTotalRecord, error)

	// Close closes the underlying connection
	Close() error
}
