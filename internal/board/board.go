// Package board wires one filtered data store per dataset.
package board

import (
	"fmt"
	"log/slog"

	"github.com/huangsam/casewatch/core"
	"github.com/huangsam/casewatch/internal/dataset"
	"github.com/huangsam/casewatch/schema"
)

// Board owns the stores of every dataset in a catalog. It is built once at startup
// and handed to the CLI, the console and the MCP server.
type Board struct {
	catalog *dataset.Catalog
	stores  map[schema.DatasetID]*core.Store
	order   []schema.DatasetID
}

// New builds a store for every dataset in catalog.
func New(catalog *dataset.Catalog, logger *slog.Logger) (*Board, error) {
	b := &Board{
		catalog: catalog,
		stores:  make(map[schema.DatasetID]*core.Store),
	}
	for _, ds := range catalog.List() {
		store, err := core.NewStore(ds, core.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create store for %s: %w", ds.ID, err)
		}
		b.stores[ds.ID] = store
		b.order = append(b.order, ds.ID)
	}
	return b, nil
}

// Store returns the store for id.
func (b *Board) Store(id schema.DatasetID) (*core.Store, error) {
	store, ok := b.stores[id]
	if !ok {
		_, err := b.catalog.Lookup(id)
		if err == nil {
			err = fmt.Errorf("no store for dataset %q", id)
		}
		return nil, err
	}
	return store, nil
}

// Investigation returns the investigation store, if the catalog has it.
func (b *Board) Investigation() (*core.Store, error) {
	return b.Store(schema.InvestigationDataset)
}

// Screening returns the screening store, if the catalog has it.
func (b *Board) Screening() (*core.Store, error) {
	return b.Store(schema.ScreeningDataset)
}

// IDs returns the dataset ids in catalog order.
func (b *Board) IDs() []schema.DatasetID {
	out := make([]schema.DatasetID, len(b.order))
	copy(out, b.order)
	return out
}

// Stores returns every store in catalog order.
func (b *Board) Stores() []*core.Store {
	out := make([]*core.Store, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.stores[id])
	}
	return out
}
