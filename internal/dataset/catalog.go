package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/casewatch/schema"
)

// Catalog is an ordered set of datasets addressable by id.
type Catalog struct {
	datasets []*schema.Dataset
}

// Builtin returns a catalog with the investigation and screening datasets.
func Builtin() *Catalog {
	return &Catalog{datasets: []*schema.Dataset{Investigation(), Screening()}}
}

// Put adds ds, replacing any dataset with the same id.
func (c *Catalog) Put(ds *schema.Dataset) {
	for i, existing := range c.datasets {
		if existing.ID == ds.ID {
			c.datasets[i] = ds
			return
		}
	}
	c.datasets = append(c.datasets, ds)
}

// Lookup returns the dataset with the given id.
func (c *Catalog) Lookup(id schema.DatasetID) (*schema.Dataset, error) {
	for _, ds := range c.datasets {
		if ds.ID == id {
			return ds, nil
		}
	}
	return nil, fmt.Errorf("unknown dataset %q (available: %s)", id, strings.Join(c.idStrings(), ", "))
}

// List returns every dataset in insertion order.
func (c *Catalog) List() []*schema.Dataset {
	out := make([]*schema.Dataset, len(c.datasets))
	copy(out, c.datasets)
	return out
}

// IDs returns the dataset ids in insertion order.
func (c *Catalog) IDs() []schema.DatasetID {
	ids := make([]schema.DatasetID, len(c.datasets))
	for i, ds := range c.datasets {
		ids[i] = ds.ID
	}
	return ids
}

func (c *Catalog) idStrings() []string {
	out := make([]string, len(c.datasets))
	for i, ds := range c.datasets {
		out[i] = string(ds.ID)
	}
	return out
}

// ResolvePeriod turns a period label ("Jul 21", case-insensitive) or a zero-based index into an index.
func ResolvePeriod(ds *schema.Dataset, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty period")
	}
	for i, p := range ds.Periods {
		if strings.EqualFold(p, s) {
			return i, nil
		}
	}
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unknown period %q for dataset %q", s, ds.ID)
	}
	if idx < 0 || idx >= ds.Len() {
		return 0, fmt.Errorf("period index %d out of range [0, %d]", idx, ds.Len()-1)
	}
	return idx, nil
}

// ResolveCategory matches a category id or display name, case-insensitively.
func ResolveCategory(ds *schema.Dataset, s string) (schema.CategoryID, bool) {
	s = strings.TrimSpace(s)
	for _, c := range ds.Categories {
		if strings.EqualFold(string(c.ID), s) || strings.EqualFold(c.DisplayName, s) {
			return c.ID, true
		}
	}
	return schema.CategoryID(s), false
}
