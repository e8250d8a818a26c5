// Package core has the filtered data store: the single source of truth for a dataset's
// date window, display mode and category visibility, and the derived view computed from them.
package core

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/huangsam/casewatch/schema"
)

// Store owns the filter parameters of one dataset and publishes a new DerivedView
// after every successful mutation.
//
// Mutations are serialized. Observers run on the mutating goroutine after the
// parameters are released, in mutation order. An observer may read Params and View
// but must not call a mutator synchronously.
type Store struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	ds        *schema.Dataset
	params    schema.FilterParameters
	view      atomic.Pointer[schema.DerivedView]
	observers observerRegistry
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for mutation debug logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore validates ds and returns a store with default parameters.
// The dataset must not be modified afterwards.
func NewStore(ds *schema.Dataset, opts ...Option) (*Store, error) {
	if err := ValidateDataset(ds); err != nil {
		return nil, err
	}
	s := &Store{
		ds:     ds,
		params: DefaultParams(ds),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.view.Store(ComputeView(s.ds, s.params))
	return s, nil
}

// Dataset returns the dataset backing the store.
func (s *Store) Dataset() *schema.Dataset {
	return s.ds
}

// ID returns the dataset id.
func (s *Store) ID() schema.DatasetID {
	return s.ds.ID
}

// View returns the current derived view without recomputing it.
func (s *Store) View() *schema.DerivedView {
	return s.view.Load()
}

// Params returns a copy of the current filter parameters.
func (s *Store) Params() schema.FilterParameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Clone()
}

// Subscribe registers obs for every future view. Registrations are independent:
// the same function subscribed twice is called twice.
func (s *Store) Subscribe(obs Observer) Unsubscribe {
	return s.observers.add(obs)
}

// SubscriberCount returns the number of active registrations.
func (s *Store) SubscriberCount() int {
	return s.observers.len()
}

// SetDateRange selects the inclusive window [start, end]. Bounds are never reordered.
func (s *Store) SetDateRange(start, end int) (*schema.DerivedView, error) {
	n := s.ds.Len()
	if start < 0 || end < start || end > n-1 {
		s.logger.Debug("rejected date range", "dataset", s.ds.ID, "start", start, "end", end)
		return nil, &InvalidRangeError{Start: start, End: end, Len: n}
	}
	return s.mutate("date_range", func(p *schema.FilterParameters) {
		p.StartIndex, p.EndIndex = start, end
	}), nil
}

// ResetDateRange selects the full period range.
func (s *Store) ResetDateRange() *schema.DerivedView {
	last := s.ds.Len() - 1
	return s.mutate("reset", func(p *schema.FilterParameters) {
		p.StartIndex, p.EndIndex = 0, last
	})
}

// SetDisplayMode changes the display hint. Subscribers are notified even when the mode is unchanged.
func (s *Store) SetDisplayMode(mode schema.DisplayMode) (*schema.DerivedView, error) {
	if _, ok := schema.ValidDisplayModes[mode]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDisplayMode, mode)
	}
	return s.mutate("display_mode", func(p *schema.FilterParameters) {
		p.DisplayMode = mode
	}), nil
}

// SetCategoryVisibility shows or hides one category. Hidden categories keep their numbers.
func (s *Store) SetCategoryVisibility(id schema.CategoryID, visible bool) (*schema.DerivedView, error) {
	if _, ok := s.ds.Category(id); !ok {
		s.logger.Debug("rejected visibility", "dataset", s.ds.ID, "category", id)
		return nil, &UnknownCategoryError{Category: id}
	}
	return s.mutate("visibility", func(p *schema.FilterParameters) {
		p.Visibility[id] = visible
	}), nil
}

// mutate applies fn to the parameters, recomputes and publishes under the lock,
// then notifies holding only notifyMu.
func (s *Store) mutate(what string, fn func(*schema.FilterParameters)) *schema.DerivedView {
	s.mu.Lock()
	fn(&s.params)
	view := ComputeView(s.ds, s.params)
	s.view.Store(view)
	s.logger.Debug("store updated",
		"dataset", s.ds.ID,
		"change", what,
		"range", view.DateRange.Full,
		"mode", view.DisplayMode,
		"grand_total", view.Aggregate.GrandTotal)
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	s.observers.notify(view)
	return view
}
