package core

import (
	"errors"
	"fmt"

	"github.com/huangsam/casewatch/schema"
)

// Sentinel errors returned (possibly wrapped) by the store.
var (
	ErrInvalidRange       = errors.New("invalid date range")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrInvalidDisplayMode = errors.New("invalid display mode")
	ErrInvalidDataset     = errors.New("invalid dataset")
)

// InvalidRangeError reports a date window outside 0 <= start <= end <= len-1.
type InvalidRangeError struct {
	Start int
	End   int
	Len   int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%v: start=%d end=%d (periods=%d)", ErrInvalidRange, e.Start, e.End, e.Len)
}

// Is makes errors.Is(err, ErrInvalidRange) succeed.
func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// UnknownCategoryError reports a category id that is not in the registry.
type UnknownCategoryError struct {
	Category schema.CategoryID
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownCategory, e.Category)
}

// Is makes errors.Is(err, ErrUnknownCategory) succeed.
func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrUnknownCategory
}

// invalidDataset wraps ErrInvalidDataset with a formatted reason.
func invalidDataset(id schema.DatasetID, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidDataset, id, fmt.Sprintf(format, args...))
}
