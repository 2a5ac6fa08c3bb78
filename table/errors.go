package table

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnPropertyMissing is matched by every *ColumnPropertyMissingError.
	ErrColumnPropertyMissing = errors.New("table: column property missing")
	ErrNoColumns             = errors.New("table: at least one column property required")
	ErrNilWidget             = errors.New("table: nil widget")
	ErrNilModel              = errors.New("table: nil model binding")
	ErrNotCollection         = errors.New("table: model value is not a collection")
)

// ColumnPropertyMissingError reports an item that cannot supply a column.
type ColumnPropertyMissingError struct {
	Column string
	Index  int
	Item   any
}

func (e *ColumnPropertyMissingError) Error() string {
	return fmt.Sprintf("table: item %d (%T) has no property %q", e.Index, e.Item, e.Column)
}

func (e *ColumnPropertyMissingError) Is(target error) bool {
	return target == ErrColumnPropertyMissing
}
