package table

import (
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/bindparty/observe"
)

// Snapshot is the set of model items selected before a rebuild. Items are
// remembered by identity, not row index, since indices shift.
type Snapshot struct {
	selected mapset.Set[any]
	// uncomparable items cannot live in a set and are matched by equality.
	uncomparable []any
}

// Capture reads back the payload of every selected row.
func Capture(w Widget) *Snapshot {
	s := &Snapshot{selected: mapset.NewThreadUnsafeSet[any]()}
	for _, row := range w.Selection() {
		s.add(w.Data(row))
	}
	return s
}

func (s *Snapshot) add(item any) {
	if item == nil {
		return
	}
	if reflect.TypeOf(item).Comparable() {
		s.selected.Add(item)
		return
	}
	s.uncomparable = append(s.uncomparable, item)
}

// Contains reports whether item was selected.
func (s *Snapshot) Contains(item any) bool {
	if item == nil {
		return false
	}
	if reflect.TypeOf(item).Comparable() {
		return s.selected.Contains(item)
	}
	for _, u := range s.uncomparable {
		if observe.Equal(u, item) {
			return true
		}
	}
	return false
}

// Len is the number of remembered items.
func (s *Snapshot) Len() int {
	return s.selected.Cardinality() + len(s.uncomparable)
}

// Match returns the rows whose item was selected; rows[i] renders items[i].
func (s *Snapshot) Match(rows []Row, items []any) []Row {
	var out []Row
	for i, row := range rows {
		if s.Contains(items[i]) {
			out = append(out, row)
		}
	}
	return out
}
