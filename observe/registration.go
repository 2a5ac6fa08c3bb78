package observe

import (
	"fmt"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
)

// ChangeKind distinguishes what happened to an observed property.
type ChangeKind uint8

const (
	// ValueChanged means the property now holds a different value.
	ValueChanged ChangeKind = iota
	// MembershipChanged means a collection gained, lost or reordered members.
	MembershipChanged
	// ItemChanged means a property of one collection member changed.
	ItemChanged
)

func (k ChangeKind) String() string {
	switch k {
	case ValueChanged:
		return "value"
	case MembershipChanged:
		return "membership"
	case ItemChanged:
		return "item"
	default:
		return "unknown"
	}
}

// Change is what observers receive.
type Change struct {
	Subject Subject
	Path    string
	Kind    ChangeKind
	Value   any
}

// Callback reacts to a Change. A returned error is reported to the notifier
// but never stops delivery to the remaining observers.
type Callback func(Change) error

// Registration is a live subscription. Registrations form a forest: disposing
// one disposes every dependent below it.
type Registration struct {
	id         uint64
	observable *Observable // nil for anchors
	callback   Callback

	parent     atomic.Pointer[Registration]
	dependents mapset.Set[*Registration]
	disposed   atomic.Bool
}

func newRegistration(id uint64, o *Observable, cb Callback) *Registration {
	return &Registration{
		id:         id,
		observable: o,
		callback:   cb,
		dependents: mapset.NewSet[*Registration](),
	}
}

// ID is unique within the owning Registry.
func (r *Registration) ID() uint64 {
	return r.id
}

// Disposed reports whether Unobserve has run.
func (r *Registration) Disposed() bool {
	return r.disposed.Load()
}

// Observable returns the observed (subject, path), nil for anchors.
func (r *Registration) Observable() *Observable {
	return r.observable
}

// Dependents returns a snapshot of the direct dependents.
func (r *Registration) Dependents() []*Registration {
	return r.dependents.ToSlice()
}

// Unobserve tears the registration and all of its dependents down.
// Calling it again is a no-op.
func (r *Registration) Unobserve() {
	if r == nil || !r.disposed.CompareAndSwap(false, true) {
		return
	}

	children := r.dependents.ToSlice()
	r.dependents.Clear()
	for _, child := range children {
		child.parent.Store(nil)
		child.Unobserve()
	}

	if r.observable != nil {
		r.observable.remove(r)
	}
	if p := r.parent.Swap(nil); p != nil {
		p.dependents.Remove(r)
	}
}

// AddDependent ties child's lifetime to r. A child added to an already
// disposed registration is disposed on the spot.
func (r *Registration) AddDependent(child *Registration) {
	if child == nil || child == r || child.Disposed() {
		return
	}
	if r.Disposed() {
		child.Unobserve()
		return
	}
	if old := child.parent.Swap(r); old != nil && old != r {
		old.dependents.Remove(child)
	}
	r.dependents.Add(child)
}

func (r *Registration) invoke(c Change) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrObserverPanic, p)
		}
	}()
	if r.callback == nil {
		return nil
	}
	return r.callback(c)
}
