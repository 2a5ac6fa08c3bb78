// Package model provides ready-made observable subjects: a property bag with
// derived properties and an ordered observable list.
package model

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/delaneyj/bindparty/observe"
)

var (
	ErrUnknownProperty = errors.New("model: unknown property")
	ErrDerivedProperty = errors.New("model: derived property is read-only")
	ErrDisposed        = errors.New("model: subject disposed")
	ErrIndexOutOfRange = errors.New("model: index out of range")
	ErrDuplicateName   = errors.New("model: property already defined")
)

// DeriveFunc computes a derived property from the rest of the object.
type DeriveFunc func(o *Object) (any, error)

type derived struct {
	fn        DeriveFunc
	dependsOn []string
}

// Object is a named-property subject. Writes notify observers of the
// property and of every derived property that depends on it.
type Object struct {
	registry *observe.Registry

	mu      sync.RWMutex
	props   map[string]any
	derived map[string]derived

	disposed atomic.Bool
}

// NewObject copies props into a new Object notifying through r.
func NewObject(r *observe.Registry, props map[string]any) *Object {
	o := &Object{
		registry: r,
		props:    make(map[string]any, len(props)),
		derived:  map[string]derived{},
	}
	maps.Copy(o.props, props)
	return o
}

// Define adds a read-only property computed by fn whenever one of
// dependsOn changes.
func (o *Object) Define(name string, fn DeriveFunc, dependsOn ...string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.props[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	if _, ok := o.derived[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	for _, dep := range dependsOn {
		_, plain := o.props[dep]
		_, der := o.derived[dep]
		if !plain && !der {
			return fmt.Errorf("%w: %q depends on %q", ErrUnknownProperty, name, dep)
		}
	}
	o.derived[name] = derived{fn: fn, dependsOn: slices.Clone(dependsOn)}
	return nil
}

func (o *Object) HasProperty(path string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, plain := o.props[path]
	_, der := o.derived[path]
	return plain || der
}

func (o *Object) Property(path string) (any, error) {
	o.mu.RLock()
	v, plain := o.props[path]
	d, der := o.derived[path]
	o.mu.RUnlock()

	switch {
	case plain:
		return v, nil
	case der:
		return d.fn(o)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, path)
	}
}

// Get is Property without the error; missing or failing properties read as nil.
func (o *Object) Get(path string) any {
	v, _ := o.Property(path)
	return v
}

func (o *Object) SetProperty(path string, value any) error {
	if o.Disposed() {
		return fmt.Errorf("%w: set %q", ErrDisposed, path)
	}

	o.mu.Lock()
	old, plain := o.props[path]
	if !plain {
		_, der := o.derived[path]
		o.mu.Unlock()
		if der {
			return fmt.Errorf("%w: %q", ErrDerivedProperty, path)
		}
		return fmt.Errorf("%w: %q", ErrUnknownProperty, path)
	}
	if observe.Equal(old, value) {
		o.mu.Unlock()
		return nil
	}
	o.props[path] = value
	affected := o.dependentsOf(path)
	o.mu.Unlock()

	return o.registry.Batch(func() error {
		errs := []error{o.registry.Notify(o, path, value)}
		for _, name := range affected {
			v, err := o.Property(name)
			if err != nil {
				errs = append(errs, fmt.Errorf("derive %q: %w", name, err))
				continue
			}
			errs = append(errs, o.registry.Notify(o, name, v))
		}
		return errors.Join(errs...)
	})
}

// Update runs fn inside a registry batch so several writes reach batched
// observers as one change.
func (o *Object) Update(fn func(o *Object) error) error {
	return o.registry.Batch(func() error {
		return fn(o)
	})
}

// Properties lists plain and derived property names in sorted order.
func (o *Object) Properties() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	names := slices.Collect(maps.Keys(o.props))
	for name := range o.derived {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Dispose marks the object stale and drops every observer of it.
func (o *Object) Dispose() {
	if o.disposed.CompareAndSwap(false, true) {
		o.registry.Forget(o)
	}
}

func (o *Object) Disposed() bool {
	return o.disposed.Load()
}

func (o *Object) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, name := range o.Properties() {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s:%v", name, o.Get(name))
	}
	sb.WriteString("}")
	return sb.String()
}

// dependentsOf returns derived properties reachable from path, in
// dependency order. Callers hold o.mu.
func (o *Object) dependentsOf(path string) []string {
	var out []string
	seen := map[string]bool{path: true}
	queue := []string{path}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		names := slices.Sorted(maps.Keys(o.derived))
		for _, name := range names {
			if seen[name] || !slices.Contains(o.derived[name].dependsOn, cur) {
				continue
			}
			seen[name] = true
			out = append(out, name)
			queue = append(queue, name)
		}
	}
	return out
}
