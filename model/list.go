package model

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/delaneyj/bindparty/observe"
)

const (
	// ItemsProperty announces membership changes with the list itself as value.
	ItemsProperty = observe.MembershipPath
	// LenProperty announces the new length.
	LenProperty = "len"
)

// List is an ordered observable collection. Every mutation notifies
// ItemsProperty with observe.MembershipChanged.
type List struct {
	registry *observe.Registry

	mu    sync.RWMutex
	items []any

	disposed atomic.Bool
}

// NewList returns a List holding items.
func NewList(r *observe.Registry, items ...any) *List {
	return &List{
		registry: r,
		items:    slices.Clone(items),
	}
}

// Items returns a copy of the members.
func (l *List) Items() []any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *List) At(i int) (any, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.items) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(l.items))
	}
	return l.items[i], nil
}

// IndexOf finds item by identity, -1 when absent.
func (l *List) IndexOf(item any) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.IndexFunc(l.items, func(v any) bool {
		return observe.Equal(v, item)
	})
}

func (l *List) HasProperty(path string) bool {
	return path == ItemsProperty || path == LenProperty
}

func (l *List) Property(path string) (any, error) {
	switch path {
	case ItemsProperty:
		return l, nil
	case LenProperty:
		return l.Len(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, path)
	}
}

func (l *List) Append(items ...any) error {
	return l.mutate(func(cur []any) ([]any, error) {
		return append(cur, items...), nil
	})
}

func (l *List) Insert(i int, item any) error {
	return l.mutate(func(cur []any) ([]any, error) {
		if i < 0 || i > len(cur) {
			return nil, fmt.Errorf("%w: insert at %d of %d", ErrIndexOutOfRange, i, len(cur))
		}
		return slices.Insert(cur, i, item), nil
	})
}

func (l *List) RemoveAt(i int) error {
	return l.mutate(func(cur []any) ([]any, error) {
		if i < 0 || i >= len(cur) {
			return nil, fmt.Errorf("%w: remove at %d of %d", ErrIndexOutOfRange, i, len(cur))
		}
		return slices.Delete(cur, i, i+1), nil
	})
}

// Remove drops the first member equal to item. Absent items are ignored.
func (l *List) Remove(item any) error {
	return l.mutate(func(cur []any) ([]any, error) {
		i := slices.IndexFunc(cur, func(v any) bool {
			return observe.Equal(v, item)
		})
		if i < 0 {
			return cur, nil
		}
		return slices.Delete(cur, i, i+1), nil
	})
}

// Move relocates the member at from so that it ends up at index to.
func (l *List) Move(from, to int) error {
	return l.mutate(func(cur []any) ([]any, error) {
		if from < 0 || from >= len(cur) || to < 0 || to >= len(cur) {
			return nil, fmt.Errorf("%w: move %d to %d of %d", ErrIndexOutOfRange, from, to, len(cur))
		}
		item := cur[from]
		cur = slices.Delete(cur, from, from+1)
		return slices.Insert(cur, to, item), nil
	})
}

// Replace swaps every member for items.
func (l *List) Replace(items ...any) error {
	return l.mutate(func([]any) ([]any, error) {
		return slices.Clone(items), nil
	})
}

func (l *List) Clear() error {
	return l.Replace()
}

// Touch announces that the member at i changed in place. Observers of
// ItemsProperty get an observe.ItemChanged carrying the member.
func (l *List) Touch(i int) error {
	item, err := l.At(i)
	if err != nil {
		return err
	}
	if l.Disposed() {
		return fmt.Errorf("%w: list touch", ErrDisposed)
	}
	return l.registry.NotifyKind(l, ItemsProperty, observe.ItemChanged, item)
}

// Dispose marks the list stale and drops every observer of it.
func (l *List) Dispose() {
	if l.disposed.CompareAndSwap(false, true) {
		l.registry.Forget(l)
	}
}

func (l *List) Disposed() bool {
	return l.disposed.Load()
}

func (l *List) mutate(fn func(cur []any) ([]any, error)) error {
	if l.Disposed() {
		return fmt.Errorf("%w: list mutation", ErrDisposed)
	}

	l.mu.Lock()
	next, err := fn(slices.Clone(l.items))
	if err != nil {
		l.mu.Unlock()
		return err
	}
	l.items = next
	n := len(next)
	l.mu.Unlock()

	return l.registry.Batch(func() error {
		return errors.Join(
			l.registry.NotifyKind(l, ItemsProperty, observe.MembershipChanged, l),
			l.registry.Notify(l, LenProperty, n),
		)
	})
}
