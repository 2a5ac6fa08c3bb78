package observe_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/bindparty/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnobserveIsIdempotent(t *testing.T) {
	rs := quietRegistry()
	b := newBag("x", 0)

	calls := 0
	reg, err := rs.Observe(b, "x", func(observe.Change) error {
		calls++
		return nil
	})
	require.NoError(t, err)

	reg.Unobserve()
	reg.Unobserve()
	assert.True(t, reg.Disposed())

	require.NoError(t, rs.Notify(b, "x", 1))
	assert.Equal(t, 0, calls)

	var nilReg *observe.Registration
	assert.NotPanics(t, nilReg.Unobserve)
}

func TestDependentsCascade(t *testing.T) {
	rs := quietRegistry()
	collection := newBag("items", []int{1})
	item := newBag("name", "a")

	calls := map[string]int{}
	counter := func(name string) observe.Callback {
		return func(observe.Change) error {
			calls[name]++
			return nil
		}
	}

	top, err := rs.Observe(collection, "items", counter("top"))
	require.NoError(t, err)
	mid, err := rs.Observe(collection, "items", counter("mid"))
	require.NoError(t, err)
	leaf, err := rs.Observe(item, "name", counter("leaf"))
	require.NoError(t, err)

	rs.AddDependent(top, mid)
	rs.AddDependent(mid, leaf)
	assert.Equal(t, []*observe.Registration{mid}, top.Dependents())

	top.Unobserve()
	assert.True(t, mid.Disposed())
	assert.True(t, leaf.Disposed())

	require.NoError(t, rs.Notify(collection, "items", []int{2}))
	require.NoError(t, rs.Notify(item, "name", "b"))
	assert.Empty(t, calls)
	assert.Equal(t, 0, rs.Len())
}

func TestDisposingDependentDetachesFromParent(t *testing.T) {
	rs := quietRegistry()
	b := newBag("x", 0)
	noop := func(observe.Change) error { return nil }

	parent, err := rs.Observe(b, "x", noop)
	require.NoError(t, err)
	child, err := rs.Observe(b, "x", noop)
	require.NoError(t, err)

	parent.AddDependent(child)
	child.Unobserve()
	assert.Empty(t, parent.Dependents())
	assert.False(t, parent.Disposed())
}

func TestAddDependentToDisposedParent(t *testing.T) {
	rs := quietRegistry()
	b := newBag("x", 0)
	noop := func(observe.Change) error { return nil }

	parent, err := rs.Observe(b, "x", noop)
	require.NoError(t, err)
	parent.Unobserve()

	child, err := rs.Observe(b, "x", noop)
	require.NoError(t, err)
	rs.AddDependent(parent, child)
	assert.True(t, child.Disposed())
}

func TestReparentingMovesDependent(t *testing.T) {
	rs := quietRegistry()
	b := newBag("x", 0)
	noop := func(observe.Change) error { return nil }

	first, second := rs.Anchor(), rs.Anchor()
	child, err := rs.Observe(b, "x", noop)
	require.NoError(t, err)

	first.AddDependent(child)
	second.AddDependent(child)
	assert.Empty(t, first.Dependents())

	first.Unobserve()
	assert.False(t, child.Disposed())
	second.Unobserve()
	assert.True(t, child.Disposed())
}

func TestObserverUnregisterAll(t *testing.T) {
	rs := quietRegistry()
	b := newBag("x", 0, "y", 0)
	o := observe.NewObserver(rs)

	calls := 0
	count := func(observe.Change) error {
		calls++
		return nil
	}
	rx, err := o.Observe(b, "x", count)
	require.NoError(t, err)
	_, err = o.ObserveUnder(rx, b, "y", count)
	require.NoError(t, err)

	require.NoError(t, rs.Notify(b, "y", 1))
	assert.Equal(t, 1, calls)

	o.UnregisterAll()
	assert.True(t, o.Disposed())
	require.NoError(t, rs.Notify(b, "x", 1))
	require.NoError(t, rs.Notify(b, "y", 2))
	assert.Equal(t, 1, calls)

	_, err = o.Observe(b, "x", count)
	assert.ErrorIs(t, err, observe.ErrObserverDisposed)
}

func TestObserverAnchorReleasesAGroup(t *testing.T) {
	rs := quietRegistry()
	b := newBag("x", 0, "y", 0)
	o := observe.NewObserver(rs)

	var got []string
	record := func(c observe.Change) error {
		got = append(got, c.Path)
		return nil
	}
	_, err := o.Observe(b, "x", record)
	require.NoError(t, err)
	group := o.Anchor()
	_, err = o.ObserveUnder(group, b, "y", record)
	require.NoError(t, err)

	group.Unobserve()
	assert.False(t, o.Disposed())
	require.NoError(t, rs.Notify(b, "x", 1))
	require.NoError(t, rs.Notify(b, "y", 1))
	assert.Equal(t, []string{"x"}, got)

	next := o.Anchor()
	o.UnregisterAll()
	assert.True(t, next.Disposed(), "groups die with the observer")
}

func TestUnobserveDuringDelivery(t *testing.T) {
	rs := quietRegistry()
	b := newBag("x", 0)

	var second *observe.Registration
	calls := 0
	_, err := rs.Observe(b, "x", func(observe.Change) error {
		second.Unobserve()
		return nil
	})
	require.NoError(t, err)
	second, err = rs.Observe(b, "x", func(observe.Change) error {
		calls++
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, rs.Notify(b, "x", 1))
	assert.Equal(t, 0, calls)
}

func TestBatchDefersWork(t *testing.T) {
	rs := quietRegistry()

	ran := 0
	require.NoError(t, rs.Defer(func() error {
		ran++
		return nil
	}))
	assert.Equal(t, 1, ran, "no batch open")

	err := rs.Batch(func() error {
		assert.True(t, rs.InBatch())
		require.NoError(t, rs.Defer(func() error {
			ran++
			return rs.Defer(func() error {
				ran++
				return nil
			})
		}))
		assert.Equal(t, 1, ran)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, ran)
	assert.False(t, rs.InBatch())
}

func TestBatchJoinsErrors(t *testing.T) {
	rs := quietRegistry()
	outer, deferred := errors.New("outer"), errors.New("deferred")

	err := rs.Batch(func() error {
		require.NoError(t, rs.Defer(func() error { return deferred }))
		return outer
	})
	assert.ErrorIs(t, err, outer)
	assert.ErrorIs(t, err, deferred)

	assert.ErrorIs(t, rs.EndBatch(), observe.ErrUnbalancedBatch)
}
