package model_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/delaneyj/bindparty/model"
	"github.com/delaneyj/bindparty/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *observe.Registry {
	return observe.NewRegistry(observe.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

type changes []observe.Change

func (c *changes) record(ch observe.Change) error {
	*c = append(*c, ch)
	return nil
}

func (c changes) values() []any {
	out := make([]any, len(c))
	for i, ch := range c {
		out[i] = ch.Value
	}
	return out
}

func TestObjectSetNotifies(t *testing.T) {
	rs := newRegistry()
	o := model.NewObject(rs, map[string]any{"name": "Ada", "age": 36})

	var got changes
	_, err := rs.Observe(o, "name", got.record)
	require.NoError(t, err)

	require.NoError(t, o.SetProperty("name", "Grace"))
	require.NoError(t, o.SetProperty("name", "Grace"))
	require.NoError(t, o.SetProperty("age", 37))

	assert.Equal(t, []any{"Grace"}, got.values())
	assert.Equal(t, "Grace", o.Get("name"))
	assert.Equal(t, 37, o.Get("age"))
}

func TestObjectUnknownProperty(t *testing.T) {
	o := model.NewObject(newRegistry(), map[string]any{"a": 1})

	assert.False(t, o.HasProperty("b"))
	_, err := o.Property("b")
	assert.ErrorIs(t, err, model.ErrUnknownProperty)
	assert.ErrorIs(t, o.SetProperty("b", 1), model.ErrUnknownProperty)
	assert.Nil(t, o.Get("b"))
}

func TestObjectDerivedProperties(t *testing.T) {
	rs := newRegistry()
	o := model.NewObject(rs, map[string]any{"first": "Ada", "last": "Lovelace"})
	require.NoError(t, o.Define("full", func(o *model.Object) (any, error) {
		return o.Get("first").(string) + " " + o.Get("last").(string), nil
	}, "first", "last"))
	require.NoError(t, o.Define("initials", func(o *model.Object) (any, error) {
		full := o.Get("full").(string)
		return full[:1], nil
	}, "full"))

	var full, initials changes
	_, err := rs.Observe(o, "full", full.record)
	require.NoError(t, err)
	_, err = rs.Observe(o, "initials", initials.record)
	require.NoError(t, err)

	require.NoError(t, o.SetProperty("first", "Augusta"))
	assert.Equal(t, []any{"Augusta Lovelace"}, full.values())
	assert.Empty(t, initials, "an unchanged initial is suppressed")

	require.NoError(t, o.SetProperty("first", "Byron"))
	assert.Equal(t, []any{"B"}, initials.values())

	assert.ErrorIs(t, o.SetProperty("full", "x"), model.ErrDerivedProperty)
	assert.Equal(t, []string{"first", "full", "initials", "last"}, o.Properties())
}

func TestObjectDefineValidates(t *testing.T) {
	o := model.NewObject(newRegistry(), map[string]any{"a": 1})
	noop := func(*model.Object) (any, error) { return nil, nil }

	assert.ErrorIs(t, o.Define("a", noop), model.ErrDuplicateName)
	assert.ErrorIs(t, o.Define("b", noop, "missing"), model.ErrUnknownProperty)
	require.NoError(t, o.Define("b", noop, "a"))
	assert.ErrorIs(t, o.Define("b", noop), model.ErrDuplicateName)
}

func TestObjectDeriveFailureIsReported(t *testing.T) {
	rs := newRegistry()
	o := model.NewObject(rs, map[string]any{"a": 1})
	boom := errors.New("boom")
	require.NoError(t, o.Define("b", func(*model.Object) (any, error) { return nil, boom }, "a"))

	err := o.SetProperty("a", 2)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, o.Get("a"), "the plain write still lands")
}

func TestObjectUpdateBatches(t *testing.T) {
	rs := newRegistry()
	o := model.NewObject(rs, map[string]any{"a": 1, "b": 1})

	var deferred int
	_, err := rs.Observe(o, "a", func(observe.Change) error {
		return rs.Defer(func() error {
			deferred++
			return nil
		})
	})
	require.NoError(t, err)

	require.NoError(t, o.Update(func(o *model.Object) error {
		require.NoError(t, o.SetProperty("a", 2))
		assert.Zero(t, deferred, "deferred work waits for the batch")
		return o.SetProperty("b", 2)
	}))
	assert.Equal(t, 1, deferred)
}

func TestObjectDispose(t *testing.T) {
	rs := newRegistry()
	o := model.NewObject(rs, map[string]any{"a": 1})
	_, err := rs.Observe(o, "a", func(observe.Change) error { return nil })
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())

	o.Dispose()
	o.Dispose()
	assert.True(t, o.Disposed())
	assert.True(t, observe.IsStale(o))
	assert.Zero(t, rs.Len())
	assert.ErrorIs(t, o.SetProperty("a", 2), model.ErrDisposed)
}

func TestObjectString(t *testing.T) {
	o := model.NewObject(newRegistry(), map[string]any{"b": 2, "a": "x"})
	assert.Equal(t, "{a:x b:2}", o.String())
}
