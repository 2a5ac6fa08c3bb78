package table_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/delaneyj/bindparty/binding"
	"github.com/delaneyj/bindparty/headless"
	"github.com/delaneyj/bindparty/model"
	"github.com/delaneyj/bindparty/observe"
	"github.com/delaneyj/bindparty/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"name", "age"}

type fixture struct {
	rs     *observe.Registry
	g      *binding.Graph
	app    *model.Object
	people *model.List
	source *binding.PropertyBinding
	widget *headless.Table
}

func newFixture(t *testing.T, people ...any) *fixture {
	t.Helper()
	rs := observe.NewRegistry(observe.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	f := &fixture{
		rs:     rs,
		g:      binding.NewGraph(rs),
		people: model.NewList(rs, people...),
		widget: headless.NewTable("people"),
	}
	f.app = model.NewObject(rs, map[string]any{"people": f.people, "count": 3})

	src, err := binding.Source(f.g, binding.Expression{Subject: f.app, Path: "people"})
	require.NoError(t, err)
	f.source = src
	return f
}

func (f *fixture) person(name string, age int) *model.Object {
	return model.NewObject(f.rs, map[string]any{"name": name, "age": age})
}

func (f *fixture) bind(t *testing.T) *table.Binding {
	t.Helper()
	b, err := table.Bind(f.g, f.widget, f.source, columns)
	require.NoError(t, err)
	return b
}

func TestBindRendersAndFollowsMembership(t *testing.T) {
	f := newFixture(t)
	a := f.person("A", 1)
	require.NoError(t, f.people.Append(a))

	b := f.bind(t)
	assert.Equal(t, columns, f.widget.Columns())
	assert.Equal(t, [][]string{{"A", "1"}}, f.widget.Texts())
	assert.Equal(t, [][]string{{"A", "1"}}, f.widget.SelectedTexts(), "first row selected by default")

	require.NoError(t, f.people.Append(f.person("B", 2)))
	assert.Equal(t, [][]string{{"A", "1"}, {"B", "2"}}, f.widget.Texts())
	assert.Equal(t, []any{a}, b.Selection())
	assert.Equal(t, f.people.Items(), f.widget.Items())
	assert.Equal(t, 2, b.Refreshes())
}

func TestSelectionSurvivesReorderAndEdits(t *testing.T) {
	f := newFixture(t)
	a, bee, c := f.person("A", 1), f.person("B", 2), f.person("C", 3)
	require.NoError(t, f.people.Append(a, bee, c))
	b := f.bind(t)

	require.NoError(t, f.widget.Select(1, 2))
	require.NoError(t, f.people.Move(0, 2))
	assert.Equal(t, [][]string{{"B", "2"}, {"C", "3"}, {"A", "1"}}, f.widget.Texts())
	assert.Equal(t, []any{bee, c}, b.Selection())

	require.NoError(t, bee.SetProperty("age", 20))
	assert.Equal(t, [][]string{{"B", "20"}, {"C", "3"}, {"A", "1"}}, f.widget.Texts())
	assert.Equal(t, []any{bee, c}, b.Selection())
}

func TestSelectionFallsBackToFirstRow(t *testing.T) {
	f := newFixture(t)
	a, bee := f.person("A", 1), f.person("B", 2)
	require.NoError(t, f.people.Append(a, bee))
	b := f.bind(t)

	require.NoError(t, f.widget.Select(1))
	require.NoError(t, f.people.Remove(bee))
	assert.Equal(t, []any{a}, b.Selection())

	require.NoError(t, f.people.Clear())
	assert.Empty(t, b.Selection())
	assert.Empty(t, f.widget.Rows())
}

func TestReplacedCollectionKeepsSelectionByIdentity(t *testing.T) {
	f := newFixture(t)
	a, bee := f.person("A", 1), f.person("B", 2)
	require.NoError(t, f.people.Append(a, bee))
	b := f.bind(t)
	require.NoError(t, f.widget.Select(1))

	next := model.NewList(f.rs, f.person("Z", 9), bee)
	require.NoError(t, f.app.SetProperty("people", next))
	assert.Equal(t, [][]string{{"Z", "9"}, {"B", "2"}}, f.widget.Texts())
	assert.Equal(t, []any{bee}, b.Selection())

	// the old list is no longer watched
	refreshes := b.Refreshes()
	require.NoError(t, f.people.Append(f.person("Q", 0)))
	assert.Equal(t, refreshes, b.Refreshes())

	require.NoError(t, next.Append(f.person("Y", 8)))
	assert.Equal(t, refreshes+1, b.Refreshes())
}

func TestRemovedItemsAreNotWatched(t *testing.T) {
	f := newFixture(t)
	a, bee := f.person("A", 1), f.person("B", 2)
	require.NoError(t, f.people.Append(a, bee))
	b := f.bind(t)

	require.NoError(t, f.people.Remove(bee))
	refreshes := b.Refreshes()
	require.NoError(t, bee.SetProperty("name", "gone"))
	assert.Equal(t, refreshes, b.Refreshes())

	_, ok := f.rs.Lookup(bee, "name")
	assert.False(t, ok)
}

func TestMissingColumnFailsBind(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.people.Append(f.person("A", 1), model.NewObject(f.rs, map[string]any{"name": "B"})))
	before := f.rs.Len()

	b, err := table.Bind(f.g, f.widget, f.source, columns)
	assert.Nil(t, b)
	require.ErrorIs(t, err, table.ErrColumnPropertyMissing)

	var cpm *table.ColumnPropertyMissingError
	require.True(t, errors.As(err, &cpm))
	assert.Equal(t, "age", cpm.Column)
	assert.Equal(t, 1, cpm.Index)

	assert.Zero(t, f.widget.Rebuilds, "widget untouched")
	assert.Equal(t, before, f.rs.Len(), "no registrations left behind")
}

func TestBindRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	_, err := table.Bind(f.g, nil, f.source, columns)
	assert.ErrorIs(t, err, table.ErrNilWidget)
	_, err = table.Bind(f.g, f.widget, nil, columns)
	assert.ErrorIs(t, err, table.ErrNilModel)
	_, err = table.Bind(f.g, f.widget, f.source, nil)
	assert.ErrorIs(t, err, table.ErrNoColumns)

	count, err := binding.Source(f.g, binding.Expression{Subject: f.app, Path: "count"})
	require.NoError(t, err)
	_, err = table.Bind(f.g, f.widget, count, columns)
	assert.ErrorIs(t, err, table.ErrNotCollection)
}

func TestPendingEditCommitsBeforeRebuild(t *testing.T) {
	f := newFixture(t)
	a := f.person("A", 1)
	require.NoError(t, f.people.Append(a))
	f.bind(t)

	f.widget.Edit(func() error {
		return a.SetProperty("name", "Ada")
	})
	require.NoError(t, f.people.Append(f.person("B", 2)))

	assert.False(t, f.widget.Editing())
	assert.Equal(t, "Ada", a.Get("name"))
	assert.Equal(t, [][]string{{"Ada", "1"}, {"B", "2"}}, f.widget.Texts())
}

func TestSortIsReapplied(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.people.Append(f.person("A", 1), f.person("C", 3)))
	f.bind(t)

	f.widget.SortBy(0, true)
	assert.Equal(t, [][]string{{"C", "3"}, {"A", "1"}}, f.widget.Texts())

	require.NoError(t, f.people.Append(f.person("B", 2)))
	assert.Equal(t, [][]string{{"C", "3"}, {"B", "2"}, {"A", "1"}}, f.widget.Texts())
}

func TestWidgetDisposalReleasesObservers(t *testing.T) {
	f := newFixture(t)
	a := f.person("A", 1)
	require.NoError(t, f.people.Append(a))
	b := f.bind(t)

	f.widget.Dispose()
	assert.True(t, b.Disposed())

	rebuilds, refreshes := f.widget.Rebuilds, b.Refreshes()
	require.NoError(t, f.people.Append(f.person("B", 2)))
	require.NoError(t, a.SetProperty("age", 5))
	assert.Equal(t, rebuilds, f.widget.Rebuilds)
	assert.Equal(t, refreshes, b.Refreshes())

	f.source.Dispose()
	assert.Zero(t, f.rs.Len())
}

func TestConvertedModelValue(t *testing.T) {
	f := newFixture(t)
	a, bee := f.person("A", 1), f.person("B", 2)
	require.NoError(t, f.people.Append(a, bee))

	reversed, err := binding.Source(f.g, binding.Expression{
		Subject: f.app,
		Path:    "people",
		Converters: binding.Converters{OnRead: func(v any) (any, error) {
			items := v.(*model.List).Items()
			for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
				items[i], items[j] = items[j], items[i]
			}
			return items, nil
		}},
	})
	require.NoError(t, err)

	_, err = table.Bind(f.g, f.widget, reversed, columns)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"B", "2"}, {"A", "1"}}, f.widget.Texts())

	// a plain slice has no membership property, so only item changes and
	// model replacement reach the binding
	require.NoError(t, a.SetProperty("age", 10))
	assert.Equal(t, [][]string{{"B", "2"}, {"A", "10"}}, f.widget.Texts())
}

func TestTouchedItemReconciles(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.people.Append(f.person("A", 1)))
	b := f.bind(t)

	require.NoError(t, f.people.Touch(0))
	assert.Equal(t, 2, b.Refreshes())
}

func TestModelAndTableShareOneGraph(t *testing.T) {
	f := newFixture(t)
	a, bee := f.person("A", 1), f.person("B", 2)
	require.NoError(t, f.people.Append(a))
	b := f.bind(t)

	assert.NotEqual(t, f.source.ID(), b.ID())
	assert.Equal(t, 2, f.g.Len())
	assert.Equal(t, []binding.Node{f.source, b}, f.g.Dependents(f.app, "people"))

	sourceWrites := f.source.Writes()
	require.NoError(t, f.app.SetProperty("people", model.NewList(f.rs, a, bee)))
	assert.Equal(t, sourceWrites+1, f.source.Writes(), "model binding recomputed")
	assert.Equal(t, 2, b.Refreshes(), "table recomputed in the same batch")
	assert.Equal(t, [][]string{{"A", "1"}, {"B", "2"}}, f.widget.Texts())

	f.widget.Dispose()
	assert.Equal(t, 1, f.g.Len())
	assert.Len(t, f.g.Dependencies(f.source), 1, "disposing the table leaves the model binding tracked")
	assert.Equal(t, []binding.Node{f.source}, f.g.Dependents(f.app, "people"))
}

func TestDirectRefreshWithPendingEditRebuildsOnce(t *testing.T) {
	f := newFixture(t)
	a := f.person("A", 1)
	require.NoError(t, f.people.Append(a))
	b := f.bind(t)

	f.widget.Edit(func() error {
		return a.SetProperty("name", "Ada")
	})
	rebuilds := f.widget.Rebuilds
	require.NoError(t, b.Refresh())

	assert.Equal(t, rebuilds+1, f.widget.Rebuilds)
	assert.Equal(t, 2, b.Refreshes())
	assert.Equal(t, [][]string{{"Ada", "1"}}, f.widget.Texts())
}
