package table

import (
	"fmt"
	"slices"

	"github.com/delaneyj/bindparty/binding"
	"github.com/delaneyj/bindparty/observe"
)

// Binding keeps a widget showing one row per model item.
//
// Its registrations form a tree under one observer: the model property
// registration, tracked by the graph, and an anchor for the current
// collection owning the membership registration and one registration per
// (item, column). Each refresh replaces the anchor.
type Binding struct {
	id       uint64
	graph    *binding.Graph
	widget   Widget
	model    ModelBinding
	columns  []string
	observer *observe.Observer

	current    *observe.Registration
	collection []any
	refreshes  int
	refreshing bool
	disposed   bool
}

// Bind renders the model collection into w and keeps it in sync. A column
// property missing on any item fails the bind.
func Bind(g *binding.Graph, w Widget, m ModelBinding, columns []string) (*Binding, error) {
	switch {
	case w == nil:
		return nil, ErrNilWidget
	case m == nil:
		return nil, ErrNilModel
	case len(columns) == 0:
		return nil, ErrNoColumns
	}

	b := &Binding{
		id:       binding.NextID(),
		graph:    g,
		widget:   w,
		model:    m,
		columns:  slices.Clone(columns),
		observer: observe.NewObserver(g.Registry()),
	}
	w.SetColumnProperties(slices.Clone(columns))

	if err := g.Track(b.observer, b, binding.Dependency{Subject: m.Subject(), Path: m.Path()}); err != nil {
		b.Dispose()
		return nil, err
	}

	if err := b.Refresh(); err != nil {
		b.Dispose()
		return nil, err
	}
	w.OnDisposed(b.Dispose)
	return b, nil
}

func (b *Binding) ID() uint64 {
	return b.id
}

func (b *Binding) Recompute() error {
	return b.Refresh()
}

// Columns returns the column property names.
func (b *Binding) Columns() []string {
	return slices.Clone(b.columns)
}

// Collection returns the items rendered by the last refresh.
func (b *Binding) Collection() []any {
	return slices.Clone(b.collection)
}

// Refreshes counts completed reconciliations.
func (b *Binding) Refreshes() int {
	return b.refreshes
}

// Selection returns the items behind the selected rows.
func (b *Binding) Selection() []any {
	var out []any
	for _, row := range b.widget.Selection() {
		out = append(out, b.widget.Data(row))
	}
	return out
}

func (b *Binding) invalidate(observe.Change) error {
	return b.graph.Invalidate(b)
}

// Refresh commits any pending edit, re-reads the model collection,
// re-registers item observers and rebuilds the rows. Changes made by the
// edit commit are picked up by the refresh already running.
func (b *Binding) Refresh() error {
	if b.disposed || b.refreshing {
		return nil
	}
	b.refreshing = true
	defer func() { b.refreshing = false }()

	snap := Capture(b.widget)
	if err := b.widget.FinishEdit(); err != nil {
		return fmt.Errorf("table: finish edit: %w", err)
	}

	v, err := b.model.EvaluateProperty()
	if err != nil {
		return fmt.Errorf("table: evaluate model: %w", err)
	}
	items, ok := observe.Items(v)
	if !ok && v != nil {
		return fmt.Errorf("%w: %T", ErrNotCollection, v)
	}

	texts, err := b.render(items)
	if err != nil {
		return err
	}
	if err := b.watch(v, items); err != nil {
		return err
	}
	b.collection = items
	b.rebuild(snap, items, texts)
	b.refreshes++
	return nil
}

// render computes every cell before the widget is touched, so a bad item
// leaves the current rows intact.
func (b *Binding) render(items []any) ([][]string, error) {
	texts := make([][]string, len(items))
	for i, item := range items {
		s, ok := item.(observe.Subject)
		row := make([]string, len(b.columns))
		for c, col := range b.columns {
			if !ok || !s.HasProperty(col) {
				return nil, &ColumnPropertyMissingError{Column: col, Index: i, Item: item}
			}
			v, err := s.Property(col)
			if err != nil {
				return nil, fmt.Errorf("table: item %d column %q: %w", i, col, err)
			}
			row[c] = displayString(v)
		}
		texts[i] = row
	}
	return texts, nil
}

func displayString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func (b *Binding) watch(collection any, items []any) error {
	b.current.Unobserve()
	anchor := b.observer.Anchor()
	b.current = anchor

	if c, ok := collection.(observe.Subject); ok && c.HasProperty(observe.MembershipPath) {
		if _, err := b.observer.ObserveUnder(anchor, c, observe.MembershipPath, b.invalidate); err != nil {
			return err
		}
	}
	for _, item := range items {
		s, ok := item.(observe.Subject)
		if !ok || observe.IsStale(s) {
			continue
		}
		for _, col := range b.columns {
			if _, err := b.observer.ObserveUnder(anchor, s, col, b.invalidate); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *Binding) rebuild(snap *Snapshot, items []any, texts [][]string) {
	w := b.widget
	w.RemoveAll()

	rows := make([]Row, len(items))
	for i, item := range items {
		row := w.CreateRow()
		for c, text := range texts[i] {
			w.SetText(row, c, text)
		}
		w.SetData(row, item)
		rows[i] = row
	}

	selected := snap.Match(rows, items)
	if len(selected) == 0 && len(rows) > 0 {
		selected = rows[:1]
	}
	if len(selected) > 0 {
		w.SetSelection(selected)
	}
	w.Sort()
}

// Dispose releases every registration. The widget's disposal hook calls it.
func (b *Binding) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	b.observer.UnregisterAll()
	b.graph.Untrack(b)
}

// Disposed reports whether Dispose has run.
func (b *Binding) Disposed() bool {
	return b.disposed
}
