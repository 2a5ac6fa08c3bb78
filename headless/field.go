package headless

import (
	"errors"

	"github.com/delaneyj/bindparty/binding"
)

// Field is a single-value widget such as a text box or spinner. Like most
// toolkits it fires its change listeners for programmatic sets too.
type Field struct {
	value     any
	listeners []func(v any) error
	Sets      int
}

// NewField returns a field showing v.
func NewField(v any) *Field {
	return &Field{value: v}
}

func (f *Field) Value() any {
	return f.value
}

// Set changes the displayed value.
func (f *Field) Set(v any) error {
	f.value = v
	f.Sets++
	return f.fire(v)
}

// Type simulates the user entering v.
func (f *Field) Type(v any) error {
	f.value = v
	return f.fire(v)
}

// OnChange adds a listener run after every Set and Type.
func (f *Field) OnChange(fn func(v any) error) {
	f.listeners = append(f.listeners, fn)
}

func (f *Field) fire(v any) error {
	var errs []error
	for _, fn := range f.listeners {
		errs = append(errs, fn(v))
	}
	return errors.Join(errs...)
}

// Target exposes the field as a binding target.
func (f *Field) Target() binding.Target {
	return binding.Target{Set: f.Set, Get: f.Value}
}

// BindField binds f to expr and, for writable directions, feeds user
// changes back through the binding.
func BindField(g *binding.Graph, f *Field, expr binding.Expression) (*binding.PropertyBinding, error) {
	b, err := binding.New(g, f.Target(), expr)
	if err != nil {
		return nil, err
	}
	if expr.Direction.Writes() {
		f.OnChange(func(v any) error {
			if b.Disposed() {
				return nil
			}
			return b.Write(v)
		})
	}
	return b, nil
}
