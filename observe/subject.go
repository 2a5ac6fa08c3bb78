package observe

import "reflect"

// MembershipPath is the property collections announce membership changes on.
const MembershipPath = "items"

// Subject is anything a binding can read from. Implementations must be
// comparable (normally a pointer) since they key Observables.
type Subject interface {
	HasProperty(path string) bool
	Property(path string) (any, error)
}

// WritableSubject accepts writes coming back from the UI side.
type WritableSubject interface {
	Subject
	SetProperty(path string, value any) error
}

// Disposable subjects report when they have been torn down.
type Disposable interface {
	Disposed() bool
}

// Collection is an ordered, list-shaped value.
type Collection interface {
	Items() []any
}

// IsStale reports whether subject has been disposed.
func IsStale(subject Subject) bool {
	d, ok := subject.(Disposable)
	return ok && d.Disposed()
}

// Items materializes v as an ordered slice. It accepts Collections, slices
// and arrays; anything else reports false.
func Items(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if c, ok := v.(Collection); ok {
		return c.Items(), true
	}
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items, true
	default:
		return nil, false
	}
}

func validate(subject Subject, path string) error {
	if subject == nil {
		return invalidTarget(subject, path, "nil subject")
	}
	if rv := reflect.ValueOf(subject); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return invalidTarget(subject, path, "nil subject")
	}
	if !reflect.TypeOf(subject).Comparable() {
		return invalidTarget(subject, path, "subject is not comparable")
	}
	if path == "" {
		return invalidTarget(subject, path, "empty property path")
	}
	if !subject.HasProperty(path) {
		return invalidTarget(subject, path, "property is not observable")
	}
	return nil
}
