package binding

import (
	"fmt"
	"slices"

	"github.com/delaneyj/bindparty/observe"
)


// Target is the UI-facing end of a binding.
type Target struct {
	Set func(v any) error
	Get func() any
}

// Expression declares what a binding reads and writes.
//
// Without Compute the source value is Subject.Path and ComputedBy only adds
// triggers. With Compute the value is Compute applied to the ComputedBy
// property values, and Path may be empty.
type Expression struct {
	Direction  Direction
	Subject    observe.Subject
	Path       string
	ComputedBy []string
	Compute    ComputeFunc
	Converters Converters
}

// PropertyBinding keeps one target attribute equal to OnRead(source) and,
// when writable, the source equal to OnWrite(target).
type PropertyBinding struct {
	id       uint64
	graph    *Graph
	target   Target
	expr     Expression
	observer *observe.Observer

	last     any
	hasLast  bool
	writes   int
	writing  bool
	disposed bool
}

// New validates expr, registers its observers and pushes the initial value
// for readable directions.
func New(g *Graph, target Target, expr Expression) (*PropertyBinding, error) {
	if err := check(target, expr); err != nil {
		return nil, err
	}

	b := &PropertyBinding{
		id:       NextID(),
		graph:    g,
		target:   target,
		expr:     expr,
		observer: observe.NewObserver(g.Registry()),
	}

	if expr.Direction.Reads() {
		if err := g.Track(b.observer, b, b.dependencies()...); err != nil {
			b.Dispose()
			return nil, err
		}
		if err := b.Refresh(); err != nil {
			b.Dispose()
			return nil, err
		}
	}
	return b, nil
}

// Source binds a read-only expr with no UI target. Collection bindings use
// it for their model.
func Source(g *Graph, expr Expression) (*PropertyBinding, error) {
	expr.Direction = ReadOnly
	return New(g, Target{Set: func(any) error { return nil }}, expr)
}

func check(target Target, expr Expression) error {
	d := expr.Direction
	if d > Bidirectional {
		return fmt.Errorf("binding: invalid direction %s", d)
	}
	if expr.Subject == nil {
		return &observe.InvalidTargetError{Path: expr.Path, Reason: "nil subject"}
	}
	if d.Reads() && target.Set == nil {
		return ErrNoTargetSetter
	}
	if d == Bidirectional && target.Get == nil {
		return ErrNoTargetGetter
	}

	if expr.Compute != nil {
		if d != ReadOnly {
			return ErrComputedWritable
		}
		if len(expr.ComputedBy) == 0 {
			return &observe.InvalidTargetError{Subject: expr.Subject, Path: expr.Path, Reason: "computed expression without computed-by properties"}
		}
	} else if expr.Path == "" || !expr.Subject.HasProperty(expr.Path) {
		return &observe.InvalidTargetError{Subject: expr.Subject, Path: expr.Path, Reason: "property is not observable"}
	}

	for _, p := range expr.ComputedBy {
		if !expr.Subject.HasProperty(p) {
			return &observe.InvalidTargetError{Subject: expr.Subject, Path: p, Reason: "computed-by property is not observable"}
		}
	}

	if d.Writes() {
		if _, ok := expr.Subject.(observe.WritableSubject); !ok {
			return &observe.InvalidTargetError{Subject: expr.Subject, Path: expr.Path, Reason: "subject is not writable"}
		}
	}
	return nil
}

func (b *PropertyBinding) dependencies() []Dependency {
	paths := []string{}
	if b.expr.Path != "" && b.expr.Compute == nil {
		paths = append(paths, b.expr.Path)
	}
	for _, p := range b.expr.ComputedBy {
		if !slices.Contains(paths, p) {
			paths = append(paths, p)
		}
	}

	deps := make([]Dependency, len(paths))
	for i, p := range paths {
		deps[i] = Dependency{Subject: b.expr.Subject, Path: p}
	}
	return deps
}

func (b *PropertyBinding) ID() uint64 {
	return b.id
}

func (b *PropertyBinding) Recompute() error {
	return b.Refresh()
}

func (b *PropertyBinding) Subject() observe.Subject {
	return b.expr.Subject
}

func (b *PropertyBinding) Path() string {
	return b.expr.Path
}

func (b *PropertyBinding) Direction() Direction {
	return b.expr.Direction
}

// Writes counts target writes; suppressed refreshes do not count.
func (b *PropertyBinding) Writes() int {
	return b.writes
}

// Dependencies lists the properties the binding observes.
func (b *PropertyBinding) Dependencies() []Dependency {
	return b.graph.Dependencies(b)
}

// EvaluateProperty returns the current source value with OnRead applied.
func (b *PropertyBinding) EvaluateProperty() (any, error) {
	v, err := b.source()
	if err != nil {
		return nil, err
	}
	return b.expr.Converters.read(v)
}

func (b *PropertyBinding) source() (any, error) {
	s := b.expr.Subject
	if b.expr.Compute == nil {
		v, err := s.Property(b.expr.Path)
		if err != nil {
			return nil, fmt.Errorf("binding: read %q: %w", b.expr.Path, err)
		}
		return v, nil
	}

	values := make([]any, len(b.expr.ComputedBy))
	for i, p := range b.expr.ComputedBy {
		v, err := s.Property(p)
		if err != nil {
			return nil, fmt.Errorf("binding: read %q: %w", p, err)
		}
		values[i] = v
	}
	return apply("compute", func(any) (any, error) {
		return b.expr.Compute(values)
	}, values)
}

// Refresh pushes OnRead(source) into the target unless it equals the last
// value written. A disposed source is logged and skipped.
func (b *PropertyBinding) Refresh() error {
	if b.disposed || !b.expr.Direction.Reads() {
		return nil
	}
	if observe.IsStale(b.expr.Subject) {
		b.graph.Registry().Logger().Warn("refresh skipped",
			"binding", b.id,
			"path", b.expr.Path,
			"error", observe.ErrStaleSubject,
		)
		return nil
	}

	v, err := b.EvaluateProperty()
	if err != nil {
		return err
	}
	if b.hasLast && observe.Equal(b.last, v) {
		return nil
	}
	b.last, b.hasLast = v, true
	b.writes++
	if err := b.target.Set(v); err != nil {
		return fmt.Errorf("binding: set target for %q: %w", b.expr.Path, err)
	}
	return nil
}

// Write carries a target-originated value into the source through OnWrite.
// Writes triggered while a write is in flight are dropped.
func (b *PropertyBinding) Write(v any) error {
	if b.disposed {
		return ErrDisposed
	}
	if !b.expr.Direction.Writes() {
		return ErrReadOnlyBinding
	}
	if b.writing {
		return nil
	}
	if observe.IsStale(b.expr.Subject) {
		b.graph.Registry().Logger().Warn("write skipped",
			"binding", b.id,
			"path", b.expr.Path,
			"error", observe.ErrStaleSubject,
		)
		return nil
	}

	b.writing = true
	defer func() { b.writing = false }()

	mv, err := b.expr.Converters.write(v)
	if err != nil {
		return err
	}
	ws := b.expr.Subject.(observe.WritableSubject)
	if err := ws.SetProperty(b.expr.Path, mv); err != nil {
		return fmt.Errorf("binding: write %q: %w", b.expr.Path, err)
	}
	return nil
}

// WriteBack reads the target through its getter and writes the result.
func (b *PropertyBinding) WriteBack() error {
	if b.target.Get == nil {
		return ErrNoTargetGetter
	}
	return b.Write(b.target.Get())
}

// Dispose releases every registration. Calling it again is a no-op.
func (b *PropertyBinding) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	b.observer.UnregisterAll()
	b.graph.Untrack(b)
}

// Disposed reports whether Dispose has run.
func (b *PropertyBinding) Disposed() bool {
	return b.disposed
}

// Observer exposes the registration tree so other bindings can hang
// dependents off this binding's lifetime.
func (b *PropertyBinding) Observer() *observe.Observer {
	return b.observer
}
