package observe

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

type key struct {
	subject Subject
	path    string
}

// Registry owns every Observable created through it. Observables are made
// lazily on first observation and evicted when their last registration goes.
//
// Notification and batching assume a single logical thread, the way a UI
// event loop does. Registration bookkeeping is safe from any goroutine.
type Registry struct {
	cfg    Config
	nextID atomic.Uint64

	mu          sync.Mutex
	observables map[key]*Observable

	depth      int
	batchDepth int
	deferred   []func() error
}

// NewRegistry builds an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{
		cfg:         cfg,
		observables: map[key]*Observable{},
	}
}

// Logger is the logger the registry was configured with.
func (r *Registry) Logger() *slog.Logger {
	return r.cfg.Logger
}

// Observe registers cb for changes of path on subject.
func (r *Registry) Observe(subject Subject, path string, cb Callback) (*Registration, error) {
	if err := validate(subject, path); err != nil {
		return nil, err
	}

	k := key{subject: subject, path: path}
	r.mu.Lock()
	o, ok := r.observables[k]
	if !ok {
		o = newObservable(r, subject, path)
		r.observables[k] = o
	}
	reg := newRegistration(r.nextID.Add(1), o, cb)
	o.add(reg)
	r.mu.Unlock()

	return reg, nil
}

// Anchor returns a registration bound to nothing. It exists to own
// dependents so a group of registrations can be released together.
func (r *Registry) Anchor() *Registration {
	return newRegistration(r.nextID.Add(1), nil, nil)
}

// AddDependent declares that child dies with parent.
func (r *Registry) AddDependent(parent, child *Registration) {
	if parent == nil {
		return
	}
	parent.AddDependent(child)
}

// Lookup returns the Observable for (subject, path) if anyone observes it.
func (r *Registry) Lookup(subject Subject, path string) (*Observable, bool) {
	if validate(subject, path) != nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.observables[key{subject: subject, path: path}]
	return o, ok
}

// Len is the number of live Observables.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.observables)
}

// Notify announces a new value for (subject, path).
func (r *Registry) Notify(subject Subject, path string, value any) error {
	return r.NotifyKind(subject, path, ValueChanged, value)
}

// NotifyKind delivers a change synchronously, in registration order, to
// every live registration. Value and membership changes equal to the last
// delivered state are suppressed; item changes always go out. Observer
// failures are logged and joined into the result without stopping delivery.
func (r *Registry) NotifyKind(subject Subject, path string, kind ChangeKind, value any) error {
	o, ok := r.Lookup(subject, path)
	if !ok {
		return nil
	}
	if r.depth >= r.cfg.MaxDepth {
		return fmt.Errorf("%w: %T %q at depth %d", ErrNotifyDepth, subject, path, r.depth)
	}
	if kind != ItemChanged && !o.changed(value) {
		return nil
	}

	change := Change{Subject: subject, Path: path, Kind: kind, Value: value}

	r.depth++
	r.StartBatch()
	var errs []error
	for _, reg := range o.snapshot() {
		if reg.Disposed() {
			continue
		}
		if err := reg.invoke(change); err != nil {
			r.cfg.Logger.Error("observer failed",
				"path", path,
				"kind", kind.String(),
				"registration", reg.id,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	r.depth--
	if err := r.EndBatch(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// StartBatch opens a batch. Deferred work runs when the outermost batch ends.
func (r *Registry) StartBatch() {
	r.batchDepth++
}

// EndBatch closes a batch and, for the outermost one, drains deferred work
// until none is left.
func (r *Registry) EndBatch() error {
	if r.batchDepth == 0 {
		return ErrUnbalancedBatch
	}
	r.batchDepth--
	if r.batchDepth > 0 {
		return nil
	}

	var errs []error
	for len(r.deferred) > 0 {
		fn := r.deferred[0]
		r.deferred[0] = nil
		r.deferred = r.deferred[1:]

		r.batchDepth++
		err := fn()
		r.batchDepth--
		if err != nil {
			errs = append(errs, err)
		}
	}
	r.deferred = nil
	return errors.Join(errs...)
}

// Batch runs fn inside a batch.
func (r *Registry) Batch(fn func() error) error {
	r.StartBatch()
	err := fn()
	return errors.Join(err, r.EndBatch())
}

// InBatch reports whether a batch is open.
func (r *Registry) InBatch() bool {
	return r.batchDepth > 0
}

// Defer runs fn at the end of the current batch, or now if none is open.
func (r *Registry) Defer(fn func() error) error {
	if r.batchDepth == 0 {
		return fn()
	}
	r.deferred = append(r.deferred, fn)
	return nil
}

// Forget tears down every Observable of subject. Subjects call it when
// they are disposed.
func (r *Registry) Forget(subject Subject) {
	r.mu.Lock()
	var doomed []*Observable
	for k, o := range r.observables {
		if k.subject == subject {
			doomed = append(doomed, o)
			delete(r.observables, k)
		}
	}
	r.mu.Unlock()

	for _, o := range doomed {
		for _, reg := range o.snapshot() {
			reg.Unobserve()
		}
	}
}

// Close tears down every Observable.
func (r *Registry) Close() {
	r.mu.Lock()
	doomed := make([]*Observable, 0, len(r.observables))
	for _, o := range r.observables {
		doomed = append(doomed, o)
	}
	r.observables = map[key]*Observable{}
	r.mu.Unlock()

	for _, o := range doomed {
		for _, reg := range o.snapshot() {
			reg.Unobserve()
		}
	}
}

func (r *Registry) evict(o *Observable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{subject: o.subject, path: o.path}
	if cur, ok := r.observables[k]; ok && cur == o && o.Len() == 0 {
		delete(r.observables, k)
	}
}
