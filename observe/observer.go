package observe

// Observer owns a tree of registrations. Everything registered through it
// hangs off a single anchor, so UnregisterAll releases the lot.
type Observer struct {
	registry *Registry
	anchor   *Registration
}

// NewObserver returns an Observer bound to r.
func NewObserver(r *Registry) *Observer {
	return &Observer{
		registry: r,
		anchor:   r.Anchor(),
	}
}

// Registry returns the registry the observer registers with.
func (o *Observer) Registry() *Registry {
	return o.registry
}

// Observe registers cb and makes the registration a dependent of the
// observer's anchor.
func (o *Observer) Observe(subject Subject, path string, cb Callback) (*Registration, error) {
	return o.ObserveUnder(nil, subject, path, cb)
}

// ObserveUnder registers cb as a dependent of parent, or of the anchor when
// parent is nil.
func (o *Observer) ObserveUnder(parent *Registration, subject Subject, path string, cb Callback) (*Registration, error) {
	if o.Disposed() {
		return nil, ErrObserverDisposed
	}
	reg, err := o.registry.Observe(subject, path, cb)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		parent = o.anchor
	}
	o.registry.AddDependent(parent, reg)
	return reg, nil
}

// Disposed reports whether UnregisterAll has run.
func (o *Observer) Disposed() bool {
	return o.anchor.Disposed()
}

// UnregisterAll disposes every registration made through the observer.
func (o *Observer) UnregisterAll() {
	o.anchor.Unobserve()
}

// Anchor returns a fresh registration owned by the observer. Registrations
// hung under it can be released as a group without touching the rest.
func (o *Observer) Anchor() *Registration {
	a := o.registry.Anchor()
	o.registry.AddDependent(o.anchor, a)
	return a
}
