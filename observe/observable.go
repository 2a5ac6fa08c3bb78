package observe

import "sync"

// Observable is one (subject, path) pair and its ordered registrations.
// Registration order is notification order.
type Observable struct {
	registry *Registry
	subject  Subject
	path     string

	mu     sync.Mutex
	regs   []*Registration
	seeded bool
	last   any
	print  fingerprint
}

func newObservable(r *Registry, subject Subject, path string) *Observable {
	o := &Observable{
		registry: r,
		subject:  subject,
		path:     path,
	}
	if v, err := subject.Property(path); err == nil {
		o.remember(v)
	}
	return o
}

// Subject returns the observed subject.
func (o *Observable) Subject() Subject {
	return o.subject
}

// Path returns the observed property path.
func (o *Observable) Path() string {
	return o.path
}

// Len is the number of live registrations.
func (o *Observable) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.regs)
}

func (o *Observable) add(reg *Registration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.regs = append(o.regs, reg)
}

func (o *Observable) remove(reg *Registration) {
	o.mu.Lock()
	for i, r := range o.regs {
		if r == reg {
			o.regs = append(o.regs[:i:i], o.regs[i+1:]...)
			break
		}
	}
	empty := len(o.regs) == 0
	o.mu.Unlock()

	if empty {
		o.registry.evict(o)
	}
}

func (o *Observable) snapshot() []*Registration {
	o.mu.Lock()
	defer o.mu.Unlock()
	regs := make([]*Registration, len(o.regs))
	copy(regs, o.regs)
	return regs
}

// changed reports whether v differs from the cached value and caches it.
func (o *Observable) changed(v any) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	fp := fingerprintOf(v)
	if o.seeded {
		if fp.collection || o.print.collection {
			if fp == o.print {
				return false
			}
		} else if equal(o.last, v) {
			return false
		}
	}
	o.seeded = true
	o.last = v
	o.print = fp
	return true
}

func (o *Observable) remember(v any) {
	o.seeded = true
	o.last = v
	o.print = fingerprintOf(v)
}
