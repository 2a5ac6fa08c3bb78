package binding

import (
	"cmp"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/bindparty/observe"
)

var nodeIDs atomic.Uint64

// NextID hands out node IDs. Every Node tracked by a Graph takes its ID from
// here so IDs never collide across node types.
func NextID() uint64 {
	return nodeIDs.Add(1)
}

// Node is anything the graph can recompute.
type Node interface {
	ID() uint64
	Recompute() error
}

// Dependency is one (subject, path) a node reads.
type Dependency struct {
	Subject observe.Subject
	Path    string
}

// Graph records which nodes depend on which properties and coalesces
// invalidations. Within one registry batch a node recomputes once no
// matter how many of its dependencies changed.
type Graph struct {
	registry *observe.Registry

	mu        sync.Mutex
	nodes     map[uint64]Node
	deps      map[uint64][]Dependency
	queue     []Node
	scheduled bool
	pending   mapset.Set[uint64]
}

// NewGraph returns an empty graph notifying through r.
func NewGraph(r *observe.Registry) *Graph {
	return &Graph{
		registry: r,
		nodes:    map[uint64]Node{},
		deps:     map[uint64][]Dependency{},
		pending:  mapset.NewSet[uint64](),
	}
}

// Registry returns the registry the graph schedules through.
func (g *Graph) Registry() *observe.Registry {
	return g.registry
}

// Track registers n as an observer of every dependency through owner.
// Registrations made before a failure stay with owner; the caller disposes it.
func (g *Graph) Track(owner *observe.Observer, n Node, deps ...Dependency) error {
	g.mu.Lock()
	g.nodes[n.ID()] = n
	g.mu.Unlock()

	invalidate := func(observe.Change) error {
		return g.Invalidate(n)
	}
	for _, d := range deps {
		if _, err := owner.Observe(d.Subject, d.Path, invalidate); err != nil {
			return err
		}
		g.mu.Lock()
		g.deps[n.ID()] = append(g.deps[n.ID()], d)
		g.mu.Unlock()
	}
	return nil
}

// Untrack forgets n. Its registrations belong to the owner passed to Track.
func (g *Graph) Untrack(n Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.nodes, n.ID())
	delete(g.deps, n.ID())
	g.queue = slices.DeleteFunc(g.queue, func(q Node) bool { return q.ID() == n.ID() })
	g.pending.Remove(n.ID())
}

// Invalidate schedules n for recomputation at the end of the current batch.
func (g *Graph) Invalidate(n Node) error {
	if !g.pending.Add(n.ID()) {
		return nil
	}

	g.mu.Lock()
	g.queue = append(g.queue, n)
	schedule := !g.scheduled
	g.scheduled = true
	g.mu.Unlock()

	if !schedule {
		return nil
	}
	return g.registry.Defer(g.flush)
}

func (g *Graph) flush() error {
	g.mu.Lock()
	g.scheduled = false
	g.mu.Unlock()

	var errs []error
	for {
		g.mu.Lock()
		if len(g.queue) == 0 {
			g.mu.Unlock()
			break
		}
		n := g.queue[0]
		g.queue = g.queue[1:]
		g.mu.Unlock()

		// n stays pending while it runs so echoes of its own writes are dropped.
		err := n.Recompute()
		g.pending.Remove(n.ID())
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Dependencies returns what n was tracked against.
func (g *Graph) Dependencies(n Node) []Dependency {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.deps[n.ID()])
}

// Dependents returns the nodes depending on (subject, path), ordered by ID.
func (g *Graph) Dependents(subject observe.Subject, path string) []Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []Node
	for id, deps := range g.deps {
		if slices.Contains(deps, Dependency{Subject: subject, Path: path}) {
			out = append(out, g.nodes[id])
		}
	}
	slices.SortFunc(out, func(a, b Node) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return out
}

// Len is the number of tracked nodes.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}
