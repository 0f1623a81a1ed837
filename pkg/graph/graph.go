package graph

import (
	"iter"
	"slices"
)

// Graph is an insertion-ordered dependency graph over identifiers of type K.
//
// The zero value is not usable - use [New].
type Graph[K comparable] struct {
	nodes []K
	index map[K]struct{}
	edges map[K][]K // node -> dependencies, in insertion order
}

// New creates an empty graph.
func New[K comparable]() *Graph[K] {
	return &Graph[K]{
		index: make(map[K]struct{}),
		edges: make(map[K][]K),
	}
}

// AddNode registers id. Adding an id that is already registered is a no-op
// and keeps its original position.
func (g *Graph[K]) AddNode(id K) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = struct{}{}
	g.nodes = append(g.nodes, id)
}

// AddDependency records that node depends on dependency. Dependencies of a
// node are visited in the order they were added.
//
// Returns a [*MissingDependencyError] if dependency is not registered, or an
// [*UnknownNodeError] if node is not registered.
func (g *Graph[K]) AddDependency(node, dependency K) error {
	if !g.Has(dependency) {
		return &MissingDependencyError[K]{Node: node, Dependency: dependency}
	}
	if !g.Has(node) {
		return &UnknownNodeError[K]{Node: node}
	}
	g.edges[node] = append(g.edges[node], dependency)
	return nil
}

// Has reports whether id is registered.
func (g *Graph[K]) Has(id K) bool {
	_, ok := g.index[id]
	return ok
}

// Len returns the number of registered nodes.
func (g *Graph[K]) Len() int { return len(g.nodes) }

// EdgeCount returns the number of dependency edges.
func (g *Graph[K]) EdgeCount() int {
	n := 0
	for _, deps := range g.edges {
		n += len(deps)
	}
	return n
}

// Nodes returns a copy of the registered nodes in insertion order.
func (g *Graph[K]) Nodes() []K { return slices.Clone(g.nodes) }

// Dependencies returns a copy of the direct dependencies of id in insertion
// order. Returns nil if id has none or is not registered.
func (g *Graph[K]) Dependencies(id K) []K { return slices.Clone(g.edges[id]) }

// ResolveNode returns start preceded by all of its transitive dependencies.
// start is the last element of the result.
func (g *Graph[K]) ResolveNode(start K) ([]K, error) {
	return g.resolve([]K{start})
}

// ResolveNodes resolves every node in subset and their transitive
// dependencies. Seeds are processed in the given order and share one
// traversal state, so each node appears at most once. Nodes not reachable
// from subset are never visited.
func (g *Graph[K]) ResolveNodes(subset []K) ([]K, error) {
	return g.resolve(subset)
}

// Resolve orders the whole graph, seeding the traversal with every node in
// insertion order.
func (g *Graph[K]) Resolve() ([]K, error) {
	return g.resolve(g.nodes)
}

// All returns an iterator over the same sequence as [Graph.Resolve]. The order
// is recomputed every time the iterator is ranged over. If resolution fails,
// the iterator yields a single pair carrying the zero K and the error.
func (g *Graph[K]) All() iter.Seq2[K, error] {
	return func(yield func(K, error) bool) {
		order, err := g.Resolve()
		if err != nil {
			var zero K
			yield(zero, err)
			return
		}
		for _, id := range order {
			if !yield(id, nil) {
				return
			}
		}
	}
}
