// Package graph provides an insertion-ordered dependency graph and the
// depth-first resolver that turns it into a load order.
//
// # Overview
//
// A [Graph] stores a set of node identifiers and, for every node, the ordered
// list of nodes it depends on. Resolution produces a linear order in which
// every node appears after all of its dependencies. The package is generic
// over the identifier type; fixturegraph itself uses string fixture names.
//
// # Basic Usage
//
// Register nodes with [Graph.AddNode], then declare edges with
// [Graph.AddDependency]. Dependency targets must already be registered:
//
//	g := graph.New[string]()
//	g.AddNode("orgs")
//	g.AddNode("users")
//	_ = g.AddDependency("users", "orgs")
//
//	order, err := g.Resolve() // [orgs users]
//
// # Resolution
//
// Three entry points share one traversal:
//
//   - [Graph.ResolveNode]: one node and its transitive dependencies
//   - [Graph.ResolveNodes]: a caller-chosen subset, seeded in the given order
//   - [Graph.Resolve]: every node, seeded in insertion order
//
// [Graph.All] ranges over the same sequence as [Graph.Resolve] and recomputes
// it on every range statement.
//
// The traversal is a post-order DFS with three states per node (unvisited,
// in progress, resolved). State is shared between seeds of one call and
// thrown away afterwards, so a graph never caches an order. An explicit stack
// of frames replaces recursion, which keeps deep chains off the goroutine
// stack.
//
// # Determinism
//
// Output order is a function of insertion order, not only of graph shape.
// Seeds are visited in node insertion order (or subset order) and the
// dependencies of a node are visited in the order they were added.
//
// # Errors
//
// [Graph.AddDependency] returns a [*MissingDependencyError] when the target is
// unknown. Resolution returns a [*CircularDependencyError] naming the edge that
// closed a cycle, or an [*UnknownNodeError] when a seed is not registered.
// Use errors.Is with [ErrMissingDependency] or [ErrCircularDependency] to test
// the error class without naming the identifier type.
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. Resolution only reads
// the graph, so concurrent resolve calls on a graph that is no longer being
// modified are safe.
package graph
