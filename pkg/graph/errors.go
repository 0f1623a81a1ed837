package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingDependency matches errors caused by references to nodes that
	// are not registered: a [*MissingDependencyError] from AddDependency or an
	// [*UnknownNodeError] from AddDependency or resolution.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrCircularDependency matches a [*CircularDependencyError].
	ErrCircularDependency = errors.New("circular dependency")
)

// MissingDependencyError is returned by [Graph.AddDependency] when the
// dependency target has not been added to the graph.
type MissingDependencyError[K comparable] struct {
	Node       K // node that declared the dependency
	Dependency K // unregistered target
}

func (e *MissingDependencyError[K]) Error() string {
	return fmt.Sprintf("Dependency %q required for %q but is not set.", label(e.Dependency), label(e.Node))
}

// Is reports whether target is [ErrMissingDependency].
func (e *MissingDependencyError[K]) Is(target error) bool { return target == ErrMissingDependency }

// UnknownNodeError is returned when an operation names a node that is not
// registered: the dependent side of [Graph.AddDependency], the start of
// [Graph.ResolveNode], or a member of the subset given to [Graph.ResolveNodes].
type UnknownNodeError[K comparable] struct {
	Node K
}

func (e *UnknownNodeError[K]) Error() string {
	return fmt.Sprintf("Node %q is not set.", label(e.Node))
}

// Is reports whether target is [ErrMissingDependency].
func (e *UnknownNodeError[K]) Is(target error) bool { return target == ErrMissingDependency }

// CircularDependencyError is returned by resolution when a dependency of the
// node being processed is still in progress. Node > Dependency is the edge
// that closed the cycle.
type CircularDependencyError[K comparable] struct {
	Node       K
	Dependency K
}

func (e *CircularDependencyError[K]) Error() string {
	return fmt.Sprintf("Circular dependency %s > %s", label(e.Node), label(e.Dependency))
}

// Is reports whether target is [ErrCircularDependency].
func (e *CircularDependencyError[K]) Is(target error) bool { return target == ErrCircularDependency }

func label[K comparable](id K) string { return fmt.Sprint(id) }
