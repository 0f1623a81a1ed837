package fixture

import (
	"context"
	"errors"
	"time"

	ferrors "github.com/matzehuels/fixturegraph/pkg/errors"
	"github.com/matzehuels/fixturegraph/pkg/graph"
	"github.com/matzehuels/fixturegraph/pkg/observability"
)

// Resolve modes passed to observability hooks.
const (
	ModeAll    = "all"
	ModeNode   = "node"
	ModeSubset = "subset"
)

// Graph builds the dependency graph of the manifest. All fixtures are
// registered before any dependency is added.
func (m *Manifest) Graph() (*graph.Graph[string], error) {
	g := graph.New[string]()
	for _, f := range m.Fixtures {
		g.AddNode(f.Name)
	}
	for _, f := range m.Fixtures {
		for _, dep := range f.DependsOn {
			if err := g.AddDependency(f.Name, dep); err != nil {
				return nil, wrapGraphError(err)
			}
		}
	}
	return g, nil
}

// Order returns fixtures in load order. With no names the whole manifest is
// resolved; with one name that fixture and its dependencies; with several,
// the subset seeded in the given order.
func (m *Manifest) Order(ctx context.Context, names ...string) ([]*Fixture, error) {
	g, err := m.Graph()
	if err != nil {
		return nil, err
	}

	mode := ModeSubset
	switch len(names) {
	case 0:
		mode = ModeAll
	case 1:
		mode = ModeNode
	}

	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, mode, seedCount(g, names))
	start := time.Now()

	var order []string
	switch mode {
	case ModeAll:
		order, err = g.Resolve()
	case ModeNode:
		order, err = g.ResolveNode(names[0])
	default:
		order, err = g.ResolveNodes(names)
	}
	if err != nil {
		err = wrapGraphError(err)
		hooks.OnResolveComplete(ctx, mode, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnResolveComplete(ctx, mode, len(order), time.Since(start), nil)

	byName := make(map[string]*Fixture, len(m.Fixtures))
	for i := range m.Fixtures {
		byName[m.Fixtures[i].Name] = &m.Fixtures[i]
	}
	fixtures := make([]*Fixture, len(order))
	for i, name := range order {
		fixtures[i] = byName[name]
	}
	return fixtures, nil
}

// Validate builds the graph and resolves every fixture, returning the first
// missing dependency or cycle.
func (m *Manifest) Validate() error {
	if err := m.validate(); err != nil {
		return err
	}
	g, err := m.Graph()
	if err != nil {
		return err
	}
	if _, err := g.Resolve(); err != nil {
		return wrapGraphError(err)
	}
	return nil
}

func seedCount(g *graph.Graph[string], names []string) int {
	if len(names) == 0 {
		return g.Len()
	}
	return len(names)
}

// wrapGraphError maps graph errors to coded errors.
func wrapGraphError(err error) error {
	var unknown *graph.UnknownNodeError[string]
	switch {
	case errors.As(err, &unknown):
		return ferrors.Wrap(ferrors.ErrCodeFixtureNotFound, err, "unknown fixture %q", unknown.Node)
	case errors.Is(err, graph.ErrMissingDependency):
		return ferrors.Wrap(ferrors.ErrCodeMissingDependency, err, "build fixture graph")
	case errors.Is(err, graph.ErrCircularDependency):
		return ferrors.Wrap(ferrors.ErrCodeCircularDependency, err, "order fixtures")
	}
	return ferrors.Wrap(ferrors.ErrCodeInternal, err, "order fixtures")
}
