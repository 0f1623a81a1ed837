package graph

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	resolved
)

// frame is one pending node on the traversal stack. next is the index of the
// next dependency to visit.
type frame[K comparable] struct {
	id   K
	next int
}

// resolve runs a post-order DFS from each seed in turn. Visitation state is
// shared across seeds and local to this call.
func (g *Graph[K]) resolve(seeds []K) ([]K, error) {
	for _, s := range seeds {
		if !g.Has(s) {
			return nil, &UnknownNodeError[K]{Node: s}
		}
	}

	state := make(map[K]visitState, len(g.nodes))
	order := make([]K, 0, len(g.nodes))
	var stack []frame[K]

	for _, seed := range seeds {
		if state[seed] == resolved {
			continue
		}
		state[seed] = inProgress
		stack = append(stack[:0], frame[K]{id: seed})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := g.edges[top.id]
			if top.next == len(deps) {
				state[top.id] = resolved
				order = append(order, top.id)
				stack = stack[:len(stack)-1]
				continue
			}

			dep := deps[top.next]
			top.next++
			switch state[dep] {
			case inProgress:
				return nil, &CircularDependencyError[K]{Node: top.id, Dependency: dep}
			case resolved:
				continue
			}
			state[dep] = inProgress
			stack = append(stack, frame[K]{id: dep})
		}
	}
	return order, nil
}
