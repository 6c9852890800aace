package dag

import (
	"slices"

	"github.com/matzehuels/pipelayout/pkg/graph"
)

// FromPipeline derives the pipeline's connections and builds a DAG with one
// node per step, in step order, and one edge per (de-duplicated) dependency.
// Children of every node appear in the order of the step's derived
// OutgoingConnections.
//
// The returned graph carries no row assignment yet. Errors from
// [graph.Derive] are returned unchanged.
func FromPipeline(p *graph.Pipeline) (*DAG, error) {
	derived, err := graph.Derive(p)
	if err != nil {
		return nil, err
	}

	g := New()
	for _, s := range derived.Steps() {
		if err := g.AddNode(Node{ID: s.UUID}); err != nil {
			return nil, err
		}
	}
	for _, s := range derived.Steps() {
		for _, parent := range s.IncomingConnections {
			if err := g.AddEdge(Edge{From: parent, To: s.UUID}); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Components splits the graph into weakly connected components.
//
// Edges are treated as undirected. Nodes are visited in insertion order; each
// unvisited node starts a breadth-first traversal that follows parents, then
// children. Members of each component are listed in insertion order.
//
// Components are ordered by descending size. Equal-sized components keep the
// order in which they were discovered. An empty graph yields nil.
func (d *DAG) Components() [][]string {
	index := make(map[string]int, len(d.order))
	for i, n := range d.order {
		index[n.ID] = i
	}

	visited := make(map[string]bool, len(d.order))
	var comps [][]string
	for _, start := range d.order {
		if visited[start.ID] {
			continue
		}
		visited[start.ID] = true
		members := []string{start.ID}
		for queue := []string{start.ID}; len(queue) > 0; {
			curr := queue[0]
			queue = queue[1:]
			for _, next := range slices.Concat(d.incoming[curr], d.outgoing[curr]) {
				if visited[next] {
					continue
				}
				visited[next] = true
				members = append(members, next)
				queue = append(queue, next)
			}
		}
		slices.SortFunc(members, func(a, b string) int { return index[a] - index[b] })
		comps = append(comps, members)
	}

	slices.SortStableFunc(comps, func(a, b []string) int { return len(b) - len(a) })
	return comps
}

// Subgraph returns a new DAG containing the given nodes (in the order given)
// and every edge whose endpoints are both included, in edge insertion order.
// Unknown IDs are ignored. Nodes are copied, so the subgraph can be
// transformed without affecting the receiver.
func (d *DAG) Subgraph(ids []string) *DAG {
	sub := New()
	for _, id := range ids {
		n, ok := d.nodes[id]
		if !ok {
			continue
		}
		_ = sub.AddNode(*n)
	}
	for _, e := range d.edges {
		if _, ok := sub.nodes[e.From]; !ok {
			continue
		}
		if _, ok := sub.nodes[e.To]; !ok {
			continue
		}
		_ = sub.AddEdge(e)
	}
	return sub
}
