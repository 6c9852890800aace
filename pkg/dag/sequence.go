package dag

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	perrors "github.com/matzehuels/pipelayout/pkg/errors"
)

// Sequence returns every node exactly once in an order where each node comes
// after all of its parents (a topological order).
//
// Sequence uses Kahn's algorithm with a FIFO queue. The queue is seeded with
// all nodes of in-degree zero in insertion order, and the children of a
// dequeued node are released in edge order, so the result is fully
// determined by the graph's construction order. For a diamond a→b, a→c,
// b→d, c→d built in that order the sequence is [a b c d].
//
// If some nodes can never be released the graph contains a cycle and
// Sequence returns a [perrors.CyclicGraphError] listing the unresolved nodes
// (in insertion order) and the cycles among them. An empty graph yields an
// empty, non-nil slice.
func (d *DAG) Sequence() ([]string, error) {
	inDegree := make(map[string]int, len(d.order))
	queue := make([]string, 0, len(d.order))
	for _, n := range d.order {
		degree := len(d.incoming[n.ID])
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	out := make([]string, 0, len(d.order))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		out = append(out, curr)

		for _, child := range d.outgoing[curr] {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(out) < len(d.order) {
		return nil, d.cycleError(inDegree)
	}
	return out, nil
}

// Cycles returns the groups of nodes that lie on a directed cycle: the
// strongly connected components with more than one node, plus single nodes
// that depend on themselves. Members of each group and the groups themselves
// are ordered by node insertion order. An acyclic graph yields nil.
func (d *DAG) Cycles() [][]string {
	index := make(map[string]int64, len(d.order))
	g := simple.NewDirectedGraph()
	for i, n := range d.order {
		index[n.ID] = int64(i)
		g.AddNode(simple.Node(i))
	}

	selfLoops := make(map[int64]bool)
	for _, e := range d.edges {
		from, to := index[e.From], index[e.To]
		if from == to {
			selfLoops[from] = true
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
	}

	var groups [][]int64
	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) == 1 && !selfLoops[scc[0].ID()] {
			continue
		}
		ids := make([]int64, len(scc))
		for i, n := range scc {
			ids[i] = n.ID()
		}
		slices.Sort(ids)
		groups = append(groups, ids)
	}
	slices.SortFunc(groups, func(a, b []int64) int { return int(a[0] - b[0]) })

	cycles := make([][]string, 0, len(groups))
	for _, ids := range groups {
		members := make([]string, len(ids))
		for i, id := range ids {
			members[i] = d.order[id].ID
		}
		cycles = append(cycles, members)
	}
	if len(cycles) == 0 {
		return nil
	}
	return cycles
}

// cycleError builds the error for a graph whose Kahn traversal stalled with
// the given residual in-degrees.
func (d *DAG) cycleError(inDegree map[string]int) error {
	var residual []string
	for _, n := range d.order {
		if inDegree[n.ID] > 0 {
			residual = append(residual, n.ID)
		}
	}
	return &perrors.CyclicGraphError{Residual: residual, Cycles: d.Cycles()}
}
