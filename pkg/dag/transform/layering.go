package transform

import (
	"github.com/matzehuels/pipelayout/pkg/dag"
)

// AssignLayers assigns nodes to horizontal rows (layers) based on their depth
// in the graph.
//
// AssignLayers uses a longest-path algorithm via topological sort (Kahn's
// algorithm) to compute row assignments. Each node is placed at one plus the
// maximum row of any of its parents, ensuring that:
//   - Source nodes (no incoming edges) are at row 0
//   - All parents are strictly above their children
//   - No node sits lower than its longest dependency chain requires
//
// Existing row assignments in the DAG are overwritten.
//
// # Cycles
//
// Layering is undefined for cyclic graphs. If some nodes never reach zero
// in-degree, AssignLayers leaves the graph untouched and returns the
// [errors.CyclicGraphError] produced by [dag.DAG.Sequence], naming the
// unresolved nodes and the cycles among them.
//
// # Performance
//
// Time complexity is O(V + E), where V is nodes and E is edges. Space
// complexity is O(V) for the queue and row/degree maps.
//
// [errors.CyclicGraphError]: github.com/matzehuels/pipelayout/pkg/errors.CyclicGraphError
func AssignLayers(g *dag.DAG) error {
	order, err := g.Sequence()
	if err != nil {
		return err
	}

	rows := make(map[string]int, len(order))
	for _, curr := range order {
		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
		}
	}

	g.SetRows(rows)
	return nil
}
