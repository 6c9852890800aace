// Package dag provides the directed graph arena the layout engine and the
// topological sequencer operate on.
//
// # Overview
//
// A pipeline is turned into a [DAG] by [FromPipeline]: one node per step and
// one edge per dependency, directed from the prerequisite step to its
// dependent. Nodes keep their insertion order, and every traversal in this
// package honours it, so identical pipelines always yield identical
// components, layers and sequences.
//
// Nodes carry a row (layer). Rows are assigned by the [transform] subpackage
// and are what the crossing counters in this package operate on.
//
// # Basic Usage
//
//	g, err := dag.FromPipeline(p)
//	if err != nil {
//	    return err // DanglingConnectionError, DUPLICATE_STEP, ...
//	}
//	for _, ids := range g.Components() {
//	    sub := g.Subgraph(ids)
//	    // lay out sub independently
//	}
//	order, err := g.Sequence()
//
// Graphs can also be built by hand with [New], [DAG.AddNode] and
// [DAG.AddEdge].
//
// # Components
//
// [DAG.Components] returns the weakly connected components, largest first,
// with equal-sized components in discovery order. The layout engine stacks
// them in exactly this order.
//
// # Sequencing and Cycles
//
// [DAG.Sequence] is Kahn's algorithm over an explicit FIFO queue. When the
// graph is cyclic it fails with a [errors.CyclicGraphError] carrying both the
// steps that could not be sequenced and the cycles themselves, found with
// Tarjan's strongly connected components algorithm by [DAG.Cycles].
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count edge crossings between
// ordered rows as inversions, using a binary indexed tree over the lower
// row. The layout engine compares candidate orderings with them.
//
// # Node Types
//
//   - [NodeKindRegular]: pipeline steps
//   - [NodeKindSubdivider]: dummy nodes that break long edges into
//     single-row hops; they occupy a slot during ordering but are never part
//     of the layout output
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Subgraphs share nothing
// with their parent graph and may be processed on separate goroutines.
//
// [transform]: github.com/matzehuels/pipelayout/pkg/dag/transform
// [errors.CyclicGraphError]: github.com/matzehuels/pipelayout/pkg/errors.CyclicGraphError
package dag
