package layout

import (
	"maps"
	"slices"

	"github.com/matzehuels/pipelayout/pkg/dag"
)

// DefaultPasses is the number of barycenter sweeps used when
// [Barycentric.Passes] is zero.
const DefaultPasses = 24

// Orderer determines the left-to-right sequence of nodes in each row of a
// layered graph. Implementations must be deterministic: the same graph
// (including node and edge insertion order) must always yield the same
// orders.
//
// The graph passed to OrderRows has rows assigned and every edge joining
// consecutive rows. The result maps each row to all of its node IDs.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// Barycentric is the classic Sugiyama barycenter heuristic with a transpose
// refinement step.
//
// The algorithm:
//
//  1. Initialize every row in depth-first discovery order from the sources,
//     visited in insertion order
//  2. Alternate top-down and bottom-up sweeps, sorting each row by the mean
//     position of its neighbours in the row just swept (stable sort; nodes
//     without neighbours there keep their current index as key)
//  3. After each sweep, swap adjacent nodes while a swap reduces the local
//     crossing count
//  4. Keep the ordering with the fewest crossings seen; the earliest wins ties
//
// Sweeping stops early once an ordering without crossings is found.
type Barycentric struct {
	// Passes is the number of sweeps. Zero means DefaultPasses.
	Passes int
}

// OrderRows implements [Orderer].
func (b Barycentric) OrderRows(g *dag.DAG) map[int][]string {
	passes := b.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}

	orders := initialOrders(g)
	rows := slices.Sorted(maps.Keys(orders))
	if len(rows) == 0 {
		return orders
	}

	best := cloneOrders(orders)
	bestCross := dag.CountCrossings(g, orders)

	for pass := 0; pass < passes && bestCross > 0; pass++ {
		if pass%2 == 0 {
			for i := 1; i < len(rows); i++ {
				orders[rows[i]] = sortByBarycenter(orders[rows[i]], orders[rows[i-1]], g.Parents)
			}
		} else {
			for i := len(rows) - 2; i >= 0; i-- {
				orders[rows[i]] = sortByBarycenter(orders[rows[i]], orders[rows[i+1]], g.Children)
			}
		}
		transpose(g, orders, rows)

		if c := dag.CountCrossings(g, orders); c < bestCross {
			best, bestCross = cloneOrders(orders), c
		}
	}
	return best
}

// initialOrders places nodes in the order a depth-first traversal from the
// sources first reaches them. Nodes unreachable from a source (only possible
// on cyclic input) are appended in insertion order.
func initialOrders(g *dag.DAG) map[int][]string {
	orders := make(map[int][]string, g.RowCount())
	seen := make(map[string]bool, g.NodeCount())

	var visit func(id string)
	visit = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		n, _ := g.Node(id)
		orders[n.Row] = append(orders[n.Row], id)
		for _, child := range g.Children(id) {
			visit(child)
		}
	}

	for _, n := range g.Sources() {
		visit(n.ID)
	}
	for _, n := range g.Nodes() {
		visit(n.ID)
	}
	return orders
}

// sortByBarycenter returns row reordered by the mean index of each node's
// neighbours in the fixed row.
func sortByBarycenter(row, fixed []string, neighbours func(string) []string) []string {
	pos := dag.PosMap(fixed)
	keys := make(map[string]float64, len(row))
	for i, id := range row {
		sum, count := 0.0, 0
		for _, nb := range neighbours(id) {
			if p, ok := pos[nb]; ok {
				sum += float64(p)
				count++
			}
		}
		if count == 0 {
			keys[id] = float64(i)
			continue
		}
		keys[id] = sum / float64(count)
	}

	out := slices.Clone(row)
	slices.SortStableFunc(out, func(a, b string) int {
		ka, kb := keys[a], keys[b]
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	})
	return out
}

// transpose swaps adjacent nodes while doing so lowers the number of
// crossings on the edges incident to the pair. Every swap strictly lowers
// the total crossing count, so the loop terminates.
func transpose(g *dag.DAG, orders map[int][]string, rows []int) {
	for improved := true; improved; {
		improved = false
		for _, r := range rows {
			row := orders[r]
			if len(row) < 2 {
				continue
			}
			above := dag.PosMap(orders[r-1])
			below := dag.PosMap(orders[r+1])
			for i := 0; i+1 < len(row); i++ {
				u, v := row[i], row[i+1]
				current := pairCrossings(g, u, v, above, below)
				swapped := pairCrossings(g, v, u, above, below)
				if swapped < current {
					row[i], row[i+1] = v, u
					improved = true
				}
			}
		}
	}
}

// pairCrossings counts the crossings between edges of left and edges of
// right, with left placed immediately before right. Only neighbours found in
// above (parents) or below (children) are considered.
func pairCrossings(g *dag.DAG, left, right string, above, below map[string]int) int {
	return sideCrossings(g.Parents(left), g.Parents(right), above) +
		sideCrossings(g.Children(left), g.Children(right), below)
}

func sideCrossings(lnbr, rnbr []string, pos map[string]int) int {
	n := 0
	for _, l := range lnbr {
		lp, ok := pos[l]
		if !ok {
			continue
		}
		for _, r := range rnbr {
			if rp, ok := pos[r]; ok && rp < lp {
				n++
			}
		}
	}
	return n
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range orders {
		out[r] = slices.Clone(ids)
	}
	return out
}
