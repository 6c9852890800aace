package dag

import (
	"maps"
	"slices"
)

// CountCrossings sums [CountLayerCrossings] over every pair of consecutive
// rows in orders. Each row lists node IDs left to right; a row missing from
// the map counts as empty.
func CountCrossings(g *DAG, orders map[int][]string) int {
	total := 0
	for _, r := range slices.Sorted(maps.Keys(orders)) {
		total += CountLayerCrossings(g, orders[r], orders[r+1])
	}
	return total
}

// CountLayerCrossings counts the crossings among edges running from upper
// to lower. Edges (u1,v1) and (u2,v2) cross when u1 is left of u2 but v1 is
// right of v2, so the count is the number of inversions in the lower
// positions of the edges taken in upper order. Children outside lower are
// ignored.
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	pos := PosMap(lower)

	tree := make(fenwick, len(lower)+1)
	seen, crossings := 0, 0
	for _, u := range upper {
		targets := make([]int, 0, len(g.Children(u)))
		for _, child := range g.Children(u) {
			if p, ok := pos[child]; ok {
				targets = append(targets, p)
			}
		}
		// Edges sharing an upper endpoint never cross each other: count all
		// of them against earlier nodes before recording any.
		for _, p := range targets {
			crossings += seen - tree.prefix(p)
		}
		for _, p := range targets {
			tree.add(p)
		}
		seen += len(targets)
	}
	return crossings
}

// fenwick is a binary indexed tree over lower-row positions.
type fenwick []int

// add records one edge ending at position p.
func (f fenwick) add(p int) {
	for i := p + 1; i < len(f); i += i & -i {
		f[i]++
	}
}

// prefix returns the number of recorded edges ending at or left of p.
func (f fenwick) prefix(p int) int {
	n := 0
	for i := p + 1; i > 0; i -= i & -i {
		n += f[i]
	}
	return n
}
