package transform

import (
	"fmt"

	"github.com/matzehuels/pipelayout/pkg/dag"
)

// Subdivide breaks edges that span multiple rows into sequences of single-row
// edges connected by synthetic subdivider (dummy) nodes.
//
// After Subdivide every edge connects nodes in consecutive rows
// (parent.Row + 1 == child.Row). For example:
//
//	Before: load (row 0) → report (row 3)
//	After:  load → load_sub_1 → load_sub_2 → report
//
// Dummies occupy a slot in their row during crossing minimization, which
// keeps long connections from being drawn through unrelated steps. They are
// never part of the layout output.
//
// # Node IDs
//
// Subdivider nodes are assigned unique IDs of the form "master_sub_row" (e.g.,
// "load_sub_1"). If a collision occurs, a numeric suffix is appended
// ("load_sub_1__2"). All generated IDs are tracked to guarantee uniqueness.
//
// Dummies are added in edge order, so the result is deterministic for
// identical input.
//
// Subdivide expects rows assigned by [AssignLayers]. An empty graph is left
// unchanged.
func Subdivide(g *dag.DAG) {
	gen := newIDGen(g.Nodes())

	var toRemove []dag.Edge
	for _, e := range g.Edges() {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if !srcOK || !dstOK || dst.Row <= src.Row+1 {
			continue
		}

		toRemove = append(toRemove, e)
		prevID := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			prevID = addSubdivider(g, gen, prevID, src.ID, row)
		}
		if err := g.AddEdge(dag.Edge{From: prevID, To: dst.ID}); err != nil {
			panic(err)
		}
	}

	for _, e := range toRemove {
		g.RemoveEdge(e.From, e.To)
	}
}

func addSubdivider(g *dag.DAG, gen *idGen, from, master string, row int) string {
	id := gen.next(master, row)
	if err := g.AddNode(dag.Node{
		ID:   id,
		Row:  row,
		Kind: dag.NodeKindSubdivider,
	}); err != nil {
		panic(err)
	}
	if err := g.AddEdge(dag.Edge{From: from, To: id}); err != nil {
		panic(err)
	}
	return id
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, row int) string {
	prefix := fmt.Sprintf("%s_sub_%d", base, row)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
