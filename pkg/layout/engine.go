package layout

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pipelayout/pkg/dag"
	"github.com/matzehuels/pipelayout/pkg/dag/transform"
	"github.com/matzehuels/pipelayout/pkg/graph"
)

// Result is the output of [Compute].
type Result struct {
	// Positions maps every step id to its pixel-space position.
	Positions map[string]Position `json:"positions"`
	// Components lists the weakly connected components in stacking order.
	Components []Component `json:"components"`
}

// Bounds returns the box enclosing every placed component, or the zero box
// when there are none.
func (r *Result) Bounds() BBox {
	if len(r.Components) == 0 {
		return BBox{}
	}
	b := r.Components[0].Bounds
	for _, c := range r.Components[1:] {
		b = b.Union(c.Bounds)
	}
	return b
}

// Compute lays out a pipeline.
//
// The pipeline's connections are derived, the graph is split into weakly
// connected components (largest first), each component is laid out with
// [LayoutComponent] and converted to pixel space with [Transform], and the
// components are stacked with [Stack].
//
// Compute never modifies p. It fails with a DanglingConnectionError when a
// step depends on an unknown step, a CyclicGraphError when the dependencies
// are cyclic, or an INVALID_OPTIONS error. An empty pipeline yields an empty
// result.
func Compute(p *graph.Pipeline, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g, err := dag.FromPipeline(p)
	if err != nil {
		return nil, err
	}
	if _, err := g.Sequence(); err != nil {
		return nil, err
	}

	comps := g.Components()
	layouts := make([]ComponentLayout, len(comps))
	layoutOne := func(i int) error {
		pts, err := LayoutComponent(g.Subgraph(comps[i]), opts)
		if err != nil {
			return err
		}
		layouts[i] = ComponentLayout{
			Steps:     comps[i],
			Positions: Transform(pts, opts.ScaleX, opts.ScaleY),
		}
		return nil
	}

	if opts.Parallel && len(comps) > 1 {
		var eg errgroup.Group
		eg.SetLimit(runtime.GOMAXPROCS(0))
		for i := range comps {
			eg.Go(func() error { return layoutOne(i) })
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range comps {
			if err := layoutOne(i); err != nil {
				return nil, err
			}
		}
	}

	positions, placed := Stack(layouts, opts)
	return &Result{Positions: positions, Components: placed}, nil
}

// LayoutComponent computes unit-space coordinates for one connected DAG.
//
// Rows are assigned by longest path, long edges are subdivided with dummy
// nodes, rows are ordered by opts.Orderer, and every slot of row r at index
// i of n is placed at
//
//	x = (i − (n−1)/2) · NodeRadius,  y = r · NodeRadius
//
// so each row is centred on x = 0 and any two slots are at least NodeRadius
// apart. Dummy nodes take a slot but are left out of the result.
//
// g is not modified. The only possible error is a CyclicGraphError.
func LayoutComponent(g *dag.DAG, opts Options) (map[string]Position, error) {
	work := g.Subgraph(dag.NodeIDs(g.Nodes()))
	if err := transform.AssignLayers(work); err != nil {
		return nil, err
	}
	transform.Subdivide(work)

	orders := opts.orderer().OrderRows(work)

	pts := make(map[string]Position, g.NodeCount())
	for row, ids := range orders {
		center := float64(len(ids)-1) / 2
		for i, id := range ids {
			if n, ok := work.Node(id); !ok || n.IsSynthetic() {
				continue
			}
			pts[id] = Position{
				X: (float64(i) - center) * opts.NodeRadius,
				Y: float64(row) * opts.NodeRadius,
			}
		}
	}
	return pts, nil
}

// Apply returns a derived copy of p with every step's meta_data.position set
// from res. Steps missing from res keep their stored position.
func Apply(p *graph.Pipeline, res *Result) (*graph.Pipeline, error) {
	out, err := graph.Derive(p)
	if err != nil {
		return nil, err
	}
	for _, s := range out.Steps() {
		if pos, ok := res.Positions[s.UUID]; ok {
			s.MetaData.Position = [2]float64{pos.X, pos.Y}
		}
	}
	return out, nil
}
