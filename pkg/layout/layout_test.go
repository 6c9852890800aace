package layout

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/pipelayout/pkg/dag"
	perrors "github.com/matzehuels/pipelayout/pkg/errors"
	"github.com/matzehuels/pipelayout/pkg/graph"
)

var testOpts = Options{
	NodeRadius:          1,
	ScaleX:              200,
	ScaleY:              120,
	VerticalGraphMargin: 60,
	StepHeight:          60,
}

// pipe builds a pipeline from "id" or "id<-p1,p2" specs, in order.
func pipe(specs ...string) *graph.Pipeline {
	p := graph.New("test")
	for _, s := range specs {
		id, deps, found := strings.Cut(s, "<-")
		var incoming []string
		if found {
			incoming = strings.Split(deps, ",")
		}
		p.MustAddStep(graph.Step{UUID: id, IncomingConnections: incoming})
	}
	return p
}

func assertPos(t *testing.T, got map[string]Position, want map[string]Position) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d positions, want %d: %v", len(got), len(want), got)
	}
	for id, w := range want {
		if g, ok := got[id]; !ok || g != w {
			t.Errorf("position[%s] = %v, want %v", id, g, w)
		}
	}
}

func TestComputeChainAndIsolated(t *testing.T) {
	res, err := Compute(pipe("A", "B<-A", "C<-B", "D"), testOpts)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	assertPos(t, res.Positions, map[string]Position{
		"A": {0, 0},
		"B": {200, 0},
		"C": {400, 0},
		"D": {0, 120},
	})

	if len(res.Components) != 2 {
		t.Fatalf("got %d components, want 2", len(res.Components))
	}
	if !slices.Equal(res.Components[0].Steps, []string{"A", "B", "C"}) {
		t.Errorf("first component = %v, want [A B C]", res.Components[0].Steps)
	}
	if !slices.Equal(res.Components[1].Steps, []string{"D"}) {
		t.Errorf("second component = %v, want [D]", res.Components[1].Steps)
	}
	if res.Components[0].Bounds.MaxY+testOpts.StepHeight+testOpts.VerticalGraphMargin > res.Components[1].Bounds.MinY {
		t.Errorf("components overlap: %+v", res.Components)
	}
}

func TestComputeDiamond(t *testing.T) {
	res, err := Compute(pipe("A", "B<-A", "C<-A", "D<-B,C"), testOpts)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	assertPos(t, res.Positions, map[string]Position{
		"A": {0, 60},
		"B": {200, 120},
		"C": {200, 0},
		"D": {400, 60},
	})
}

func TestComputeLongEdgeUsesDummySlot(t *testing.T) {
	res, err := Compute(pipe("a", "b<-a", "c<-b,a"), testOpts)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	// The a→c edge gets a dummy next to b, so b is pushed off the a–c line
	// and the dummy itself does not appear in the output.
	assertPos(t, res.Positions, map[string]Position{
		"a": {0, 0},
		"b": {200, 60},
		"c": {400, 0},
	})
}

func TestComputeEmpty(t *testing.T) {
	res, err := Compute(graph.New("empty"), testOpts)
	if err != nil {
		t.Fatalf("Compute(empty) error: %v", err)
	}
	if res.Positions == nil || len(res.Positions) != 0 {
		t.Errorf("Positions = %v, want empty map", res.Positions)
	}
	if len(res.Components) != 0 {
		t.Errorf("Components = %v, want none", res.Components)
	}
}

func TestComputeErrors(t *testing.T) {
	tests := []struct {
		name   string
		p      *graph.Pipeline
		opts   Options
		target error
		code   perrors.Code
	}{
		{"cycle", pipe("A<-B", "B<-A"), testOpts, perrors.ErrCyclicGraph, perrors.ErrCodeCyclicGraph},
		{"self loop", pipe("A<-A"), testOpts, perrors.ErrCyclicGraph, perrors.ErrCodeCyclicGraph},
		{"dangling", pipe("A<-ghost"), testOpts, perrors.ErrDanglingConnection, perrors.ErrCodeDanglingConnection},
		{"zero radius", pipe("A"), Options{ScaleX: 1, ScaleY: 1}, nil, perrors.ErrCodeInvalidOptions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.p, tt.opts)
			if err == nil {
				t.Fatal("Compute() error = nil")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Compute() error = %v, want %v", err, tt.target)
			}
			if got := perrors.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %v, want %v", got, tt.code)
			}
		})
	}
}

// wide builds a pipeline with several components, fan-outs, reconverging
// paths and long edges.
func wide() *graph.Pipeline {
	p := graph.New("wide")
	for c := range 4 {
		root := fmt.Sprintf("c%d-root", c)
		p.MustAddStep(graph.Step{UUID: root})
		prev := []string{root}
		for layer := 1; layer <= 3+c; layer++ {
			var cur []string
			for k := range layer%3 + 1 {
				id := fmt.Sprintf("c%d-l%d-%d", c, layer, k)
				deps := []string{prev[k%len(prev)]}
				if layer > 2 && k == 0 {
					deps = append(deps, root)
				}
				p.MustAddStep(graph.Step{UUID: id, IncomingConnections: deps})
				cur = append(cur, id)
			}
			prev = cur
		}
	}
	p.MustAddStep(graph.Step{UUID: "lonely"})
	return p
}

func TestComputeDeterministic(t *testing.T) {
	p := wide()

	first, err := Compute(p, testOpts)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	for range 5 {
		again, err := Compute(p, testOpts)
		if err != nil {
			t.Fatalf("Compute() error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatal("Compute() is not deterministic")
		}
	}

	par := testOpts
	par.Parallel = true
	parallel, err := Compute(p, par)
	if err != nil {
		t.Fatalf("Compute(parallel) error: %v", err)
	}
	if !reflect.DeepEqual(first, parallel) {
		t.Error("parallel layout differs from sequential layout")
	}
}

func TestComputeProperties(t *testing.T) {
	p := wide()
	opts := testOpts
	opts.OffsetX, opts.OffsetY = 25, 40

	res, err := Compute(p, opts)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	if len(res.Positions) != p.Len() {
		t.Fatalf("got %d positions, want %d", len(res.Positions), p.Len())
	}

	seen := make(map[Position]string)
	for id, pos := range res.Positions {
		if other, dup := seen[pos]; dup {
			t.Errorf("%s and %s share position %v", id, other, pos)
		}
		seen[pos] = id
	}

	// Dependencies are drawn strictly to the left of their dependents.
	for _, e := range p.Edges() {
		if res.Positions[e.From].X >= res.Positions[e.To].X {
			t.Errorf("edge %s→%s does not flow left to right", e.From, e.To)
		}
	}

	b := res.Bounds()
	if b.MinX != opts.OffsetX || b.MinY != opts.OffsetY {
		t.Errorf("bounds min = (%g, %g), want (%g, %g)", b.MinX, b.MinY, opts.OffsetX, opts.OffsetY)
	}

	for i := 1; i < len(res.Components); i++ {
		prev, cur := res.Components[i-1], res.Components[i]
		if len(prev.Steps) < len(cur.Steps) {
			t.Errorf("component %d larger than component %d", i, i-1)
		}
		if prev.Bounds.MaxY+opts.StepHeight+opts.VerticalGraphMargin > cur.Bounds.MinY {
			t.Errorf("component %d overlaps component %d", i, i-1)
		}
		for _, id := range cur.Steps {
			if res.Positions[id].X < opts.OffsetX {
				t.Errorf("step %s left of the canvas origin", id)
			}
		}
	}
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	p := pipe("A", "B<-A")
	s, _ := p.Step("A")
	s.MetaData.Position = [2]float64{-5, -5}
	before := p.Clone()

	if _, err := Compute(p, testOpts); err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if !reflect.DeepEqual(before.Steps(), p.Steps()) {
		t.Error("Compute() modified its input pipeline")
	}
}

func TestApply(t *testing.T) {
	p := pipe("A", "B<-A", "C")
	res, err := Compute(p, testOpts)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	out, err := Apply(p, res)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	for _, s := range out.Steps() {
		want := res.Positions[s.UUID]
		if s.MetaData.Position != [2]float64{want.X, want.Y} {
			t.Errorf("%s position = %v, want %v", s.UUID, s.MetaData.Position, want)
		}
	}
	a, _ := out.Step("A")
	if !slices.Equal(a.OutgoingConnections, []string{"B"}) {
		t.Errorf("Apply() result not derived: %v", a.OutgoingConnections)
	}
	orig, _ := p.Step("A")
	if orig.MetaData.Position != [2]float64{} {
		t.Error("Apply() modified its input pipeline")
	}
}

func TestLayoutComponentSlots(t *testing.T) {
	g := dag.New()
	for _, id := range []string{"r", "a", "b", "c"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	for _, child := range []string{"a", "b", "c"} {
		_ = g.AddEdge(dag.Edge{From: "r", To: child})
	}

	pts, err := LayoutComponent(g, Options{NodeRadius: 2})
	if err != nil {
		t.Fatalf("LayoutComponent() error: %v", err)
	}
	assertPos(t, pts, map[string]Position{
		"r": {0, 0},
		"a": {-2, 2},
		"b": {0, 2},
		"c": {2, 2},
	})
	if g.RowCount() != 1 || g.NodeCount() != 4 {
		t.Error("LayoutComponent() modified its input graph")
	}
}

func TestTransform(t *testing.T) {
	in := map[string]Position{
		"a": {X: -0.5, Y: 0},
		"b": {X: 0.5, Y: 0},
		"c": {X: 0, Y: 1},
	}

	rotated := Rotate(in)
	assertPos(t, rotated, map[string]Position{
		"a": {0, 0.5},
		"b": {0, -0.5},
		"c": {1, 0},
	})

	got := Transform(in, 10, 100)
	assertPos(t, got, map[string]Position{
		"a": {0, 100},
		"b": {0, 0},
		"c": {10, 50},
	})

	if in["a"] != (Position{X: -0.5, Y: 0}) {
		t.Error("Transform() modified its input")
	}
}

func TestStack(t *testing.T) {
	comps := []ComponentLayout{
		{Steps: []string{"a", "b"}, Positions: map[string]Position{"a": {0, 0}, "b": {200, 120}}},
		{Steps: []string{"c"}, Positions: map[string]Position{"c": {0, 0}}},
		{Steps: []string{"d"}, Positions: map[string]Position{"d": {0, 0}}},
	}
	opts := Options{OffsetX: 10, OffsetY: 20, StepHeight: 60, VerticalGraphMargin: 30}

	positions, placed := Stack(comps, opts)
	assertPos(t, positions, map[string]Position{
		"a": {10, 20},
		"b": {210, 140},
		"c": {10, 230},
		"d": {10, 320},
	})
	if placed[1].Bounds != (BBox{MinX: 10, MinY: 230, MaxX: 10, MaxY: 230}) {
		t.Errorf("placed[1].Bounds = %+v", placed[1].Bounds)
	}

	res := Result{Positions: positions, Components: placed}
	if got := res.Bounds(); got != (BBox{MinX: 10, MinY: 20, MaxX: 210, MaxY: 320}) {
		t.Errorf("Result.Bounds() = %+v", got)
	}
}

func TestBBoxUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b BBox
		want BBox
	}{
		{"disjoint", BBox{0, 0, 1, 1}, BBox{5, -2, 6, 0}, BBox{0, -2, 6, 1}},
		{"nested", BBox{0, 0, 10, 10}, BBox{2, 2, 3, 3}, BBox{0, 0, 10, 10}},
		{"point", BBox{4, 4, 4, 4}, BBox{4, 4, 4, 4}, BBox{4, 4, 4, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("Union() = %+v, want %+v", got, tt.want)
			}
			if got := tt.b.Union(tt.a); got != tt.want {
				t.Errorf("Union() reversed = %+v, want %+v", got, tt.want)
			}
		})
	}
	if got := (&Result{}).Bounds(); got != (BBox{}) {
		t.Errorf("empty Result.Bounds() = %+v, want zero box", got)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"valid", func(*Options) {}, false},
		{"negative offset ok", func(o *Options) { o.OffsetX = -10 }, false},
		{"zero scale", func(o *Options) { o.ScaleY = 0 }, true},
		{"negative radius", func(o *Options) { o.NodeRadius = -1 }, true},
		{"negative margin", func(o *Options) { o.VerticalGraphMargin = -1 }, true},
		{"nan", func(o *Options) { o.StepHeight = math.NaN() }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testOpts
			tt.mutate(&o)
			err := o.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !perrors.Is(err, perrors.ErrCodeInvalidOptions) {
				t.Errorf("Validate() code = %v, want INVALID_OPTIONS", perrors.GetCode(err))
			}
		})
	}
}

func TestBarycentricRemovesAvoidableCrossings(t *testing.T) {
	// Sources c, a, b; c feeds x then y, a feeds y, b feeds x. The initial
	// depth-first order [c a b] / [x y] has two crossings; [a c b] / [y x]
	// has none.
	g := dag.New()
	for _, id := range []string{"c", "a", "b", "x", "y"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	for _, e := range [][2]string{{"c", "x"}, {"c", "y"}, {"a", "y"}, {"b", "x"}} {
		_ = g.AddEdge(dag.Edge{From: e[0], To: e[1]})
	}
	g.SetRows(map[string]int{"x": 1, "y": 1})

	initial := initialOrders(g)
	if c := dag.CountCrossings(g, initial); c != 2 {
		t.Fatalf("initial crossings = %d, want 2", c)
	}

	orders := Barycentric{}.OrderRows(g)
	if c := dag.CountCrossings(g, orders); c != 0 {
		t.Errorf("crossings after ordering = %d, want 0 (orders %v)", c, orders)
	}
	for row, ids := range initial {
		got := slices.Sorted(slices.Values(orders[row]))
		want := slices.Sorted(slices.Values(ids))
		if !slices.Equal(got, want) {
			t.Errorf("row %d = %v, want a permutation of %v", row, orders[row], ids)
		}
	}
}

func TestBarycentricNeverWorseThanInitial(t *testing.T) {
	// Complete bipartite K3,3 below a common root: crossings are unavoidable.
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "root"})
	upper := []string{"u1", "u2", "u3"}
	lower := []string{"l1", "l2", "l3"}
	for _, id := range slices.Concat(upper, lower) {
		_ = g.AddNode(dag.Node{ID: id})
	}
	for _, u := range upper {
		_ = g.AddEdge(dag.Edge{From: "root", To: u})
		for _, l := range lower {
			_ = g.AddEdge(dag.Edge{From: u, To: l})
		}
	}
	rows := map[string]int{}
	for _, u := range upper {
		rows[u] = 1
	}
	for _, l := range lower {
		rows[l] = 2
	}
	g.SetRows(rows)

	before := dag.CountCrossings(g, initialOrders(g))
	orders := Barycentric{Passes: 4}.OrderRows(g)
	if after := dag.CountCrossings(g, orders); after > before {
		t.Errorf("crossings increased from %d to %d", before, after)
	}
	if !maps.EqualFunc(orders, Barycentric{Passes: 4}.OrderRows(g), slices.Equal) {
		t.Error("OrderRows() is not deterministic")
	}
}

func TestPairCrossings(t *testing.T) {
	// K2,2 between rows 0 and 1, with p feeding both upper nodes.
	g := dag.New()
	for _, id := range []string{"p", "a", "b", "x", "y"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	for _, e := range [][2]string{{"p", "a"}, {"p", "b"}, {"a", "x"}, {"a", "y"}, {"b", "x"}, {"b", "y"}} {
		_ = g.AddEdge(dag.Edge{From: e[0], To: e[1]})
	}
	above := dag.PosMap([]string{"p"})
	below := dag.PosMap([]string{"x", "y"})

	tests := []struct {
		name        string
		left, right string
		above       map[string]int
		below       map[string]int
		want        int
	}{
		{"children cross once", "a", "b", nil, below, 1},
		{"shared parent never crosses", "a", "b", above, nil, 0},
		{"both sides", "b", "a", above, below, 1},
		{"children outside adjacent row ignored", "a", "b", nil, dag.PosMap([]string{"y"}), 0},
		{"parents cross once", "x", "y", dag.PosMap([]string{"a", "b"}), nil, 1},
		{"parents reversed", "x", "y", dag.PosMap([]string{"b", "a"}), nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pairCrossings(g, tt.left, tt.right, tt.above, tt.below); got != tt.want {
				t.Errorf("pairCrossings(%s, %s) = %d, want %d", tt.left, tt.right, got, tt.want)
			}
		})
	}
}

func TestTransposeSwapsCrossingPair(t *testing.T) {
	// a→y and b→x cross while a sits left of b; one swap in row 0 fixes it.
	g := dag.New()
	for _, id := range []string{"a", "b", "x", "y"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})
	g.SetRows(map[string]int{"x": 1, "y": 1})

	orders := map[int][]string{0: {"a", "b"}, 1: {"x", "y"}}
	transpose(g, orders, []int{0, 1})

	if c := dag.CountCrossings(g, orders); c != 0 {
		t.Errorf("crossings after transpose = %d, want 0 (orders %v)", c, orders)
	}
	if !slices.Equal(orders[0], []string{"b", "a"}) || !slices.Equal(orders[1], []string{"x", "y"}) {
		t.Errorf("orders = %v, want row 0 swapped only", orders)
	}
}
