package transform_test

import (
	"fmt"

	"github.com/matzehuels/pipelayout/pkg/dag"
	"github.com/matzehuels/pipelayout/pkg/dag/transform"
)

func ExampleAssignLayers() {
	// Create graph without layer assignments
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "extract"})   // Will be row 0
	_ = g.AddNode(dag.Node{ID: "clean"})     // Will be row 1
	_ = g.AddNode(dag.Node{ID: "featurize"}) // Will be row 2
	_ = g.AddEdge(dag.Edge{From: "extract", To: "clean"})
	_ = g.AddEdge(dag.Edge{From: "clean", To: "featurize"})

	if err := transform.AssignLayers(g); err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, n := range g.Nodes() {
		fmt.Println(n.ID, "row:", n.Row)
	}
	// Output:
	// extract row: 0
	// clean row: 1
	// featurize row: 2
}

func ExampleAssignLayers_cycle() {
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "A"})
	_ = g.AddNode(dag.Node{ID: "B"})
	_ = g.AddEdge(dag.Edge{From: "A", To: "B"})
	_ = g.AddEdge(dag.Edge{From: "B", To: "A"})

	err := transform.AssignLayers(g)
	fmt.Println(err)
	// Output:
	// graph contains a cycle: [A → B]
}

func ExampleSubdivide() {
	// Create graph with a long edge spanning multiple rows
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "load", Row: 0})
	_ = g.AddNode(dag.Node{ID: "report", Row: 3}) // 3 rows below load
	_ = g.AddEdge(dag.Edge{From: "load", To: "report"})

	fmt.Println("Before subdivide:")
	fmt.Println("  Nodes:", g.NodeCount())

	transform.Subdivide(g)

	fmt.Println("After subdivide:")
	fmt.Println("  Nodes:", g.NodeCount())

	// Check that subdivider nodes were created
	subdividers := 0
	for _, n := range g.Nodes() {
		if n.IsSynthetic() {
			subdividers++
		}
	}
	fmt.Println("  Subdividers:", subdividers)
	fmt.Println("  Path:", g.Children("load"), g.Parents("report"))
	// Output:
	// Before subdivide:
	//   Nodes: 2
	// After subdivide:
	//   Nodes: 4
	//   Subdividers: 2
	//   Path: [load_sub_1] [load_sub_2]
}
