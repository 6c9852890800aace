package graph_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pipelayout/pkg/graph"
)

func ExampleDerive() {
	// load → train → evaluate, as persisted: only incoming connections
	p := graph.New("training")
	p.MustAddStep(graph.Step{UUID: "load"})
	p.MustAddStep(graph.Step{UUID: "train", IncomingConnections: []string{"load"}})
	p.MustAddStep(graph.Step{UUID: "evaluate", IncomingConnections: []string{"train"}})

	derived, err := graph.Derive(p)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, s := range derived.Steps() {
		fmt.Println(s.UUID, "→", s.OutgoingConnections)
	}
	// Output:
	// load → [train]
	// train → [evaluate]
	// evaluate → []
}

func ExampleDerive_dangling() {
	p := graph.New("broken")
	p.MustAddStep(graph.Step{UUID: "train", IncomingConnections: []string{"load"}})

	_, err := graph.Derive(p)
	fmt.Println(err)
	// Output:
	// step "train" depends on unknown step "load"
}

func ExampleReadPipeline() {
	input := `{
		"name": "etl",
		"steps": {
			"extract":   {"title": "Extract", "incoming_connections": []},
			"transform": {"title": "Transform", "incoming_connections": ["extract"]}
		}
	}`

	p, err := graph.ReadPipeline(strings.NewReader(input))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(p.Name, p.StepIDs())
	// Output:
	// etl [extract transform]
}
