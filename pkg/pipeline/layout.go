package pipeline

import (
	"github.com/matzehuels/pipelayout/pkg/dag"
	"github.com/matzehuels/pipelayout/pkg/graph"
	"github.com/matzehuels/pipelayout/pkg/layout"
)

// ComputeLayout lays out p without caching. opts must have been validated.
func ComputeLayout(p *graph.Pipeline, opts Options) (*layout.Result, error) {
	return layout.Compute(p, opts.LayoutOptions())
}

// ComputeSequence returns an execution order for p: every step appears after
// all of its prerequisites, ties broken by pipeline order.
func ComputeSequence(p *graph.Pipeline) ([]string, error) {
	g, err := dag.FromPipeline(p)
	if err != nil {
		return nil, err
	}
	return g.Sequence()
}

// Positioned returns a copy of p with the positions of res applied.
func Positioned(p *graph.Pipeline, res *layout.Result) (*graph.Pipeline, error) {
	return layout.Apply(p, res)
}
