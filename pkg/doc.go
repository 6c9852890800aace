// Package pkg holds the pipelayout libraries.
//
// # Overview
//
// Pipelayout computes positions for the steps of a pipeline so an editor can
// draw it without manual arrangement. Dependencies flow left to right and
// unconnected parts of the pipeline are stacked top to bottom.
//
//	pipeline document (JSON)
//	         ↓
//	    [graph]    steps, incoming connections, derived outgoing connections
//	         ↓
//	    [dag]      validation, components, execution sequence
//	         ↓
//	    [layout]   layering, crossing reduction, rotation, stacking
//	         ↓
//	    [render]   DOT, SVG, PNG, PDF
//
// [pipeline] ties the stages together behind a cached [pipeline.Runner],
// which the CLI and the HTTP server share.
//
// # Supporting packages
//
//   - [cache]: file, redis and null result caches with content-addressed keys
//   - [errors]: error codes, DanglingConnectionError and CyclicGraphError
//   - [observability]: hooks for metrics and tracing
//   - [buildinfo]: version information injected at build time
//
// # Quick Start
//
//	p, err := graph.ReadPipelineFile("etl.json")
//	if err != nil {
//	    return err
//	}
//	res, err := layout.Compute(p, layout.Options{
//	    NodeRadius: 1, ScaleX: 200, ScaleY: 120,
//	    VerticalGraphMargin: 60, StepHeight: 60,
//	})
//	if err != nil {
//	    return err // DanglingConnectionError or CyclicGraphError
//	}
//	positioned, err := layout.Apply(p, res)
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/pipelayout/pkg/graph
// [dag]: https://pkg.go.dev/github.com/matzehuels/pipelayout/pkg/dag
// [layout]: https://pkg.go.dev/github.com/matzehuels/pipelayout/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/pipelayout/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pipelayout/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/pipelayout/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/pipelayout/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/pipelayout/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/pipelayout/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pipelayout/pkg/buildinfo
package pkg
