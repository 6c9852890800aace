// Package layout computes deterministic 2D positions for the steps of a
// pipeline.
//
// # Overview
//
// [Compute] runs the full layered ("Sugiyama-style") drawing:
//
//  1. Derive connections and build the graph ([dag.FromPipeline])
//  2. Split into weakly connected components, largest first
//  3. Per component ([LayoutComponent]): longest-path layering, dummy nodes
//     for long edges, crossing minimization by an [Orderer], and centred
//     slot coordinates with a pitch of NodeRadius
//  4. Per component ([Transform]): rotate by −90° so dependencies flow left
//     to right, anchor the bounding box at (0, 0), scale to pixels
//  5. [Stack] the components top to bottom starting at (OffsetX, OffsetY)
//
// The result is an explicit value: a map from step id to [Position]. Use
// [Apply] to obtain a copy of the pipeline with meta_data.position filled in.
//
// # Determinism
//
// Identical pipelines (including step order) and identical options always
// yield bit-identical positions. Every tie is broken by pipeline order and
// no step of the computation is randomized. Setting Options.Parallel lays
// components out concurrently; results are merged by component index, so the
// output does not change.
//
// # Errors
//
// Dangling connections and cycles are reported before any layout work is
// done, as DanglingConnectionError and CyclicGraphError from the errors
// package. An empty pipeline is not an error.
//
// # Usage
//
//	res, err := layout.Compute(p, layout.Options{
//	    NodeRadius: 1, ScaleX: 200, ScaleY: 120,
//	    VerticalGraphMargin: 60, StepHeight: 60,
//	})
//	if err != nil {
//	    return err
//	}
//	positioned, err := layout.Apply(p, res)
//
// [dag.FromPipeline]: github.com/matzehuels/pipelayout/pkg/dag.FromPipeline
package layout
