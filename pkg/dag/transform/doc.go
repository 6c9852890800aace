// Package transform prepares a pipeline DAG for layered drawing.
//
// # Overview
//
// The layout engine needs a graph where every node has a row and every edge
// joins two consecutive rows. Two transformations get it there, and must run
// in this order:
//
//	if err := transform.AssignLayers(g); err != nil {
//	    return err // CyclicGraphError
//	}
//	transform.Subdivide(g)
//
// # Layer Assignment
//
// [AssignLayers] computes the row of each node as the length of the longest
// dependency chain leading to it, so steps without dependencies sit in row 0
// and every step is placed right after its deepest prerequisite. Cyclic
// graphs are rejected rather than repaired.
//
// # Edge Subdivision
//
// [Subdivide] breaks long edges (spanning multiple rows) into chains of
// single-row hops by inserting subdivider nodes:
//
//	Before: load (row 0) → report (row 3)
//	After:  load → load_sub_1 → load_sub_2 → report
//
// Subdivider IDs are derived from the edge's source step and the row they
// occupy. They are dropped from the final coordinates.
package transform
