// Package nodelink draws laid-out pipelines as node-link diagrams.
//
// Steps are boxes, dependencies are arrows. Unlike a plain Graphviz
// rendering, node placement is not left to Graphviz: [ToDOT] pins every step
// at its meta_data.position and [RenderSVG] runs the neato engine, which
// keeps pinned nodes where they are and only routes the edges.
//
//	res, err := layout.Compute(p, opts)
//	positioned, err := layout.Apply(p, res)
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(positioned, nodelink.Options{}))
//
// Rendering uses [github.com/goccy/go-graphviz] in-process. PDF and PNG
// output additionally require librsvg (rsvg-convert).
package nodelink
