// Package render turns laid-out pipelines into images.
//
// The [nodelink] subpackage draws steps as boxes pinned at their computed
// positions and connects them with arrows, using Graphviz in-process. This
// package converts the resulting SVG to PDF or PNG with the external
// rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(p, nodelink.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [nodelink]: github.com/matzehuels/pipelayout/pkg/render/nodelink
package render
