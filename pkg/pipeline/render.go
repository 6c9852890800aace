package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/pipelayout/pkg/errors"
	"github.com/matzehuels/pipelayout/pkg/graph"
	"github.com/matzehuels/pipelayout/pkg/render"
	"github.com/matzehuels/pipelayout/pkg/render/nodelink"
)

// PNGScale is the resolution multiplier for PNG output.
const PNGScale = 2.0

// Render produces one artifact per requested format from a positioned
// pipeline (see [Positioned]):
//
//   - json: the pipeline document with positions and outgoing connections
//   - dot:  Graphviz source with pinned positions
//   - svg, png, pdf: the rendered node-link diagram
//
// SVG is rendered at most once even when several image formats are asked
// for.
func Render(ctx context.Context, p *graph.Pipeline, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	dot := nodelink.ToDOT(p, nodelink.Options{Detailed: opts.Detailed})

	var svg []byte
	renderSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = nodelink.RenderSVG(ctx, dot)
		return svg, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalPipeline(p)
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = renderSVG()
		case FormatPNG:
			if data, err = renderSVG(); err == nil {
				data, err = render.ToPNG(ctx, data, PNGScale)
			}
		case FormatPDF:
			if data, err = renderSVG(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
