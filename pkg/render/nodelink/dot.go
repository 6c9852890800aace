package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pipelayout/pkg/graph"
	"github.com/matzehuels/pipelayout/pkg/render"
)

// Default node box size in inches.
const (
	DefaultNodeWidth  = 1.6
	DefaultNodeHeight = 0.5
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the kernel name and file path to each label.
	Detailed bool
	// NodeWidth and NodeHeight set the box size in inches. Zero uses the
	// defaults.
	NodeWidth  float64
	NodeHeight float64
}

// ToDOT converts a laid-out pipeline to Graphviz DOT.
//
// Every step is pinned at meta_data.position (one position unit is one
// point), so the diagram reproduces the computed layout instead of letting
// Graphviz place nodes. Positions grow downwards as on screen; DOT's y axis
// points up, so y is negated. Hidden steps are drawn invisible to keep edge
// routing stable.
func ToDOT(p *graph.Pipeline, opts Options) string {
	w, h := opts.NodeWidth, opts.NodeHeight
	if w <= 0 {
		w = DefaultNodeWidth
	}
	if h <= 0 {
		h = DefaultNodeHeight
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, fixedsize=true, width=%s, height=%s];\n",
		fmtFloat(w), fmtFloat(h))
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("\n")

	for _, s := range p.Steps() {
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(s.UUID), strings.Join(fmtAttrs(s, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range p.Edges() {
		fmt.Fprintf(&buf, "  %s -> %s;\n", quote(e.From), quote(e.To))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(s *graph.Step, detailed bool) string {
	label := s.Title
	if label == "" {
		label = s.UUID
	}
	if !detailed {
		return label
	}

	parts := []string{label}
	if s.Kernel.Name != "" {
		parts = append(parts, "kernel: "+s.Kernel.Name)
	}
	if s.FilePath != "" {
		parts = append(parts, s.FilePath)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(s *graph.Step, detailed bool) []string {
	pos := s.MetaData.Position
	attrs := []string{
		"label=" + quote(fmtLabel(s, detailed)),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(pos[0]), fmtFloat(-pos[1])),
	}
	if s.MetaData.Hidden {
		attrs = append(attrs, "style=invis")
	}
	return attrs
}

// quote returns s as a DOT string literal. Quotes and backslashes are
// escaped, newlines become the \n line break and other control characters
// become spaces.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r < 0x20 || r == 0x7f:
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func fmtFloat(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders DOT produced by [ToDOT] to SVG with Graphviz's neato
// engine, which honours the pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> element with one whose width
// and height equal the viewBox, so the image scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders DOT to PDF via SVG. Requires rsvg-convert.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT to PNG via SVG at the given scale. Requires
// rsvg-convert.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
