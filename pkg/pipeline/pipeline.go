// Package pipeline runs the load → layout → sequence → render stages shared
// by the CLI and the HTTP server.
//
// # Stages
//
//  1. Load: read a pipeline document (JSON) from a file or reader
//  2. Layout: compute step positions ([layout.Compute]) and write them back
//     into a copy of the pipeline ([layout.Apply])
//  3. Sequence: compute an execution order ([dag.DAG.Sequence])
//  4. Render: produce artifacts (json, dot, svg, png, pdf)
//
// Layout and sequence results are cached by a [Runner], keyed by a hash of
// the pipeline topology and of every option that affects the result.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	opts := pipeline.DefaultOptions()
//	opts.Formats = []string{pipeline.FormatSVG}
//	result, err := runner.Execute(ctx, p, opts)
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pipelayout/pkg/cache"
	"github.com/matzehuels/pipelayout/pkg/errors"
	"github.com/matzehuels/pipelayout/pkg/graph"
	"github.com/matzehuels/pipelayout/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultNodeRadius is the unit-space distance between adjacent slots.
	DefaultNodeRadius = 1.0

	// DefaultScaleX is the pixel distance between consecutive layers.
	DefaultScaleX = 200.0

	// DefaultScaleY is the pixel distance between steps of one layer.
	DefaultScaleY = 120.0

	// DefaultOffsetX and DefaultOffsetY place the first component.
	DefaultOffsetX = 0.0
	DefaultOffsetY = 0.0

	// DefaultVerticalGraphMargin is the gap between stacked components.
	DefaultVerticalGraphMargin = 60.0

	// DefaultStepHeight is the rendered height of a step, added below each
	// component so boxes of neighbouring components never touch.
	DefaultStepHeight = 60.0
)

// Format constants for output artifacts.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// FormatNames returns the supported formats in a stable order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. It is JSON-serializable so the HTTP
// server can accept it in request bodies.
type Options struct {
	// Layout options
	NodeRadius          float64 `json:"node_radius"`
	ScaleX              float64 `json:"scale_x"`
	ScaleY              float64 `json:"scale_y"`
	OffsetX             float64 `json:"offset_x"`
	OffsetY             float64 `json:"offset_y"`
	VerticalGraphMargin float64 `json:"vertical_graph_margin"`
	StepHeight          float64 `json:"step_height"`
	Passes              int     `json:"passes,omitempty"`
	Parallel            bool    `json:"parallel,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Refresh bypasses cached results (they are still rewritten).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// DefaultOptions returns options populated with the package defaults.
func DefaultOptions() Options {
	return Options{
		NodeRadius:          DefaultNodeRadius,
		ScaleX:              DefaultScaleX,
		ScaleY:              DefaultScaleY,
		OffsetX:             DefaultOffsetX,
		OffsetY:             DefaultOffsetY,
		VerticalGraphMargin: DefaultVerticalGraphMargin,
		StepHeight:          DefaultStepHeight,
		Passes:              layout.DefaultPasses,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Pipeline is a copy of the input with derived outgoing connections and
	// computed positions.
	Pipeline *graph.Pipeline

	// PipelineHash is the SHA-256 of the pipeline topology.
	PipelineHash string

	// Layout holds positions and component bounds.
	Layout *layout.Result

	// Sequence is a valid execution order.
	Sequence []string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	Steps        int
	Edges        int
	Components   int
	LayoutTime   time.Duration
	SequenceTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	LayoutHit   bool
	SequenceHit bool
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid format: %q (must be one of: %s)",
			format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults fills unset fields and validates the result. Zero
// NodeRadius, ScaleX, ScaleY and Passes take their defaults; offsets,
// margin and step height are used as given because zero is meaningful for
// them. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.NodeRadius == 0 {
		o.NodeRadius = DefaultNodeRadius
	}
	if o.ScaleX == 0 {
		o.ScaleX = DefaultScaleX
	}
	if o.ScaleY == 0 {
		o.ScaleY = DefaultScaleY
	}
	if o.Passes == 0 {
		o.Passes = layout.DefaultPasses
	}
	if o.Passes < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "passes must not be negative, got %d", o.Passes)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := o.LayoutOptions().Validate(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// LayoutOptions converts o to [layout.Options].
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		NodeRadius:          o.NodeRadius,
		ScaleX:              o.ScaleX,
		ScaleY:              o.ScaleY,
		OffsetX:             o.OffsetX,
		OffsetY:             o.OffsetY,
		VerticalGraphMargin: o.VerticalGraphMargin,
		StepHeight:          o.StepHeight,
		Parallel:            o.Parallel,
		Orderer:             layout.Barycentric{Passes: o.Passes},
	}
}

// LayoutKeyOpts returns the cache key options for a layout. Parallel is left
// out because it never changes the result.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		NodeRadius:          o.NodeRadius,
		ScaleX:              o.ScaleX,
		ScaleY:              o.ScaleY,
		OffsetX:             o.OffsetX,
		OffsetY:             o.OffsetY,
		VerticalGraphMargin: o.VerticalGraphMargin,
		StepHeight:          o.StepHeight,
		Passes:              o.Passes,
	}
}

// WantsFormat reports whether format was requested.
func (o *Options) WantsFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}
