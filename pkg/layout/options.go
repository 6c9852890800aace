package layout

import (
	"math"

	perrors "github.com/matzehuels/pipelayout/pkg/errors"
)

// Options controls geometry and execution of [Compute].
//
// All lengths are in pixels except NodeRadius, which is the node pitch in
// unit space before scaling. There are no implicit defaults here: callers
// normally obtain filled-in options from the pipeline package.
type Options struct {
	// NodeRadius is the minimum distance between node slots along both axes
	// in unit space.
	NodeRadius float64 `json:"node_radius"`

	// ScaleX and ScaleY convert unit space to pixels after rotation.
	ScaleX float64 `json:"scale_x"`
	ScaleY float64 `json:"scale_y"`

	// OffsetX and OffsetY are the canvas origin of the first component.
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`

	// VerticalGraphMargin and StepHeight together form the vertical gap
	// between stacked components.
	VerticalGraphMargin float64 `json:"vertical_graph_margin"`
	StepHeight          float64 `json:"step_height"`

	// Parallel lays out components concurrently. Output is identical to the
	// sequential path.
	Parallel bool `json:"parallel,omitempty"`

	// Orderer overrides the crossing minimization heuristic.
	// Nil selects Barycentric{Passes: DefaultPasses}.
	Orderer Orderer `json:"-"`
}

// Validate checks that every value is finite, that NodeRadius and both scales
// are strictly positive and that the vertical spacing is not negative.
// Violations are reported with code INVALID_OPTIONS.
func (o Options) Validate() error {
	fields := []struct {
		name     string
		value    float64
		positive bool
		nonNeg   bool
	}{
		{"node_radius", o.NodeRadius, true, false},
		{"scale_x", o.ScaleX, true, false},
		{"scale_y", o.ScaleY, true, false},
		{"offset_x", o.OffsetX, false, false},
		{"offset_y", o.OffsetY, false, false},
		{"vertical_graph_margin", o.VerticalGraphMargin, false, true},
		{"step_height", o.StepHeight, false, true},
	}
	for _, f := range fields {
		switch {
		case math.IsNaN(f.value) || math.IsInf(f.value, 0):
			return perrors.New(perrors.ErrCodeInvalidOptions, "%s must be finite", f.name)
		case f.positive && f.value <= 0:
			return perrors.New(perrors.ErrCodeInvalidOptions, "%s must be positive, got %g", f.name, f.value)
		case f.nonNeg && f.value < 0:
			return perrors.New(perrors.ErrCodeInvalidOptions, "%s must not be negative, got %g", f.name, f.value)
		}
	}
	return nil
}

func (o Options) orderer() Orderer {
	if o.Orderer != nil {
		return o.Orderer
	}
	return Barycentric{}
}
