package cache

import "fmt"

// Keyer derives cache keys. Implementations must be deterministic: equal
// inputs always give equal keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the pipeline whose topology
	// hashes to pipelineHash, computed with opts.
	LayoutKey(pipelineHash string, opts LayoutKeyOpts) string
	// SequenceKey returns the key for the execution sequence of a pipeline.
	SequenceKey(pipelineHash string) string
}

// LayoutKeyOpts lists every option that changes a layout.
type LayoutKeyOpts struct {
	NodeRadius          float64 `json:"node_radius"`
	ScaleX              float64 `json:"scale_x"`
	ScaleY              float64 `json:"scale_y"`
	OffsetX             float64 `json:"offset_x"`
	OffsetY             float64 `json:"offset_y"`
	VerticalGraphMargin float64 `json:"vertical_graph_margin"`
	StepHeight          float64 `json:"step_height"`
	Passes              int     `json:"passes"`
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(pipelineHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", pipelineHash, opts)
}

// SequenceKey implements [Keyer].
func (DefaultKeyer) SequenceKey(pipelineHash string) string {
	return fmt.Sprintf("sequence:%s", pipelineHash)
}
