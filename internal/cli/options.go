package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pipelayout/pkg/pipeline"
)

// layoutFlags binds the layout options shared by layout, sequence, render
// and serve. Only flags given on the command line override the config.
type layoutFlags struct {
	opts    pipeline.Options
	noCache bool
}

func addLayoutFlags(cmd *cobra.Command, f *layoutFlags) {
	d := pipeline.DefaultOptions()
	fs := cmd.Flags()
	fs.Float64Var(&f.opts.NodeRadius, "node-radius", d.NodeRadius, "minimum slot distance in layout units")
	fs.Float64Var(&f.opts.ScaleX, "scale-x", d.ScaleX, "pixels per unit along x")
	fs.Float64Var(&f.opts.ScaleY, "scale-y", d.ScaleY, "pixels per unit along y")
	fs.Float64Var(&f.opts.OffsetX, "offset-x", d.OffsetX, "x of the first component")
	fs.Float64Var(&f.opts.OffsetY, "offset-y", d.OffsetY, "y of the first component")
	fs.Float64Var(&f.opts.VerticalGraphMargin, "margin", d.VerticalGraphMargin, "vertical gap between components")
	fs.Float64Var(&f.opts.StepHeight, "step-height", d.StepHeight, "rendered step height added below each component")
	fs.IntVar(&f.opts.Passes, "passes", d.Passes, "crossing reduction sweeps")
	fs.BoolVar(&f.opts.Parallel, "parallel", false, "lay out components concurrently")
	fs.BoolVar(&f.opts.Refresh, "refresh", false, "recompute even when a cached result exists")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// resolve merges config defaults with the flags the user set.
func (c *CLI) resolve(cmd *cobra.Command, f *layoutFlags) pipeline.Options {
	opts := c.config.Layout.Options()
	fs := cmd.Flags()

	floats := []struct {
		name string
		dst  *float64
		val  float64
	}{
		{"node-radius", &opts.NodeRadius, f.opts.NodeRadius},
		{"scale-x", &opts.ScaleX, f.opts.ScaleX},
		{"scale-y", &opts.ScaleY, f.opts.ScaleY},
		{"offset-x", &opts.OffsetX, f.opts.OffsetX},
		{"offset-y", &opts.OffsetY, f.opts.OffsetY},
		{"margin", &opts.VerticalGraphMargin, f.opts.VerticalGraphMargin},
		{"step-height", &opts.StepHeight, f.opts.StepHeight},
	}
	for _, fl := range floats {
		if fs.Changed(fl.name) {
			*fl.dst = fl.val
		}
	}
	if fs.Changed("passes") {
		opts.Passes = f.opts.Passes
	}
	if fs.Changed("parallel") {
		opts.Parallel = f.opts.Parallel
	}
	opts.Refresh = f.opts.Refresh
	opts.Logger = c.Logger
	return opts
}
