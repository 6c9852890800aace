package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipelayout/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		detailed   bool
		flags      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [pipeline.json|-]",
		Short: "Render a pipeline as a node-link diagram",
		Long: `Render a pipeline as a node-link diagram.

The pipeline is laid out first, then written in every requested format:
json (positioned pipeline), dot (Graphviz source with pinned positions),
svg, png and pdf. PNG and PDF need rsvg-convert from librsvg.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.resolve(cmd, &flags)
			opts.Formats = parseFormats(formatsStr)
			opts.Detailed = detailed
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], output, opts, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show kernel and file path in step labels")
	addLayoutFlags(cmd, &flags)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input, output string, opts pipeline.Options, noCache bool) error {
	ctx := cmd.Context()
	p, err := loadFor(cmd, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	result, err := runner.Execute(ctx, p, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(input, output, opts.Formats)
	for _, format := range opts.Formats {
		path := paths[format]
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(opts.Formats)))

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.Steps, result.Stats.Edges, result.CacheInfo.LayoutHit)
	return nil
}

// outputPaths maps each format to its output file. A single format with an
// explicit output uses that path as is; otherwise the format becomes the
// extension of a base path derived from output or input.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath strips a known format extension from output, or derives a base
// from input when output is empty. Stdin input renders to "pipeline.<ext>".
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "pipeline"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
