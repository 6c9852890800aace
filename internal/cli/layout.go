package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pipelayout/pkg/graph"
	"github.com/matzehuels/pipelayout/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [pipeline.json|-]",
		Short: "Compute step positions for a pipeline",
		Long: `Compute step positions for a pipeline.

The layout command reads a pipeline document, assigns every step a position in
meta_data.position, fills in outgoing_connections and writes the result. Pass
"-" to read from stdin; the result then goes to stdout unless -o is given.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], output, c.resolve(cmd, &flags), flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	addLayoutFlags(cmd, &flags)

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input, output string, opts pipeline.Options, noCache bool) error {
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

	toStdout := input == "-" && output == ""
	res, cached, err := c.withSpinner(ctx, !toStdout, "Computing layout...", func(ctx context.Context) (*graph.Pipeline, bool, error) {
		lr, hit, err := runner.LayoutWithCacheInfo(ctx, p, opts)
		if err != nil {
			return nil, false, err
		}
		positioned, err := pipeline.Positioned(p, lr)
		return positioned, hit, err
	})
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	if toStdout {
		return graph.WritePipeline(res, cmd.OutOrStdout())
	}

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	if err := graph.WritePipelineFile(res, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(p.Len(), len(p.Edges()), cached)
	printNewline()
	printNextStep("Render", appName+" render "+output)
	return nil
}

// loadFor reads the pipeline named by a command argument; "-" is stdin.
func loadFor(cmd *cobra.Command, input string) (*graph.Pipeline, error) {
	p, err := pipeline.Load(input, cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("load pipeline %s: %w", input, err)
	}
	loggerFromContext(cmd.Context()).Debug("loaded pipeline", "steps", p.Len(), "edges", len(p.Edges()))
	return p, nil
}

// withSpinner runs fn, showing a spinner on stderr when show is set.
func (c *CLI) withSpinner(ctx context.Context, show bool, msg string, fn func(context.Context) (*graph.Pipeline, bool, error)) (*graph.Pipeline, bool, error) {
	if !show {
		return fn(ctx)
	}
	spinner := newSpinnerWithContext(ctx, msg)
	spinner.Start()
	p, hit, err := fn(ctx)
	if err != nil {
		spinner.StopWithError("Failed")
		return nil, false, err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}
	return p, hit, nil
}
