package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// sequenceCommand creates the sequence command.
func (c *CLI) sequenceCommand() *cobra.Command {
	var (
		asJSON bool
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "sequence [pipeline.json|-]",
		Short: "Print a valid execution order of the steps",
		Long: `Print a valid execution order of the steps, one step id per line.

Every step appears after all of its dependencies. Among steps that are ready
at the same time, pipeline order wins.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := loadFor(cmd, args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			seq, hit, err := runner.SequenceWithCacheInfo(ctx, p, c.resolve(cmd, &flags))
			if err != nil {
				return fmt.Errorf("compute sequence: %w", err)
			}
			loggerFromContext(ctx).Debug("sequence", "steps", len(seq), "cached", hit)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				return enc.Encode(seq)
			}
			if len(seq) > 0 {
				_, err = fmt.Fprintln(out, strings.Join(seq, "\n"))
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON array")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.opts.Refresh, "refresh", false, "recompute even when a cached result exists")

	return cmd
}
