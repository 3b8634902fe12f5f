// Package processor is the backfill subcommand.
package processor

import (
	"github.com/spf13/cobra"

	"github.com/jonesrussell/complaint-triage/internal/bootstrap"
)

// Command returns the processor command. configPath is bound to the
// root's --config flag.
func Command(configPath *string) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "processor",
		Short: "Classify stored complaints that have no classification",
		Long: `Poll the complaints table for rows without a classification, classify
them and write the results back at a bounded rate.

Examples:
  # Run continuously
  complaint-triage processor

  # Process one batch and exit
  complaint-triage processor --once`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap.RunProcessor(cmd.Context(), *configPath, once)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "process a single batch and exit")
	return cmd
}
