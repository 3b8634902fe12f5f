// Package httpd is the serve subcommand.
package httpd

import (
	"github.com/spf13/cobra"

	"github.com/jonesrussell/complaint-triage/internal/bootstrap"
)

// Command returns the serve command. configPath is bound to the root's
// --config flag.
func Command(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the classification API",
		Long: `Serve the classification HTTP API: single and batch classification,
insights, vocabulary inspection, health and Prometheus metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap.RunHTTP(cmd.Context(), *configPath)
		},
	}
}
