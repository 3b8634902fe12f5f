// Package cmd implements the complaint-triage command line.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/complaint-triage/cmd/httpd"
	"github.com/jonesrussell/complaint-triage/cmd/processor"
)

// NewRootCommand returns the complaint-triage command. Without a
// subcommand it serves the HTTP API.
func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "complaint-triage",
		Short:         "Classify and route municipal complaints",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default is $CONFIG_PATH or ./config.yml)")

	serve := httpd.Command(&configPath)
	root.RunE = serve.RunE
	root.AddCommand(serve, processor.Command(&configPath))
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		root.PrintErrln("Error:", err)
		return 1
	}
	return 0
}
