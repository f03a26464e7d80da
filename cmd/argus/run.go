package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/codeargus/argus/internal/wire"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze all open pull requests for the configured repository",
	Long: `Run a one-shot analysis: list the configured repository's open pull
requests, send each diff to the configured AI provider, and write one
Markdown report per pull request plus a run summary.

Individual pull requests that fail to analyze are reported in the summary;
only configuration and client setup problems abort the run.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		application, cleanup, err := wire.InitializeApp(ctx, configPath)
		if err != nil {
			return err
		}
		defer cleanup()

		return application.RunAnalysis(ctx)
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(runCmd)
}
