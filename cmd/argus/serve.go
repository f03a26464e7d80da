package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/codeargus/argus/internal/wire"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the GitHub webhook server",
	Long: `Start the long-running webhook server. GitHub pull_request events
(opened, synchronize, reopened) are verified against the configured webhook
secret and queued on a worker pool; each job runs the same analysis pipeline
as 'argus run' for the single pull request and posts the result back as a
PR comment.

The server shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()

		application, cleanup, err := wire.InitializeApp(ctx, configPath)
		if err != nil {
			return err
		}
		defer cleanup()

		return application.Serve(ctx)
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(serveCmd)
}
