package main

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "argus",
	Short: "argus analyzes GitHub pull requests with an AI reviewer.",
	Long: `Argus fetches open pull requests from GitHub, sends their diffs to a
configurable LLM provider for review, and writes Markdown reports. It runs
as a one-shot CLI (run), as a webhook server (serve), and ships utilities
for the response cache and the generated reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")
}
