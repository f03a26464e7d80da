package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/codeargus/argus/internal/core"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		printFatal(err)
		os.Exit(1)
	}
}

// printFatal prints setup failures on one recognizable line; anything else
// goes through slog so the error chain stays visible.
func printFatal(err error) {
	var cfgErr *core.ConfigError
	var initErr *core.InitError

	errColor := color.New(color.FgRed, color.Bold)
	switch {
	case errors.As(err, &cfgErr):
		fmt.Fprintf(os.Stderr, "%s %v\n", errColor.Sprint("Configuration error:"), cfgErr)
	case errors.As(err, &initErr):
		fmt.Fprintf(os.Stderr, "%s %v\n", errColor.Sprint("Initialization error:"), initErr)
	default:
		slog.Error("argus failed to run", "error", err)
	}
}
