package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codeargus/argus/internal/cache"
	"github.com/codeargus/argus/internal/config"
	"github.com/codeargus/argus/internal/logger"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the AI response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry count and total size",
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := openCacheStore()
		if err != nil {
			return err
		}

		stats, err := store.GetStats()
		if err != nil {
			return fmt.Errorf("failed to read cache stats: %w", err)
		}

		dir, err := filepath.Abs(stats.Dir)
		if err != nil {
			dir = stats.Dir
		}
		fmt.Printf("Cache directory: %s\n", dir)
		fmt.Printf("Entries:         %d\n", stats.Entries)
		fmt.Printf("Total size:      %s\n", formatBytes(stats.TotalBytes))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached AI responses",
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := openCacheStore()
		if err != nil {
			return err
		}

		stats, err := store.GetStats()
		if err != nil {
			return fmt.Errorf("failed to read cache stats: %w", err)
		}
		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}

		fmt.Printf("Cleared %d cache entries from %s\n", stats.Entries, store.Dir())
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

// openCacheStore builds a store over the configured cache directory. The
// utility commands work on the directory even when caching is currently
// disabled, since earlier runs may have left entries behind.
func openCacheStore() (*cache.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := logger.NewLogger(cfg.Logging, nil)
	return cache.NewStore(cfg.Cache.Directory, log)
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
