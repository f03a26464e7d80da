package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/codeargus/argus/internal/config"
	"github.com/codeargus/argus/internal/core"
	"github.com/codeargus/argus/internal/db"
	"github.com/codeargus/argus/internal/logger"
	"github.com/codeargus/argus/internal/storage"
)

// historyFooterLimit caps how many history rows the viewer fetches for its
// status footer.
const historyFooterLimit = 10

var viewCmd = &cobra.Command{
	Use:   "view [report-file]",
	Short: "Browse generated analysis reports in the terminal",
	Long: `Open a full-screen browser over the Markdown reports in the configured
output directory, newest first. Selecting a report renders it for the
terminal; with an explicit file argument the viewer jumps straight to the
rendered report.

When the history store is enabled, the footer shows the most recent
recorded analyses.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(viewCmd)
}

func runView(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// Log lines would tear the alternate screen, so the viewer discards them.
	log := logger.NewLogger(cfg.Logging, io.Discard)

	reports, err := listReports(cfg.Reporting.OutputDir)
	if err != nil {
		return err
	}

	var initial *reportItem
	if len(args) == 1 {
		item, err := resolveReportArg(cfg.Reporting.OutputDir, args[0])
		if err != nil {
			return err
		}
		initial = item
	}

	var records []*core.AnalysisRecord
	if cfg.Database.Enabled {
		records = loadRecentHistory(cfg, log)
	}

	m := newViewModel(cfg.Reporting.OutputDir, reports, records, initial)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run report viewer: %w", err)
	}
	return nil
}

// listReports collects the Markdown files in dir, newest first. A missing
// directory is an empty listing, since no run may have happened yet.
func listReports(dir string) ([]reportItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read reports directory %s: %w", dir, err)
	}

	var items []reportItem
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, reportItem{
			name:     e.Name(),
			path:     filepath.Join(dir, e.Name()),
			modified: info.ModTime(),
			size:     info.Size(),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].modified.After(items[j].modified)
	})
	return items, nil
}

// resolveReportArg accepts either a path to a report file or a bare file
// name inside the reports directory.
func resolveReportArg(dir, arg string) (*reportItem, error) {
	candidates := []string{arg, filepath.Join(dir, arg)}
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		return &reportItem{
			name:     filepath.Base(path),
			path:     path,
			modified: info.ModTime(),
			size:     info.Size(),
		}, nil
	}
	return nil, fmt.Errorf("report not found: %s", arg)
}

// loadRecentHistory fetches the footer rows on a best-effort basis; an
// unreachable database only costs the footer, never the viewer.
func loadRecentHistory(cfg *config.Config, log *slog.Logger) []*core.AnalysisRecord {
	ctx := context.Background()

	dbConn, cleanup, err := db.NewDatabase(&cfg.Database, log)
	if err != nil {
		return nil
	}
	defer cleanup()

	records, err := storage.NewStore(dbConn.DB).RecentResults(ctx, historyFooterLimit)
	if err != nil {
		return nil
	}
	return records
}
