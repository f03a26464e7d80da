package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	ErrRepoConfigNotFound = errors.New("repo config file not found")
	ErrRepoConfigParsing  = errors.New("repo config parsing failed")
)

// RepoConfig represents the optional .argus.yml file inside the analyzed
// project checkout. It lets a repository tune the analysis without touching
// the operator's main configuration.
type RepoConfig struct {
	// CustomInstructions are extra lines appended to the review prompt.
	CustomInstructions []string `yaml:"custom_instructions"`

	// ExtraFocusAreas extends the configured focus area list.
	ExtraFocusAreas []string `yaml:"extra_focus_areas"`

	// TestIndicators extends the directory names that signal a test suite.
	// Example: ["spec/", "e2e/"]
	TestIndicators []string `yaml:"test_indicators"`
}

// DefaultRepoConfig returns a config with default values.
func DefaultRepoConfig() *RepoConfig {
	return &RepoConfig{
		CustomInstructions: []string{},
		ExtraFocusAreas:    []string{},
		TestIndicators:     []string{},
	}
}

// LoadRepoConfig loads and parses the .argus.yml file from a project path.
// A missing file returns defaults with ErrRepoConfigNotFound so callers can
// treat it as a soft condition.
func LoadRepoConfig(projectPath string) (*RepoConfig, error) {
	configPath := filepath.Join(projectPath, ".argus.yml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultRepoConfig(), ErrRepoConfigNotFound
		}
		return nil, fmt.Errorf("failed to read .argus.yml: %w", err)
	}

	config := DefaultRepoConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepoConfigParsing, err)
	}
	return config, nil
}
