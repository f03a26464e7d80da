package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeargus/argus/internal/core"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const minimalConfig = `
github:
  repository: "acme/widgets"
  token: "ghp_testtoken"
ai:
  provider: "gemini"
  gemini:
    api_key: "test-gemini-key"
`

func TestLoad(t *testing.T) {
	t.Run("minimal config with defaults", func(t *testing.T) {
		cfg, err := Load(writeConfigFile(t, minimalConfig))
		require.NoError(t, err)

		assert.Equal(t, "acme/widgets", cfg.GitHub.Repository)
		assert.Equal(t, "gemini-pro", cfg.AI.Gemini.Model)
		assert.Equal(t, "medium", cfg.AI.Strictness)
		assert.Equal(t, 1, cfg.AI.Concurrency)
		assert.Equal(t, ".", cfg.Project.LocalPath)
		assert.Equal(t, "reports", cfg.Reporting.OutputDir)
		assert.False(t, cfg.Cache.Enabled)
		assert.Equal(t, ".argus_cache", cfg.Cache.Directory)
		assert.Equal(t, []string{"tests/", "test/"}, cfg.Project.TestIndicators)

		owner, name := cfg.GitHub.OwnerRepo()
		assert.Equal(t, "acme", owner)
		assert.Equal(t, "widgets", name)
	})

	t.Run("missing file is a fatal config error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)

		var cfgErr *core.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("env reference resolves at load time", func(t *testing.T) {
		t.Setenv("ARGUS_TEST_TOKEN", "resolved-token")
		content := `
github:
  repository: "acme/widgets"
  token: "ENV:ARGUS_TEST_TOKEN"
ai:
  provider: "gemini"
  gemini:
    api_key: "key"
`
		cfg, err := Load(writeConfigFile(t, content))
		require.NoError(t, err)
		assert.Equal(t, "resolved-token", cfg.GitHub.Token)
	})

	t.Run("unresolved env reference is fatal", func(t *testing.T) {
		content := `
github:
  repository: "acme/widgets"
  token: "ENV:ARGUS_DEFINITELY_UNSET_VAR"
ai:
  provider: "gemini"
  gemini:
    api_key: "key"
`
		_, err := Load(writeConfigFile(t, content))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ARGUS_DEFINITELY_UNSET_VAR")
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			GitHub: GitHubConfig{Repository: "acme/widgets", Token: "tok"},
			AI: AIConfig{
				Provider:    ProviderGemini,
				Gemini:      GeminiConfig{Model: "gemini-pro", APIKey: "key"},
				Concurrency: 1,
			},
			Project:   ProjectConfig{LocalPath: "."},
			Reporting: ReportingConfig{OutputDir: "reports"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing repository",
			mutate:  func(c *Config) { c.GitHub.Repository = "" },
			wantErr: "github.repository",
		},
		{
			name:    "repository without owner",
			mutate:  func(c *Config) { c.GitHub.Repository = "widgets" },
			wantErr: "owner/name",
		},
		{
			name:    "missing token without app auth",
			mutate:  func(c *Config) { c.GitHub.Token = "" },
			wantErr: "github.token",
		},
		{
			name: "app auth replaces token",
			mutate: func(c *Config) {
				c.GitHub.Token = ""
				c.GitHub.App = GitHubAppConfig{AppID: 42, InstallationID: 7, PrivateKeyPath: "key.pem"}
			},
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.AI.Provider = "skynet" },
			wantErr: "unsupported AI provider",
		},
		{
			name:    "gemini without api key",
			mutate:  func(c *Config) { c.AI.Gemini.APIKey = "" },
			wantErr: "ai.gemini.api_key",
		},
		{
			name: "openai without api key",
			mutate: func(c *Config) {
				c.AI.Provider = ProviderOpenAI
			},
			wantErr: "ai.openai.api_key",
		},
		{
			name: "local_llm without base url",
			mutate: func(c *Config) {
				c.AI.Provider = ProviderLocalLLM
			},
			wantErr: "ai.local_llm.base_url",
		},
		{
			name: "local_llm without api key is fine",
			mutate: func(c *Config) {
				c.AI.Provider = ProviderLocalLLM
				c.AI.LocalLLM.BaseURL = "http://localhost:8080/v1"
			},
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.AI.Concurrency = 0 },
			wantErr: "ai.concurrency",
		},
		{
			name: "enabled cache without directory",
			mutate: func(c *Config) {
				c.Cache.Enabled = true
				c.Cache.Directory = ""
			},
			wantErr: "cache.directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestActiveModel(t *testing.T) {
	ai := AIConfig{
		Provider: ProviderOpenAI,
		Gemini:   GeminiConfig{Model: "gemini-pro"},
		OpenAI:   OpenAIConfig{Model: "gpt-4o"},
		LocalLLM: OpenAIConfig{Model: "mistral"},
		Ollama:   OllamaConfig{Model: "llama3"},
	}

	assert.Equal(t, "gpt-4o", ai.ActiveModel())

	ai.Provider = ProviderLocalLLM
	assert.Equal(t, "mistral", ai.ActiveModel())

	ai.Provider = "unknown"
	assert.Equal(t, "", ai.ActiveModel())
}

func TestLoadRepoConfig(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := LoadRepoConfig(t.TempDir())
		assert.ErrorIs(t, err, ErrRepoConfigNotFound)
		require.NotNil(t, cfg)
		assert.Empty(t, cfg.CustomInstructions)
	})

	t.Run("valid file parses", func(t *testing.T) {
		dir := t.TempDir()
		content := `
custom_instructions:
  - "Flag any use of the deprecated billing client."
extra_focus_areas:
  - "performance"
test_indicators:
  - "spec/"
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".argus.yml"), []byte(content), 0600))

		cfg, err := LoadRepoConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"Flag any use of the deprecated billing client."}, cfg.CustomInstructions)
		assert.Equal(t, []string{"performance"}, cfg.ExtraFocusAreas)
		assert.Equal(t, []string{"spec/"}, cfg.TestIndicators)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".argus.yml"), []byte("\t: bad"), 0600))

		_, err := LoadRepoConfig(dir)
		assert.ErrorIs(t, err, ErrRepoConfigParsing)
	})
}
