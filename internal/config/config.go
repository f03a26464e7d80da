// Package config loads and validates the application configuration from a
// YAML file. Credential fields support an "ENV:NAME" indirection resolved
// from the environment at load time, so secrets stay out of the file itself.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/codeargus/argus/internal/core"
	"github.com/codeargus/argus/internal/logger"
)

// Known provider identifiers. Adding a provider means implementing its
// adapter in internal/llm and extending this list.
const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderLocalLLM = "local_llm"
	ProviderOllama   = "ollama"
)

// Config is the application's full, validated configuration.
type Config struct {
	GitHub    GitHubConfig    `mapstructure:"github"`
	AI        AIConfig        `mapstructure:"ai"`
	Project   ProjectConfig   `mapstructure:"project"`
	Reporting ReportingConfig `mapstructure:"reporting"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   logger.Config   `mapstructure:"logging"`
}

// GitHubConfig identifies the repository under analysis and how to
// authenticate against the hosting service.
type GitHubConfig struct {
	Repository string          `mapstructure:"repository"`
	Token      string          `mapstructure:"token"`
	BaseURL    string          `mapstructure:"base_url"`
	App        GitHubAppConfig `mapstructure:"app"`
}

// OwnerRepo splits the validated "owner/name" repository identifier.
func (g *GitHubConfig) OwnerRepo() (string, string) {
	owner, name, _ := strings.Cut(g.Repository, "/")
	return owner, name
}

// GitHubAppConfig configures GitHub App authentication, used by the webhook
// server mode instead of a personal access token.
type GitHubAppConfig struct {
	AppID          int64  `mapstructure:"app_id"`
	InstallationID int64  `mapstructure:"installation_id"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
}

// Enabled reports whether App credentials are configured.
func (a *GitHubAppConfig) Enabled() bool { return a.AppID != 0 }

// AIConfig selects the active provider and holds per-provider settings.
type AIConfig struct {
	Provider    string       `mapstructure:"provider"`
	Gemini      GeminiConfig `mapstructure:"gemini"`
	OpenAI      OpenAIConfig `mapstructure:"openai"`
	LocalLLM    OpenAIConfig `mapstructure:"local_llm"`
	Ollama      OllamaConfig `mapstructure:"ollama"`
	Temperature float32      `mapstructure:"temperature"`
	MaxTokens   int          `mapstructure:"max_tokens"`
	Strictness  string       `mapstructure:"strictness_level"`
	FocusAreas  []string     `mapstructure:"focus_areas"`
	Concurrency int          `mapstructure:"concurrency"`
}

// GeminiConfig holds Google Gemini settings.
type GeminiConfig struct {
	Model  string `mapstructure:"model"`
	APIKey string `mapstructure:"api_key"`
}

// OpenAIConfig holds settings for the OpenAI API or any OpenAI-compatible
// endpoint (the local_llm provider reuses this shape with a required
// base URL).
type OpenAIConfig struct {
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// OllamaConfig holds native Ollama settings.
type OllamaConfig struct {
	Model string `mapstructure:"model"`
	Host  string `mapstructure:"host"`
}

// ActiveModel returns the model name of the selected provider. It feeds both
// the cache key and report metadata, so it must be stable for a given
// configuration.
func (a *AIConfig) ActiveModel() string {
	switch a.Provider {
	case ProviderGemini:
		return a.Gemini.Model
	case ProviderOpenAI:
		return a.OpenAI.Model
	case ProviderLocalLLM:
		return a.LocalLLM.Model
	case ProviderOllama:
		return a.Ollama.Model
	default:
		return ""
	}
}

// Validate checks the AI section. Missing credentials for hosted providers
// are fatal here rather than surfacing as per-request failures later.
func (a *AIConfig) Validate() error {
	switch a.Provider {
	case ProviderGemini:
		if a.Gemini.APIKey == "" {
			return fmt.Errorf("ai.gemini.api_key is required for the gemini provider")
		}
	case ProviderOpenAI:
		if a.OpenAI.APIKey == "" {
			return fmt.Errorf("ai.openai.api_key is required for the openai provider")
		}
	case ProviderLocalLLM:
		if a.LocalLLM.BaseURL == "" {
			return fmt.Errorf("ai.local_llm.base_url is required for the local_llm provider")
		}
	case ProviderOllama:
		if a.Ollama.Host == "" {
			return fmt.Errorf("ai.ollama.host is required for the ollama provider")
		}
	case "":
		return fmt.Errorf("ai.provider must be set")
	default:
		return fmt.Errorf("unsupported AI provider: %s", a.Provider)
	}
	if a.Concurrency < 1 {
		return fmt.Errorf("ai.concurrency must be at least 1")
	}
	return nil
}

// ProjectConfig locates the local project checkout used for context signals
// such as test-layout detection.
type ProjectConfig struct {
	LocalPath             string   `mapstructure:"local_path"`
	TestIndicators        []string `mapstructure:"test_indicators"`
	TestDependencyMarkers []string `mapstructure:"test_dependency_markers"`
	ManifestGlobs         []string `mapstructure:"manifest_globs"`
}

// ReportingConfig controls where Markdown reports are written and whether
// terminal output uses color.
type ReportingConfig struct {
	OutputDir      string `mapstructure:"output_dir"`
	TerminalColors bool   `mapstructure:"terminal_colors"`
}

// CacheConfig controls the on-disk AI response cache.
type CacheConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
}

// ServerConfig configures the webhook server mode.
type ServerConfig struct {
	Port      string `mapstructure:"port"`
	QueueSize int    `mapstructure:"queue_size"`
	Workers   int    `mapstructure:"workers"`
}

// DatabaseConfig configures the optional Postgres analysis-history store.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds the Postgres connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Load reads the configuration file at path, applies defaults, resolves
// ENV: credential references, and validates the result. Any failure is a
// fatal core.ConfigError.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, core.NewConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, core.NewConfigError("failed to parse configuration", err)
	}

	if err := cfg.resolveEnvRefs(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, core.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.gemini.model", "gemini-pro")
	v.SetDefault("ai.openai.model", "gpt-3.5-turbo")
	v.SetDefault("ai.local_llm.model", "gpt-3.5-turbo")
	v.SetDefault("ai.ollama.model", "llama3")
	v.SetDefault("ai.ollama.host", "http://localhost:11434")
	v.SetDefault("ai.strictness_level", "medium")
	v.SetDefault("ai.focus_areas", []string{"code_quality", "potential_bugs", "security"})
	v.SetDefault("ai.concurrency", 1)

	v.SetDefault("project.local_path", ".")
	v.SetDefault("project.test_indicators", []string{"tests/", "test/"})
	v.SetDefault("project.test_dependency_markers", []string{"pytest", "unittest", "testify", "jest"})
	v.SetDefault("project.manifest_globs", []string{"**/requirements*.txt", "**/pyproject.toml", "**/go.mod", "**/package.json"})

	v.SetDefault("reporting.output_dir", "reports")
	v.SetDefault("reporting.terminal_colors", true)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.directory", ".argus_cache")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.queue_size", 100)
	v.SetDefault("server.workers", 2)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "argus")
	v.SetDefault("database.dbname", "argus")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
}

// envRefPrefix marks a config value that should be read from the named
// environment variable, e.g. token: "ENV:ARGUS_GITHUB_TOKEN".
const envRefPrefix = "ENV:"

// resolveEnvRefs resolves ENV: indirection on every credential field. An
// unresolvable reference is fatal even when the field itself is optional.
func (c *Config) resolveEnvRefs() error {
	fields := []struct {
		name  string
		value *string
	}{
		{"github.token", &c.GitHub.Token},
		{"github.app.webhook_secret", &c.GitHub.App.WebhookSecret},
		{"ai.gemini.api_key", &c.AI.Gemini.APIKey},
		{"ai.openai.api_key", &c.AI.OpenAI.APIKey},
		{"ai.local_llm.api_key", &c.AI.LocalLLM.APIKey},
		{"database.password", &c.Database.Password},
	}

	for _, f := range fields {
		if !strings.HasPrefix(*f.value, envRefPrefix) {
			continue
		}
		varName := strings.TrimPrefix(*f.value, envRefPrefix)
		resolved, ok := os.LookupEnv(varName)
		if !ok || resolved == "" {
			return core.NewConfigError(
				fmt.Sprintf("environment variable %q referenced by %s is not set", varName, f.name), nil)
		}
		*f.value = resolved
	}
	return nil
}

// Validate checks the whole configuration once, at load time.
func (c *Config) Validate() error {
	if c.GitHub.Repository == "" {
		return fmt.Errorf("github.repository must be set")
	}
	owner, name, found := strings.Cut(c.GitHub.Repository, "/")
	if !found || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("github.repository must have the form owner/name, got %q", c.GitHub.Repository)
	}
	if c.GitHub.Token == "" && !c.GitHub.App.Enabled() {
		return fmt.Errorf("github.token must be set (or configure github.app for App authentication)")
	}
	if c.GitHub.App.Enabled() && c.GitHub.App.PrivateKeyPath == "" {
		return fmt.Errorf("github.app.private_key_path must be set when github.app is configured")
	}

	if err := c.AI.Validate(); err != nil {
		return err
	}

	if c.Project.LocalPath == "" {
		return fmt.Errorf("project.local_path must be set")
	}
	if c.Reporting.OutputDir == "" {
		return fmt.Errorf("reporting.output_dir must be set")
	}
	if c.Cache.Enabled && c.Cache.Directory == "" {
		return fmt.Errorf("cache.directory must be set when caching is enabled")
	}
	if c.Database.Enabled && c.Database.Password == "" {
		return fmt.Errorf("database.password must be set when the database is enabled")
	}
	return nil
}
