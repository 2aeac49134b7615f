// Package config handles configuration loading and validation for mergeflow.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/mergeflow/internal/core/llm"
	"github.com/colonyops/mergeflow/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	GitPath     string         `yaml:"git_path"`
	Provider    ProviderConfig `yaml:"provider"`
	Commit      CommitConfig   `yaml:"commit"`
	Exclude     []string       `yaml:"exclude"`       // doublestar globs matched against conflicted paths
	MaxFileSize int64          `yaml:"max_file_size"` // bytes
	Theme       string         `yaml:"theme"`
}

// ProviderConfig selects and configures the remote model.
type ProviderConfig struct {
	Name      string        `yaml:"name"`        // gemini | openai
	Model     string        `yaml:"model"`       // provider default when empty
	APIKeyEnv string        `yaml:"api_key_env"` // provider default when empty
	BaseURL   string        `yaml:"base_url"`    // openai-compatible endpoints
	Timeout   time.Duration `yaml:"timeout"`
}

// Settings converts the provider config for the llm package.
func (p ProviderConfig) Settings() llm.Settings {
	return llm.Settings{
		Name:      p.Name,
		Model:     p.Model,
		APIKeyEnv: p.APIKeyEnv,
		BaseURL:   p.BaseURL,
	}
}

// CommitConfig controls the commit offered after a run.
type CommitConfig struct {
	Author  string `yaml:"author"`
	Message string `yaml:"message"` // template, see CommitTemplateData
}

// CommitTemplateData defines the fields available to commit.message.
type CommitTemplateData struct {
	Files []string // Saved paths relative to the repository root
	Count int      // len(Files)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		GitPath: "git",
		Provider: ProviderConfig{
			Name:    llm.ProviderGemini,
			Timeout: 2 * time.Minute,
		},
		Commit: CommitConfig{
			Author:  "MergeFlow <>",
			Message: "Automated merge conflict resolution",
		},
		MaxFileSize: 1 << 20,
		Theme:       styles.DefaultTheme,
	}
}

// Load reads configuration from the given path.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.GitPath == "" {
		c.GitPath = defaults.GitPath
	}
	if c.Provider.Name == "" {
		c.Provider.Name = defaults.Provider.Name
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = defaults.Provider.Timeout
	}
	if c.Commit.Author == "" {
		c.Commit.Author = defaults.Commit.Author
	}
	if strings.TrimSpace(c.Commit.Message) == "" {
		c.Commit.Message = defaults.Commit.Message
	}
	if c.MaxFileSize == 0 {
		c.MaxFileSize = defaults.MaxFileSize
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.GitPath == "" {
		return fmt.Errorf("git_path cannot be empty")
	}

	if !slices.Contains(llm.ProviderNames, c.Provider.Name) {
		return fmt.Errorf("provider.name %q is not one of %s", c.Provider.Name, strings.Join(llm.ProviderNames, ", "))
	}

	if c.Provider.Timeout < 0 {
		return fmt.Errorf("provider.timeout must be positive")
	}

	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must be positive")
	}

	if _, ok := styles.GetPalette(c.Theme); !ok {
		return fmt.Errorf("theme %q is not one of %s", c.Theme, strings.Join(styles.ThemeNames(), ", "))
	}

	return nil
}
