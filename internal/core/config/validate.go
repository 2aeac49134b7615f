package config

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/mergeflow/internal/core/llm"
	"github.com/colonyops/mergeflow/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// template syntax, glob patterns, and file accessibility. The configPath argument
// specifies the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateExclude(),
		c.validateCommit(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if _, err := llm.APIKey(c.Provider.Settings()); err != nil {
		warnings = append(warnings, ValidationWarning{
			Category: "Provider",
			Item:     c.Provider.Name,
			Message:  err.Error(),
		})
	}

	if c.Provider.BaseURL != "" && c.Provider.Name != llm.ProviderOpenAI {
		warnings = append(warnings, ValidationWarning{
			Category: "Provider",
			Item:     "base_url",
			Message:  fmt.Sprintf("base_url is ignored by the %s provider", c.Provider.Name),
		})
	}

	return warnings
}

// validateFileAccess checks the config file and git executable.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("git_path", c.GitPath, gitExecutableExists),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// gitExecutableExists validates that the git path is executable.
func gitExecutableExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}

// validateExclude checks exclude entries are valid doublestar patterns.
func (c *Config) validateExclude() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Exclude {
		if strings.TrimSpace(pattern) == "" {
			errs = errs.Append(fmt.Sprintf("exclude[%d]", i), fmt.Errorf("pattern cannot be empty"))
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("exclude[%d]", i), fmt.Errorf("invalid glob %q", pattern))
		}
	}
	return errs.ToError()
}

// validateCommit checks the commit author and message template.
func (c *Config) validateCommit() error {
	var errs criterio.FieldErrorsBuilder

	if !strings.Contains(c.Commit.Author, "<") || !strings.HasSuffix(strings.TrimSpace(c.Commit.Author), ">") {
		errs = errs.Append("commit.author", fmt.Errorf("must look like \"Name <email>\", got %q", c.Commit.Author))
	}

	sample := CommitTemplateData{Files: []string{"path/a.txt"}, Count: 1}
	if err := tmpl.Validate(c.Commit.Message, sample); err != nil {
		errs = errs.Append("commit.message", fmt.Errorf("template error: %w", err))
	}

	return errs.ToError()
}

// RenderCommitMessage renders commit.message for the saved files.
func (c *Config) RenderCommitMessage(files []string) (string, error) {
	msg, err := tmpl.Render(c.Commit.Message, CommitTemplateData{Files: files, Count: len(files)})
	if err != nil {
		return "", fmt.Errorf("render commit message: %w", err)
	}
	return strings.TrimSpace(msg), nil
}
