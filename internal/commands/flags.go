package commands

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/mergeflow/internal/core/config"
	"github.com/colonyops/mergeflow/internal/mergeflow"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded in the Before hook and available to all commands.
	// When loading fails it holds the defaults and ConfigErr is set.
	Config    *config.Config
	ConfigErr error

	// Service runs the resolve loop; built in the Before hook
	Service *mergeflow.Service
}

// checkConfig reports a deferred config load error. The repository check
// runs first so a run outside a work tree always reports not_repository.
func (f *Flags) checkConfig(ctx context.Context, dir string) error {
	if f.ConfigErr == nil {
		return nil
	}
	if _, err := f.Service.RepoRoot(ctx, dir); err != nil {
		return err
	}
	return f.ConfigErr
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mergeflow", "config.yaml")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/mergeflow/mergeflow.log
// On Linux: $XDG_STATE_HOME/mergeflow/mergeflow.log (defaults to ~/.local/state/mergeflow/mergeflow.log)
func DefaultLogFile() string {
	// Check XDG_STATE_HOME first (works on both macOS and Linux)
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "mergeflow", "mergeflow.log")
	}

	home, _ := os.UserHomeDir()

	// On macOS, use ~/Library/Logs
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "mergeflow", "mergeflow.log")
	}

	// On Linux, use ~/.local/state
	return filepath.Join(home, ".local", "state", "mergeflow", "mergeflow.log")
}
