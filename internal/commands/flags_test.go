package commands

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/colonyops/mergeflow/internal/core/git"
	"github.com/colonyops/mergeflow/internal/core/prompt"
	"github.com/colonyops/mergeflow/internal/mergeflow"
	"github.com/colonyops/mergeflow/pkg/executil"
)

func TestDefaultConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "mergeflow", "config.yaml"), DefaultConfigPath())
}

func TestDefaultLogFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "mergeflow", "mergeflow.log"), DefaultLogFile())
}

func TestFlags_CheckConfig(t *testing.T) {
	loadErr := &mergeflow.Error{Kind: mergeflow.ErrConfig, Err: errors.New("load config: yaml: line 3: bad indent")}

	tests := []struct {
		name      string
		configErr error
		repoErr   error
		wantKind  string
	}{
		{name: "no config error", wantKind: ""},
		{name: "config error inside a repository", configErr: loadErr, wantKind: "config"},
		{name: "not a repository wins over config error", configErr: loadErr, repoErr: errors.New("fatal: not a git repository"), wantKind: "not_repository"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := newTestFlags(t, "")
			flags.ConfigErr = tt.configErr

			exec := &executil.RecordingExecutor{
				Outputs: map[string][]byte{"git rev-parse": []byte("/repo\n")},
				Errors:  map[string]error{},
			}
			if tt.repoErr != nil {
				exec.Errors["git rev-parse"] = tt.repoErr
			}
			flags.Service = mergeflow.NewService(flags.Config, git.NewExecutor("git", exec), nil, nil, prompt.LineSpinner{}, nil, zerolog.Nop())

			err := flags.checkConfig(context.Background(), "/repo/sub")
			assert.Equal(t, tt.wantKind, mergeflow.KindOf(err))
			if tt.configErr == nil {
				assert.Empty(t, exec.Commands, "no git call without a pending config error")
			}
		})
	}
}
