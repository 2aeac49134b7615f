package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "run_id and file",
			setupCtx: func() context.Context {
				ctx := context.Background()
				ctx = WithRunID(ctx, "run123")
				ctx = WithFile(ctx, "src/main.go")
				return ctx
			},
			wantKeys: []string{"run_id", "file"},
		},
		{
			name: "only run_id",
			setupCtx: func() context.Context {
				return WithRunID(context.Background(), "run123")
			},
			wantKeys:  []string{"run_id"},
			wantEmpty: []string{"file"},
		},
		{
			name: "only file",
			setupCtx: func() context.Context {
				return WithFile(context.Background(), "README.md")
			},
			wantKeys:  []string{"file"},
			wantEmpty: []string{"run_id"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"run_id", "file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := tt.setupCtx()

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(ctx).Msg("test")

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}

			for _, key := range tt.wantKeys {
				if _, ok := logEntry[key]; !ok {
					t.Errorf("expected %s to be present in log", key)
				}
			}

			for _, key := range tt.wantEmpty {
				if _, ok := logEntry[key]; ok {
					t.Errorf("expected %s to be absent from log", key)
				}
			}
		})
	}
}
