package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts run_id and file from context and adds them to log events.
// Events only carry a context when created with .Ctx(ctx).
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if runID := GetRunID(ctx); runID != "" {
		e.Str("run_id", runID)
	}

	if file := GetFile(ctx); file != "" {
		e.Str("file", file)
	}
}
