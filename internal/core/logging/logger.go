package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// WithContextFields attaches ContextHook so events created with .Ctx(ctx)
// carry the run ID and file path stored on the context.
func WithContextFields(l zerolog.Logger) zerolog.Logger {
	return l.Hook(ContextHook{})
}
