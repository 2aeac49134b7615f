package logging

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	fileKey  contextKey = "file"
)

// WithRunID adds a run ID to the context. One run is one mergeflow invocation.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithFile adds the path of the file currently being resolved to the context.
func WithFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, fileKey, path)
}

// GetRunID retrieves the run ID from the context.
// Returns empty string if not present.
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// GetFile retrieves the file path from the context.
// Returns empty string if not present.
func GetFile(ctx context.Context) string {
	if p, ok := ctx.Value(fileKey).(string); ok {
		return p
	}
	return ""
}
