// Package llm talks to remote text-completion services.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// Provider names accepted in configuration.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ProviderNames lists the supported providers.
var ProviderNames = []string{ProviderGemini, ProviderOpenAI}

var (
	// ErrTransient marks failures that may succeed if tried again later:
	// timeouts, network errors, rate limits and server errors.
	ErrTransient = errors.New("transient remote error")
	// ErrTerminal marks failures that will not succeed without a change on
	// the caller's side, such as bad credentials or an invalid request.
	ErrTerminal = errors.New("terminal remote error")
	// ErrEmptyResponse is returned when the service answers with no text.
	ErrEmptyResponse = errors.New("empty response")
	// ErrMissingAPIKey is returned when no credential is configured.
	ErrMissingAPIKey = errors.New("missing api key")
)

// Request is a single completion request.
type Request struct {
	Instruction string
	Content     []byte
	MIMEType    string
	// Path is informational and only used for logging.
	Path string
}

// Provider performs one blocking completion round trip.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Settings configures a provider.
type Settings struct {
	Name      string
	Model     string
	APIKeyEnv string
	BaseURL   string
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	default:
		return "gemini-2.0-flash-exp"
	}
}

// DefaultAPIKeyEnv returns the environment variable holding the provider credential.
func DefaultAPIKeyEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

// APIKey resolves the credential for s from the environment.
func APIKey(s Settings) (string, error) {
	env := s.APIKeyEnv
	if env == "" {
		env = DefaultAPIKeyEnv(s.Name)
	}

	key := strings.TrimSpace(os.Getenv(env))
	if key == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrMissingAPIKey, env)
	}
	return key, nil
}

// New constructs the provider named in s.
func New(ctx context.Context, s Settings) (Provider, error) {
	key, err := APIKey(s)
	if err != nil {
		return nil, err
	}

	model := s.Model
	if model == "" {
		model = DefaultModel(s.Name)
	}

	switch s.Name {
	case "", ProviderGemini:
		return NewGemini(ctx, key, model)
	case ProviderOpenAI:
		return NewOpenAI(key, model, s.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want one of %s)", s.Name, strings.Join(ProviderNames, ", "))
	}
}

// statusCoder is implemented by errors that carry an HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// Classify wraps err with ErrTransient or ErrTerminal. Errors already
// classified are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransient) || errors.Is(err, ErrTerminal) {
		return err
	}

	if isTransient(err) {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return fmt.Errorf("%w: %w", ErrTerminal, err)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		return transientStatus(sc.HTTPStatus())
	}

	if status, ok := apiStatus(err); ok {
		return transientStatus(status)
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func transientStatus(code int) bool {
	switch {
	case code == 408, code == 429:
		return true
	case code >= 500 && code <= 599:
		return true
	default:
		return false
	}
}
