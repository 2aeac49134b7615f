package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/colonyops/mergeflow/internal/core/logging"
)

// Gemini sends requests to the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewGemini creates a Gemini provider using the given API key.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  model,
		log:    logging.Component("gemini"),
	}, nil
}

func (g *Gemini) Name() string { return ProviderGemini }

// Complete sends the instruction as text and the content as inline data,
// which carries arbitrary bytes without loss.
func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	mime := req.MIMEType
	if mime == "" {
		mime = "text/plain"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(req.Instruction),
			genai.NewPartFromBytes(req.Content, mime),
		}, genai.RoleUser),
	}

	g.log.Debug().Ctx(ctx).
		Str("model", g.model).
		Int("bytes", len(req.Content)).
		Msg("sending generate content request")

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", Classify(fmt.Errorf("gemini generate content: %w", err))
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %w from %s", ErrTerminal, ErrEmptyResponse, g.model)
	}
	return text, nil
}

// apiStatus extracts the HTTP status from SDK error types.
func apiStatus(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return openAIStatus(err)
}
