package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog"

	"github.com/colonyops/mergeflow/internal/core/logging"
)

const base64Note = " The file below is base64 encoded because it is not valid UTF-8. Respond with the final file contents as plain text, not base64."

// OpenAI sends requests to the OpenAI chat completions API or a compatible server.
type OpenAI struct {
	client openai.Client
	model  string
	log    zerolog.Logger
}

// NewOpenAI creates an OpenAI provider. baseURL may be empty.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
		log:    logging.Component("openai"),
	}
}

func (o *OpenAI) Name() string { return ProviderOpenAI }

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	system, user := chatMessages(req)

	o.log.Debug().Ctx(ctx).
		Str("model", o.model).
		Int("bytes", len(req.Content)).
		Msg("sending chat completion request")

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{OfString: openai.String(system)},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{OfString: openai.String(user)},
				},
			},
		},
	})
	if err != nil {
		return "", Classify(fmt.Errorf("openai chat completion: %w", err))
	}

	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: %w from %s", ErrTerminal, ErrEmptyResponse, o.model)
	}
	return resp.Choices[0].Message.Content, nil
}

// chatMessages builds the system and user message text. Content that is not
// valid UTF-8 is base64 encoded so no bytes are lost in the JSON body.
func chatMessages(req Request) (system, user string) {
	if utf8.Valid(req.Content) {
		return req.Instruction, string(req.Content)
	}
	return req.Instruction + base64Note, base64.StdEncoding.EncodeToString(req.Content)
}

func openAIStatus(err error) (int, bool) {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr != nil {
		return apiErr.StatusCode, true
	}
	return 0, false
}
