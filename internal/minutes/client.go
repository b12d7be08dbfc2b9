package minutes

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// CompletionRequest is the single call shape the engine makes against the
// AI backend: one prompt in, free-form text out
type CompletionRequest struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	Prompt      string
}

// CompletionClient abstracts the AI backend. A nil client means the
// backend is unconfigured and every operation takes its fallback path
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type openaiClient struct {
	client openai.Client
}

// NewOpenAIClient creates a completion client backed by the OpenAI chat
// completions API. An optional base URL supports compatible backends
func NewOpenAIClient(apiKey, baseURL string) CompletionClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &openaiClient{client: openai.NewClient(opts...)}
}

func (c *openaiClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		Model:       openai.ChatModel(req.Model),
		MaxTokens:   openai.Int(req.MaxTokens),
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
