// Package openai implements llm.Backend on the OpenAI API. The Responses API
// is the primary call shape and Chat Completions the alternate.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"github.com/user/nextgen/pkg/llm"
)

const DefaultModel = "gpt-4.1-mini"

// Client talks to OpenAI or any server implementing its API.
type Client struct {
	client    openai.Client
	model     string
	maxTokens int64
}

// New creates a client from cfg. An empty BaseURL uses the public API.
func New(cfg llm.Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, llm.ErrMissingAPIKey
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: int64(cfg.MaxTokens),
	}, nil
}

func (c *Client) Name() string { return "openai" }

// Complete uses the Responses API.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	params := responses.ResponseNewParams{
		Model:        shared.ResponsesModel(c.model),
		Instructions: openai.String(system),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(user),
		},
	}
	if c.maxTokens > 0 {
		params.MaxOutputTokens = openai.Int(c.maxTokens)
	}
	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create response: %w", err)
	}
	return llm.NonEmpty(resp.OutputText())
}

// CompleteCompat uses Chat Completions.
func (c *Client) CompleteCompat(ctx context.Context, system, user string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	}
	if c.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(c.maxTokens)
	}
	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", llm.ErrEmptyResponse
	}
	return llm.NonEmpty(completion.Choices[0].Message.Content)
}
