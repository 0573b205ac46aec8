// Package anthropic implements llm.Backend on the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/user/nextgen/pkg/llm"
)

const (
	DefaultModel     = "claude-3-5-haiku-latest"
	defaultMaxTokens = 1024
)

type Client struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

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
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		client:    &client,
		model:     anthropic.Model(model),
		maxTokens: maxTokens,
	}, nil
}

func (c *Client) Name() string { return "anthropic" }

// Complete sends the system prompt as a dedicated system block.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	return c.send(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
}

// CompleteCompat folds the system prompt into the user turn.
func (c *Client) CompleteCompat(ctx context.Context, system, user string) (string, error) {
	return c.send(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(llm.FoldSystem(system, user))),
		},
	})
}

func (c *Client) send(ctx context.Context, params anthropic.MessageNewParams) (string, error) {
	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}
	var sb strings.Builder
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	return llm.NonEmpty(sb.String())
}
