// Package gemini implements llm.Backend on the Gemini API. GenerateContent with
// a system instruction is the primary call shape and a one-turn chat the
// alternate.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/user/nextgen/pkg/llm"
)

const DefaultModel = "gemini-2.0-flash-001"

type Client struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

func New(ctx context.Context, cfg llm.Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, llm.ErrMissingAPIKey
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: client, model: model, maxTokens: int32(cfg.MaxTokens)}, nil
}

func (c *Client) Name() string { return "gemini" }

func (c *Client) config(system string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if c.maxTokens > 0 {
		cfg.MaxOutputTokens = c.maxTokens
	}
	return cfg
}

func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), c.config(system))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return llm.NonEmpty(resp.Text())
}

func (c *Client) CompleteCompat(ctx context.Context, system, user string) (string, error) {
	chat, err := c.client.Chats.Create(ctx, c.model, c.config(""), nil)
	if err != nil {
		return "", fmt.Errorf("creating chat: %w", err)
	}
	resp, err := chat.SendMessage(ctx, genai.Part{Text: llm.FoldSystem(system, user)})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return llm.NonEmpty(resp.Text())
}
