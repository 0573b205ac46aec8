// Package ollama implements llm.Backend on a local Ollama server. /api/chat is
// the primary call shape and /api/generate the alternate.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/user/nextgen/pkg/llm"
)

const (
	DefaultHost  = "http://localhost:11434"
	DefaultModel = "llama3.1:latest"
)

type Client struct {
	client    *api.Client
	model     string
	maxTokens int
}

// New creates a client for the server at cfg.BaseURL. Ollama needs no key.
func New(cfg llm.Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultHost
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse ollama url: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		client:    api.NewClient(parsed, http.DefaultClient),
		model:     model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

func (c *Client) Name() string { return "ollama" }

func (c *Client) options() map[string]any {
	if c.maxTokens <= 0 {
		return nil
	}
	return map[string]any{"num_predict": c.maxTokens}
}

func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream:  &stream,
		Options: c.options(),
	}
	var sb strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	return llm.NonEmpty(sb.String())
}

func (c *Client) CompleteCompat(ctx context.Context, system, user string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:   c.model,
		System:  system,
		Prompt:  user,
		Stream:  &stream,
		Options: c.options(),
	}
	var sb strings.Builder
	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return llm.NonEmpty(sb.String())
}
