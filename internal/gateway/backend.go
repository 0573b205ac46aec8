package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/nextgen/pkg/llm"
	"github.com/user/nextgen/pkg/llm/anthropic"
	"github.com/user/nextgen/pkg/llm/gemini"
	"github.com/user/nextgen/pkg/llm/ollama"
	"github.com/user/nextgen/pkg/llm/openai"
)

// Provider names accepted by NewBackend.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderGemini    = "gemini"
	ProviderNone      = "none"
)

// NewBackend builds the backend selected by cfg.Provider. Missing credentials
// are not an error: the result is a nil backend and the gateway reports every
// call as unavailable.
func NewBackend(ctx context.Context, cfg llm.Config) (llm.Backend, error) {
	var (
		b   llm.Backend
		err error
	)
	switch cfg.Provider {
	case "", ProviderOpenAI:
		b, err = openai.New(cfg)
	case ProviderAnthropic:
		b, err = anthropic.New(cfg)
	case ProviderGemini:
		b, err = gemini.New(ctx, cfg)
	case ProviderOllama:
		b, err = ollama.New(cfg)
	case ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	if errors.Is(err, llm.ErrMissingAPIKey) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", cfg.Provider, err)
	}
	return b, nil
}
