// Package gateway sends prompt pairs to a language-model backend and turns
// every failure into an unavailable outcome.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/user/nextgen/pkg/llm"
)

// DefaultTimeout bounds both attempts of one Generate call.
const DefaultTimeout = 15 * time.Second

// Gateway calls a backend with a primary and one alternate call shape under a
// shared deadline. A nil backend makes every call unavailable.
type Gateway struct {
	backend llm.Backend
	timeout time.Duration
}

// New creates a gateway. A non-positive timeout selects DefaultTimeout.
func New(backend llm.Backend, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{backend: backend, timeout: timeout}
}

// Enabled reports whether a backend is configured.
func (g *Gateway) Enabled() bool {
	return g != nil && g.backend != nil
}

// Backend returns the name of the configured backend, or "none".
func (g *Gateway) Backend() string {
	if !g.Enabled() {
		return "none"
	}
	return g.backend.Name()
}

// Timeout returns the deadline applied to each Generate call.
func (g *Gateway) Timeout() time.Duration {
	return g.timeout
}

// Generate returns the backend's reply to the prompt pair. It never returns
// an error and never panics.
func (g *Gateway) Generate(ctx context.Context, system, user string) Outcome {
	if !g.Enabled() {
		return Unavailable
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	for _, shape := range []llm.Shape{llm.ShapePrimary, llm.ShapeAlternate} {
		text, err := g.attempt(ctx, shape, system, user)
		if err == nil {
			if out := Reply(cleanup(text)); out.Available() {
				return out
			}
			err = llm.ErrEmptyResponse
		}
		slog.Warn("llm attempt failed",
			"backend", g.backend.Name(),
			"shape", shape,
			"kind", classify(err),
			"error", err,
		)
		if ctx.Err() != nil {
			break
		}
	}
	return Unavailable
}

func (g *Gateway) attempt(ctx context.Context, shape llm.Shape, system, user string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", errPanic, r)
		}
	}()
	return llm.Call(ctx, g.backend, shape, system, user)
}

// cleanup converts an HTML reply to markdown and leaves anything else as is.
func cleanup(text string) string {
	trimmed := strings.TrimSpace(text)
	if !looksLikeHTML(trimmed) {
		return trimmed
	}
	md, err := htmltomarkdown.ConvertString(trimmed)
	if err != nil {
		return trimmed
	}
	return strings.TrimSpace(md)
}

func looksLikeHTML(s string) bool {
	if !strings.HasPrefix(s, "<") {
		return false
	}
	lower := strings.ToLower(s)
	for _, tag := range []string{"<ul", "<ol", "<p", "<html", "<div", "<li", "<h1", "<h2", "<h3"} {
		if strings.HasPrefix(lower, tag) {
			return true
		}
	}
	return false
}
