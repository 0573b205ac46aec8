// Package generate turns tool requests into output lines, asking the language
// model first and falling back to the deterministic generators.
package generate

import (
	"context"
	"log/slog"

	"github.com/user/nextgen/internal/catalog"
	"github.com/user/nextgen/internal/fallback"
	"github.com/user/nextgen/internal/gateway"
	"github.com/user/nextgen/internal/prompt"
)

// Gateway is the model call the dispatcher depends on.
type Gateway interface {
	Generate(ctx context.Context, system, user string) gateway.Outcome
}

// Source records which path produced a result.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Request is one tool invocation.
type Request struct {
	ToolID string
	Values catalog.Values
	Mode   string
}

// Result holds the output lines of a tool. Lines is never nil.
type Result struct {
	Lines  []string `json:"lines"`
	Source Source   `json:"source"`
}

// Preview is the prompt pair a request would send.
type Preview struct {
	System string `json:"system"`
	User   string `json:"user"`
	Tokens int    `json:"tokens"`
}

// Dispatcher runs tool requests against a registry and a gateway.
type Dispatcher struct {
	tools   *catalog.Registry
	gw      Gateway
	counter *prompt.Counter
}

// NewDispatcher creates a dispatcher. gw may be nil, in which case every
// request uses the fallback generators. counter may be nil.
func NewDispatcher(tools *catalog.Registry, gw Gateway, counter *prompt.Counter) *Dispatcher {
	return &Dispatcher{tools: tools, gw: gw, counter: counter}
}

// Tools returns the registry the dispatcher resolves against.
func (d *Dispatcher) Tools() *catalog.Registry {
	return d.tools
}

// Dispatch resolves the tool, asks the gateway and normalizes its reply. When
// the gateway is unavailable or the reply normalizes to nothing, the tool's
// fallback generator runs instead. The only error is an unknown tool.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	def, err := d.tools.Lookup(req.ToolID)
	if err != nil {
		return Result{}, err
	}

	system, user := prompt.BuildToolPrompt(def, req.Values, req.Mode)
	if d.gw != nil {
		if text, ok := d.gw.Generate(ctx, system, user).Text(); ok {
			if lines := Normalize(text); len(lines) > 0 {
				slog.Debug("tool generated", "tool", def.ID, "source", SourceLLM, "lines", len(lines),
					"prompt_tokens", d.counter.CountPair(system, user))
				return Result{Lines: lines, Source: SourceLLM}, nil
			}
		}
	}

	lines := fallback.ForDefinition(def, req.Values)
	if len(lines) > MaxLines {
		lines = lines[:MaxLines]
	}
	slog.Debug("tool generated", "tool", def.ID, "source", SourceFallback, "lines", len(lines))
	return Result{Lines: lines, Source: SourceFallback}, nil
}

// Preview returns the prompts a request would send without calling the
// gateway.
func (d *Dispatcher) Preview(req Request) (Preview, error) {
	def, err := d.tools.Lookup(req.ToolID)
	if err != nil {
		return Preview{}, err
	}
	system, user := prompt.BuildToolPrompt(def, req.Values, req.Mode)
	return Preview{System: system, User: user, Tokens: d.counter.CountPair(system, user)}, nil
}
