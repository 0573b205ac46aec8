package llm

import "context"

// Backend is a text-completion service reachable through two equivalent call
// shapes. Callers try Complete first and CompleteCompat once if it fails.
type Backend interface {
	// Name identifies the backend in logs, e.g. "openai".
	Name() string

	// Complete sends the prompt pair through the backend's primary interface.
	Complete(ctx context.Context, system, user string) (string, error)

	// CompleteCompat sends the same prompt pair through the alternate interface.
	CompleteCompat(ctx context.Context, system, user string) (string, error)
}

// Config holds common configuration for LLM backends.
type Config struct {
	Provider  string
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
}

// Shape names the call interface used for one attempt.
type Shape string

const (
	ShapePrimary   Shape = "primary"
	ShapeAlternate Shape = "alternate"
)

// Call dispatches to the method of b matching shape.
func Call(ctx context.Context, b Backend, shape Shape, system, user string) (string, error) {
	if shape == ShapeAlternate {
		return b.CompleteCompat(ctx, system, user)
	}
	return b.Complete(ctx, system, user)
}
