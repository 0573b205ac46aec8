package prompt

import (
	"log/slog"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Counter reports prompt sizes in tokens. When no encoding can be loaded it
// estimates from the rune count.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter selects the tokenizer for model, falling back to cl100k_base and
// finally to the estimate.
func NewCounter(model string) *Counter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			slog.Debug("tokenizer unavailable, estimating token counts", "error", err)
			return &Counter{}
		}
	}
	return &Counter{enc: enc}
}

// EstimateCounter returns a Counter that never loads an encoding.
func EstimateCounter() *Counter {
	return &Counter{}
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	if c == nil || c.enc == nil {
		return Estimate(text)
	}
	return len(c.enc.Encode(text, nil, nil))
}

// CountPair returns the combined token count of a system/user prompt pair.
func (c *Counter) CountPair(system, user string) int {
	return c.Count(system) + c.Count(user)
}

// Estimate approximates a token count as one token per four runes.
func Estimate(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}
