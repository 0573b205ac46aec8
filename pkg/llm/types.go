package llm

import (
	"errors"
	"strings"
)

var (
	// ErrMissingAPIKey is returned by constructors when no credential is set.
	ErrMissingAPIKey = errors.New("api key is required")
	// ErrEmptyResponse is returned when a call succeeds without any text.
	ErrEmptyResponse = errors.New("empty response")
)

// FoldSystem merges a system prompt into the user turn for call shapes that
// have no separate system slot.
func FoldSystem(system, user string) string {
	system = strings.TrimSpace(system)
	if system == "" {
		return user
	}
	return system + "\n\n" + user
}

// NonEmpty returns ErrEmptyResponse when text has no content.
func NonEmpty(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
