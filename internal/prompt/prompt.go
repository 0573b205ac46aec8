// internal/prompt/prompt.go
package prompt

import (
	"strings"

	"github.com/user/nextgen/internal/catalog"
	"github.com/user/nextgen/internal/types"
)

// DefaultMode is used when a request does not name a mode.
const DefaultMode = "advanced"

// ToolSystemPrompt is the fixed guidance sent with every tool request.
const ToolSystemPrompt = "You are a practical assistant. Return concise, high-value output as short bullet points. " +
	"Avoid hype, do not promise guaranteed outcomes, and include actionable steps."

// ChatSystemPrompt is the fixed guidance sent with every chat turn.
const ChatSystemPrompt = "You are a helpful productivity and study assistant. " +
	"Provide practical advice, steps, and concise reasoning. " +
	"Do not claim certainty for uncertain outcomes."

// RenderFields renders a tool title and its non-empty field values, one
// "Label: value" line per field in declaration order.
func RenderFields(def catalog.ToolDefinition, values catalog.Values) string {
	lines := []string{"Tool: " + def.Title}
	for _, f := range def.Fields {
		if v := values.Get(f.Name); v != "" {
			lines = append(lines, f.Label+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

// BuildToolPrompt returns the system and user prompts for a tool request.
func BuildToolPrompt(def catalog.ToolDefinition, values catalog.Values, mode string) (string, string) {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		mode = DefaultMode
	}
	user := "Create a " + mode + " quality response for this tool request.\n" +
		RenderFields(def, values) + "\n" +
		"Return 8-12 bullet points."
	return ToolSystemPrompt, user
}

// BuildChatPrompt renders the most recent messages of history as
// "role: content" lines under the chat system prompt.
func BuildChatPrompt(history types.ChatHistory) (string, string) {
	window := history.Window()
	lines := make([]string, 0, len(window))
	for _, m := range window {
		lines = append(lines, string(m.Role)+": "+m.Content)
	}
	return ChatSystemPrompt, strings.Join(lines, "\n")
}
