// Package chat runs the free-form assistant over a bounded, persisted
// conversation history.
package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/user/nextgen/internal/fallback"
	"github.com/user/nextgen/internal/gateway"
	"github.com/user/nextgen/internal/prompt"
	"github.com/user/nextgen/internal/types"
)

// Gateway is the model call a conversation turn depends on.
type Gateway interface {
	Generate(ctx context.Context, system, user string) gateway.Outcome
}

// Post appends message and a reply to history and returns the new history
// with the reply. A blank message leaves history unchanged and yields no
// reply. The input slice is never modified.
func Post(ctx context.Context, gw Gateway, history types.ChatHistory, message string) (types.ChatHistory, string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return history, ""
	}

	h := make(types.ChatHistory, 0, len(history)+2)
	h = append(h, history...)
	h = append(h, types.ChatMessage{Role: types.RoleUser, Content: message})
	h = h.Trim()

	reply, source := "", "fallback"
	if gw != nil {
		system, user := prompt.BuildChatPrompt(h)
		if text, ok := gw.Generate(ctx, system, user).Text(); ok {
			reply, source = text, "llm"
		}
	}
	if reply == "" {
		reply = fallback.ChatReply(message)
	}
	slog.Debug("chat reply", "source", source, "history", len(h)+1)

	h = append(h, types.ChatMessage{Role: types.RoleAssistant, Content: reply})
	return h.Trim(), reply
}
