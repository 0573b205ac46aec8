package telegram

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/nextgen/internal/catalog"
	"github.com/user/nextgen/internal/chat"
	"github.com/user/nextgen/internal/fallback"
	"github.com/user/nextgen/internal/state"
)

func TestSplitMessage(t *testing.T) {
	short := "Hello world"
	parts := splitMessage(short)
	require.Len(t, parts, 1)
	assert.Equal(t, short, parts[0])
}

func TestSplitMessageLong(t *testing.T) {
	long := strings.Repeat("a", 5000)
	parts := splitMessage(long)
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], maxTelegramMessage)
}

func TestSplitMessageKeepsRunes(t *testing.T) {
	long := strings.Repeat("é", 3000)
	parts := splitMessage(long)
	require.Len(t, parts, 2)
	for _, p := range parts {
		assert.True(t, utf8.ValidString(p))
		assert.LessOrEqual(t, len(p), maxTelegramMessage)
	}
	assert.Equal(t, long, parts[0]+parts[1])
}

func TestBuildSessionKey(t *testing.T) {
	assert.Equal(t, "telegram:12345:67890", string(buildSessionKey(12345, 67890)))
}

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	dir := t.TempDir()
	controller := chat.NewController(state.NewSessionStore(dir), state.NewHistoryStore(dir), nil)
	return &Adapter{chat: controller, tools: catalog.Default()}
}

func TestReplyFlow(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	key := buildSessionKey(1, 2)

	assert.Equal(t, fallback.ChatReply("budget"), a.reply(ctx, key, "money help", ""))
	assert.Contains(t, a.reply(ctx, key, "/status", "status"), "Messages: 2/16")
	assert.Equal(t, "Conversation cleared.", a.reply(ctx, key, "/clear", "clear"))
	assert.Contains(t, a.reply(ctx, key, "/status", "status"), "Messages: 0/16")
}

func TestReplyCommands(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()
	key := buildSessionKey(1, 2)

	tools := a.reply(ctx, key, "/tools", "tools")
	assert.Contains(t, tools, "Study Planner (study-planner)")
	assert.Contains(t, a.reply(ctx, key, "/start", "start"), "/tools")
	assert.Contains(t, a.reply(ctx, key, "/nope", "nope"), "Unknown command")
}
