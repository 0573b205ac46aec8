package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/nextgen/internal/catalog"
	"github.com/user/nextgen/internal/chat"
	"github.com/user/nextgen/internal/types"
)

const maxTelegramMessage = 4096

const errorReply = "Sorry, I could not save this conversation. Please try again."

// Adapter bridges Telegram chats to the chat controller.
type Adapter struct {
	bot   *tgbotapi.BotAPI
	chat  *chat.Controller
	tools *catalog.Registry
}

// New creates a Telegram adapter.
func New(token string, controller *chat.Controller, tools *catalog.Registry) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Adapter{bot: bot, chat: controller, tools: tools}, nil
}

// Start long-polls for updates until ctx is canceled.
func (a *Adapter) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := a.bot.GetUpdatesChan(u)
	slog.Info("telegram adapter started", "bot", a.bot.Self.UserName)

	for {
		select {
		case update := <-updates:
			msg := update.Message
			if msg == nil || msg.Text == "" || msg.From == nil {
				continue
			}
			key := buildSessionKey(msg.From.ID, msg.Chat.ID)
			a.sendResponse(msg.Chat.ID, a.reply(ctx, key, msg.Text, msg.Command()))
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return
		}
	}
}

// reply computes the answer to one message. command is empty for plain text.
func (a *Adapter) reply(ctx context.Context, key types.SessionKey, text, command string) string {
	switch command {
	case "":
		resp, err := a.chat.Handle(ctx, key, chat.Request{Message: text})
		if err != nil {
			slog.Error("telegram chat failed", "session_key", key, "error", err)
			return errorReply
		}
		if resp.Reply == "" {
			return "Send me a message to get started."
		}
		return resp.Reply

	case "start":
		return "Hello! I'm your study and productivity assistant. Ask me anything, " +
			"or send /tools to see what I can generate."

	case "clear":
		if _, err := a.chat.Handle(ctx, key, chat.Request{Action: chat.ActionClear}); err != nil {
			slog.Error("telegram clear failed", "session_key", key, "error", err)
			return errorReply
		}
		return "Conversation cleared."

	case "tools":
		var b strings.Builder
		b.WriteString("Available tools:\n")
		for _, def := range a.tools.List() {
			fmt.Fprintf(&b, "- %s (%s): %s\n", def.Title, def.ID, def.Description)
		}
		return strings.TrimRight(b.String(), "\n")

	case "status":
		resp, err := a.chat.History(ctx, key)
		if err != nil {
			slog.Error("telegram status failed", "session_key", key, "error", err)
			return "Error fetching status."
		}
		return fmt.Sprintf("Session: %s\nMessages: %d/%d", resp.SessionID, len(resp.History), types.MaxHistory)

	default:
		return "Unknown command. Available: /start, /clear, /tools, /status"
	}
}

func (a *Adapter) sendResponse(chatID int64, text string) {
	for _, part := range splitMessage(text) {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = "Markdown"
		if _, err := a.bot.Send(msg); err != nil {
			// Retry without markdown if it fails
			msg.ParseMode = ""
			if _, err := a.bot.Send(msg); err != nil {
				slog.Error("send message failed", "chat_id", chatID, "error", err)
			}
		}
	}
}

// splitMessage cuts text into chunks of at most maxTelegramMessage bytes
// without splitting a UTF-8 sequence.
func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end >= len(text) {
			parts = append(parts, text)
			break
		}
		for end > 0 && !utf8.RuneStart(text[end]) {
			end--
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}

func buildSessionKey(userID, chatID int64) types.SessionKey {
	return types.NewSessionKey("telegram",
		strconv.FormatInt(userID, 10),
		strconv.FormatInt(chatID, 10),
	)
}
