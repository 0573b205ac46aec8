package types

import "time"

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatHistory is the ordered, bounded conversation of one session.
type ChatHistory []ChatMessage

const (
	// MaxHistory is the number of messages a session keeps.
	MaxHistory = 16
	// ContextWindow is the number of trailing messages sent to the model.
	ContextWindow = 8
)

// Trim evicts the oldest messages so that at most MaxHistory remain.
// The returned slice never aliases the receiver's backing array when
// eviction happens.
func (h ChatHistory) Trim() ChatHistory {
	if len(h) <= MaxHistory {
		return h
	}
	out := make(ChatHistory, MaxHistory)
	copy(out, h[len(h)-MaxHistory:])
	return out
}

// Window returns the trailing ContextWindow messages.
func (h ChatHistory) Window() ChatHistory {
	if len(h) <= ContextWindow {
		return h
	}
	return h[len(h)-ContextWindow:]
}

// Session is the index entry of a conversation owner.
type Session struct {
	SessionID  SessionID  `json:"session_id"`
	SessionKey SessionKey `json:"session_key"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// User is a registered account.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
