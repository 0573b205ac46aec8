package types

import (
	"context"
	"time"
)

// SessionStore maps session keys to sessions and tracks their activity.
type SessionStore interface {
	ResolveOrCreate(ctx context.Context, key SessionKey) (SessionID, error)
	Get(ctx context.Context, id SessionID) (*Session, error)
	List(ctx context.Context) ([]*Session, error)
	Touch(ctx context.Context, id SessionID, at time.Time) error
	Delete(ctx context.Context, id SessionID) error
}

// HistoryStore persists the chat history of a session.
type HistoryStore interface {
	Load(ctx context.Context, id SessionID) (ChatHistory, error)
	Save(ctx context.Context, id SessionID, history ChatHistory) error
	Delete(ctx context.Context, id SessionID) error
}

// UserStore persists registered accounts.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error)
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByID(ctx context.Context, id int64) (*User, error)
}
