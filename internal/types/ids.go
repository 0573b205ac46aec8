package types

import (
	"strings"

	"github.com/google/uuid"
)

// SessionKey identifies the owner of a conversation on a given surface,
// e.g. "http:42" or "telegram:1001:2002".
type SessionKey string

// SessionID is the stable identifier a SessionKey resolves to.
type SessionID string

func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

func NewSessionKey(parts ...string) SessionKey {
	return SessionKey(strings.Join(parts, ":"))
}
