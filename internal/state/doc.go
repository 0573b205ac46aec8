// Package state provides file-backed and SQLite-backed storage for sessions,
// chat histories and user accounts.
package state

import (
	"errors"

	"github.com/user/nextgen/internal/types"
)

var (
	// ErrNotFound is returned when a session or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// Compile-time interface compliance checks.
var _ types.SessionStore = (*SessionStore)(nil)
var _ types.HistoryStore = (*HistoryStore)(nil)
var _ types.SessionStore = (*DB)(nil)
var _ types.HistoryStore = (*DB)(nil)
var _ types.UserStore = (*DB)(nil)
