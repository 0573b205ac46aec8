package auth

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/nextgen/internal/state"
)

func newService(t *testing.T, secret string) *Service {
	t.Helper()
	db, err := state.OpenDB(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db, secret, time.Hour)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s := newService(t, "secret")
	ctx := context.Background()

	user, err := s.Register(ctx, "Asha", "asha@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	got, err := s.Authenticate(ctx, "asha@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.Authenticate(ctx, "asha@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newService(t, "secret")
	ctx := context.Background()

	_, err := s.Register(ctx, "Asha", "asha@example.com", "password1")
	require.NoError(t, err)
	_, err = s.Register(ctx, "Asha 2", "ASHA@example.com", "password2")
	assert.ErrorIs(t, err, state.ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	s := newService(t, "secret")
	ctx := context.Background()

	_, err := s.Register(ctx, "", "a@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Register(ctx, "A", "not-an-email", "password1")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Register(ctx, "A", "a@example.com", "short")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterPasswordLengthLimit(t *testing.T) {
	s := newService(t, "secret")
	ctx := context.Background()

	_, err := s.Register(ctx, "A", "long@example.com", strings.Repeat("p", 80))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorContains(t, err, "at most 72 bytes")

	_, err = s.Register(ctx, "A", "multi@example.com", strings.Repeat("é", 37))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Register(ctx, "A", "edge@example.com", strings.Repeat("p", 72))
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, "edge@example.com", strings.Repeat("p", 72))
	assert.NoError(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	s := newService(t, "secret")
	user, err := s.Register(context.Background(), "Asha", "asha@example.com", "password1")
	require.NoError(t, err)

	token, expires, err := s.IssueToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	id, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestParseTokenRejects(t *testing.T) {
	s := newService(t, "secret")
	user, err := s.Register(context.Background(), "Asha", "asha@example.com", "password1")
	require.NoError(t, err)
	token, _, err := s.IssueToken(user)
	require.NoError(t, err)

	other := NewService(nil, "different", time.Hour)
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEphemeralSecret(t *testing.T) {
	a := NewService(nil, "", 0)
	b := NewService(nil, "", 0)
	assert.NotEqual(t, a.secret, b.secret)
	assert.Len(t, a.secret, 64)
	assert.Equal(t, DefaultTokenTTL, a.ttl)
}
