package state

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/nextgen/internal/types"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "data", "nextgen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDBSessions(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.ResolveOrCreate(ctx, "http:1")
	require.NoError(t, err)
	again, err := db.ResolveOrCreate(ctx, "http:1")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	other, err := db.ResolveOrCreate(ctx, "http:2")
	require.NoError(t, err)

	later := time.Now().Add(time.Hour)
	require.NoError(t, db.Touch(ctx, other, later))

	list, err := db.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, other, list[0].SessionID)
	assert.True(t, list[0].UpdatedAt.Equal(later))

	sess, err := db.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.SessionKey("http:1"), sess.SessionKey)

	_, err = db.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.Touch(ctx, "missing", later), ErrNotFound)
}

func TestDBHistory(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.ResolveOrCreate(ctx, "http:1")
	require.NoError(t, err)

	empty, err := db.Load(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Empty(t, empty)

	var h types.ChatHistory
	for i := 0; i < 20; i++ {
		role := types.RoleUser
		if i%2 == 1 {
			role = types.RoleAssistant
		}
		h = append(h, types.ChatMessage{Role: role, Content: fmt.Sprintf("m%d", i)})
	}
	require.NoError(t, db.Save(ctx, id, h))

	got, err := db.Load(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, types.MaxHistory)
	assert.Equal(t, "m4", got[0].Content)
	assert.Equal(t, types.RoleAssistant, got[15].Role)

	require.NoError(t, db.Save(ctx, id, types.ChatHistory{}))
	got, err = db.Load(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDBDeleteSession(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.ResolveOrCreate(ctx, "telegram:1:1")
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, id, types.ChatHistory{{Role: types.RoleUser, Content: "x"}}))

	require.NoError(t, db.Delete(ctx, id))

	_, err = db.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := db.Load(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDBUsers(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	u, err := db.CreateUser(ctx, "Asha", " Asha@Example.com ", "hash")
	require.NoError(t, err)
	assert.Greater(t, u.ID, int64(0))
	assert.Equal(t, "asha@example.com", u.Email)

	_, err = db.CreateUser(ctx, "Other", "asha@example.com", "hash2")
	assert.ErrorIs(t, err, ErrEmailTaken)

	byEmail, err := db.UserByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := db.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", byID.Name)

	_, err = db.UserByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = db.UserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDBReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nextgen.db")
	ctx := context.Background()

	db, err := OpenDB(path)
	require.NoError(t, err)
	id, err := db.ResolveOrCreate(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenDB(path)
	require.NoError(t, err)
	defer db.Close()
	again, err := db.ResolveOrCreate(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, id, again)
}
