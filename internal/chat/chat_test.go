package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/nextgen/internal/fallback"
	"github.com/user/nextgen/internal/gateway"
	"github.com/user/nextgen/internal/state"
	"github.com/user/nextgen/internal/types"
)

type stubGateway struct {
	mu    sync.Mutex
	out   gateway.Outcome
	users []string
}

func (s *stubGateway) Generate(_ context.Context, _, user string) gateway.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, user)
	return s.out
}

func TestPostFallbackExam(t *testing.T) {
	h, reply := Post(context.Background(), &stubGateway{out: gateway.Unavailable}, nil, "I have an exam next week")
	assert.Equal(t, fallback.ChatReply("exam"), reply)
	assert.Equal(t, "Share your subject, exam date, and syllabus topics. I will return priority units, likely question patterns, and a 7-day revision plan.", reply)
	require.Len(t, h, 2)
	assert.Equal(t, types.RoleUser, h[0].Role)
	assert.Equal(t, "I have an exam next week", h[0].Content)
	assert.Equal(t, types.RoleAssistant, h[1].Role)
}

func TestPostUsesModelReply(t *testing.T) {
	gw := &stubGateway{out: gateway.Reply("Try the pomodoro method.")}
	h, reply := Post(context.Background(), gw, types.ChatHistory{
		{Role: types.RoleUser, Content: "earlier"},
		{Role: types.RoleAssistant, Content: "answer"},
	}, "how do I focus?")
	assert.Equal(t, "Try the pomodoro method.", reply)
	require.Len(t, h, 4)
	require.Len(t, gw.users, 1)
	assert.Equal(t, "user: earlier\nassistant: answer\nuser: how do I focus?", gw.users[0])
}

func TestPostNilGateway(t *testing.T) {
	_, reply := Post(context.Background(), nil, nil, "money tips")
	assert.Equal(t, fallback.ChatReply("budget"), reply)
}

func TestPostBlankMessage(t *testing.T) {
	in := types.ChatHistory{{Role: types.RoleUser, Content: "x"}}
	h, reply := Post(context.Background(), nil, in, "   ")
	assert.Equal(t, in, h)
	assert.Empty(t, reply)
}

func TestPostDoesNotModifyInput(t *testing.T) {
	in := make(types.ChatHistory, 2, 10)
	in[0] = types.ChatMessage{Role: types.RoleUser, Content: "a"}
	in[1] = types.ChatMessage{Role: types.RoleAssistant, Content: "b"}

	_, _ = Post(context.Background(), nil, in, "c")
	assert.Len(t, in, 2)
	assert.Equal(t, "b", in[1].Content)
	assert.Equal(t, types.ChatMessage{}, in[:3][2])
}

func TestPostBoundedHistory(t *testing.T) {
	gw := &stubGateway{out: gateway.Reply("ok")}
	var h types.ChatHistory
	for i := 0; i < 25; i++ {
		h, _ = Post(context.Background(), gw, h, fmt.Sprintf("q%d", i))
		require.LessOrEqual(t, len(h), types.MaxHistory)
	}
	require.Len(t, h, types.MaxHistory)
	assert.Equal(t, "q17", h[0].Content)
	assert.Equal(t, "q24", h[14].Content)

	last := gw.users[len(gw.users)-1]
	assert.Equal(t, 8, len(splitLines(last)))
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func newController(t *testing.T, gw Gateway) *Controller {
	t.Helper()
	dir := t.TempDir()
	return NewController(state.NewSessionStore(dir), state.NewHistoryStore(dir), gw)
}

func TestControllerPostAndClear(t *testing.T) {
	c := newController(t, &stubGateway{out: gateway.Unavailable})
	ctx := context.Background()
	key := types.NewSessionKey("http", "7")

	resp, err := c.Handle(ctx, key, Request{Message: "help with my resume"})
	require.NoError(t, err)
	assert.Equal(t, fallback.ChatReply("resume"), resp.Reply)
	assert.Len(t, resp.History, 2)

	resp, err = c.History(ctx, key)
	require.NoError(t, err)
	assert.Len(t, resp.History, 2)

	resp, err = c.Handle(ctx, key, Request{Action: ActionClear})
	require.NoError(t, err)
	assert.Empty(t, resp.Reply)
	require.NotNil(t, resp.History)
	assert.Len(t, resp.History, 0)

	resp, err = c.History(ctx, key)
	require.NoError(t, err)
	assert.Len(t, resp.History, 0)
}

func TestControllerBlankMessageIsNoop(t *testing.T) {
	c := newController(t, nil)
	ctx := context.Background()

	_, err := c.Handle(ctx, "k", Request{Message: "hi"})
	require.NoError(t, err)
	resp, err := c.Handle(ctx, "k", Request{Message: "  "})
	require.NoError(t, err)
	assert.Len(t, resp.History, 2)
	assert.Empty(t, resp.Reply)
}

func TestControllerUnknownAction(t *testing.T) {
	c := newController(t, nil)
	_, err := c.Handle(context.Background(), "k", Request{Action: "rewind"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestControllerSessionsAreIsolated(t *testing.T) {
	c := newController(t, nil)
	ctx := context.Background()

	_, err := c.Handle(ctx, "a", Request{Message: "one"})
	require.NoError(t, err)
	resp, err := c.Handle(ctx, "b", Request{Message: "two"})
	require.NoError(t, err)
	assert.Len(t, resp.History, 2)
	assert.Equal(t, "two", resp.History[0].Content)
}

func TestControllerConcurrentPostsKeepEveryMessage(t *testing.T) {
	c := newController(t, &stubGateway{out: gateway.Reply("ok")})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := c.Handle(ctx, "shared", Request{Message: fmt.Sprintf("msg %d", n)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	resp, err := c.History(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, resp.History, 12)
}

type failingHistory struct{ loadErr, saveErr error }

func (f failingHistory) Load(context.Context, types.SessionID) (types.ChatHistory, error) {
	return types.ChatHistory{}, f.loadErr
}

func (f failingHistory) Save(context.Context, types.SessionID, types.ChatHistory) error {
	return f.saveErr
}

func (f failingHistory) Delete(context.Context, types.SessionID) error { return nil }

func TestControllerPropagatesStorageErrors(t *testing.T) {
	boom := errors.New("disk full")
	sessions := state.NewSessionStore(t.TempDir())

	c := NewController(sessions, failingHistory{saveErr: boom}, nil)
	_, err := c.Handle(context.Background(), "k", Request{Message: "hi"})
	assert.ErrorIs(t, err, boom)

	c = NewController(sessions, failingHistory{loadErr: boom}, nil)
	_, err = c.Handle(context.Background(), "k", Request{Message: "hi"})
	assert.ErrorIs(t, err, boom)
}

func TestControllerExpire(t *testing.T) {
	dir := t.TempDir()
	sessions := state.NewSessionStore(dir)
	history := state.NewHistoryStore(dir)
	c := NewController(sessions, history, nil)
	ctx := context.Background()

	resp, err := c.Handle(ctx, "k", Request{Message: "hi"})
	require.NoError(t, err)
	id := resp.SessionID

	ok, err := c.Expire(ctx, id, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)
	h, err := history.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, h, 2)

	ok, err = c.Expire(ctx, id, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = sessions.Get(ctx, id)
	assert.ErrorIs(t, err, state.ErrNotFound)
	h, err = history.Load(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, h)

	ok, err = c.Expire(ctx, id, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)
}

// expiringGateway expires the session while its interaction is in flight.
type expiringGateway struct {
	expire func()
}

func (g *expiringGateway) Generate(context.Context, string, string) gateway.Outcome {
	go g.expire()
	time.Sleep(50 * time.Millisecond)
	return gateway.Reply("ok")
}

func TestControllerExpireWaitsForInFlightChat(t *testing.T) {
	dir := t.TempDir()
	sessions := state.NewSessionStore(dir)
	history := state.NewHistoryStore(dir)
	gw := &expiringGateway{}
	c := NewController(sessions, history, gw)
	c.now = func() time.Time { return time.Now().Add(time.Hour) }
	ctx := context.Background()

	id, err := sessions.ResolveOrCreate(ctx, "k")
	require.NoError(t, err)

	type result struct {
		ok  bool
		err error
	}
	done := make(chan result, 1)
	cutoff := time.Now().Add(time.Minute)
	gw.expire = func() {
		ok, err := c.Expire(ctx, id, cutoff)
		done <- result{ok, err}
	}

	resp, err := c.Handle(ctx, "k", Request{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, id, resp.SessionID)

	r := <-done
	require.NoError(t, r.err)
	assert.False(t, r.ok, "activity recorded by the chat keeps the session")

	h, err := history.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, h, 2)
}

func TestControllerResolvesNewSessionAfterExpire(t *testing.T) {
	c := newController(t, nil)
	ctx := context.Background()

	first, err := c.Handle(ctx, "k", Request{Message: "hi"})
	require.NoError(t, err)
	ok, err := c.Expire(ctx, first.SessionID, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.True(t, ok)

	resp, err := c.History(ctx, "k")
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionID, resp.SessionID)
	assert.Empty(t, resp.History)
}
