//go:build integration

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/nextgen/internal/catalog"
	"github.com/user/nextgen/internal/chat"
	"github.com/user/nextgen/internal/fallback"
	"github.com/user/nextgen/internal/gateway"
	"github.com/user/nextgen/internal/generate"
	"github.com/user/nextgen/internal/prompt"
	"github.com/user/nextgen/internal/state"
	"github.com/user/nextgen/internal/sweeper"
	"github.com/user/nextgen/internal/types"
	"github.com/user/nextgen/pkg/llm"
)

// ollamaServer answers /api/chat with reply, or fails every request when
// healthy is false.
func ollamaServer(t *testing.T, reply string, healthy *atomic.Bool) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			http.Error(w, `{"error":"model not loaded"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/chat":
			json.NewEncoder(w).Encode(map[string]any{
				"model":   "llama-test",
				"message": map[string]any{"role": "assistant", "content": reply},
				"done":    true,
			})
		case "/api/generate":
			json.NewEncoder(w).Encode(map[string]any{
				"model":    "llama-test",
				"response": reply,
				"done":     true,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newGateway(t *testing.T, url string) *gateway.Gateway {
	t.Helper()
	backend, err := gateway.NewBackend(context.Background(), llm.Config{
		Provider: gateway.ProviderOllama,
		BaseURL:  url,
		Model:    "llama-test",
	})
	require.NoError(t, err)
	return gateway.New(backend, 5*time.Second)
}

func TestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	var healthy atomic.Bool
	healthy.Store(true)
	server := ollamaServer(t, "<ul><li>Track spending weekly</li><li>Automate savings</li></ul>", &healthy)
	gw := newGateway(t, server.URL)

	tools := catalog.Default()
	d := generate.NewDispatcher(tools, gw, prompt.EstimateCounter())

	values := catalog.Values{"income": "4000", "rent": "1500", "goal": "save 500"}
	res, err := d.Dispatch(ctx, generate.Request{ToolID: catalog.BudgetPlanner, Values: values})
	require.NoError(t, err)
	assert.Equal(t, generate.SourceLLM, res.Source)
	assert.Equal(t, []string{"Track spending weekly", "Automate savings"}, res.Lines)

	healthy.Store(false)
	res, err = d.Dispatch(ctx, generate.Request{ToolID: catalog.BudgetPlanner, Values: values})
	require.NoError(t, err)
	assert.Equal(t, generate.SourceFallback, res.Source)
	assert.Equal(t, fallback.Generate(catalog.BudgetPlanner, values), res.Lines)

	sessions := state.NewSessionStore(dir)
	history := state.NewHistoryStore(dir)
	controller := chat.NewController(sessions, history, gw)
	key := types.NewSessionKey("test", "user1")

	resp, err := controller.Handle(ctx, key, chat.Request{Message: "help with my exam"})
	require.NoError(t, err)
	assert.Equal(t, fallback.ChatReply("help with my exam"), resp.Reply)

	healthy.Store(true)
	for i := 0; i < 10; i++ {
		_, err := controller.Handle(ctx, key, chat.Request{Message: "more"})
		require.NoError(t, err)
	}
	resp, err = controller.History(ctx, key)
	require.NoError(t, err)
	assert.Len(t, resp.History, types.MaxHistory)
	assert.Equal(t, types.RoleAssistant, resp.History[len(resp.History)-1].Role)

	sw := sweeper.New(sessions, controller, time.Hour, "")
	n, err := sw.Sweep(ctx, time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	resp, err = controller.History(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, resp.History)
}

func TestEndToEndSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := state.OpenDB(filepath.Join(t.TempDir(), "nextgen.db"))
	require.NoError(t, err)
	defer db.Close()

	controller := chat.NewController(db, db, gateway.New(nil, 0))
	key := types.NewSessionKey("test", "sqlite")

	resp, err := controller.Handle(ctx, key, chat.Request{Message: "Update my resume for a new job"})
	require.NoError(t, err)
	assert.Equal(t, fallback.ChatReply("update my resume for a new job"), resp.Reply)
	assert.Len(t, resp.History, 2)

	resp, err = controller.Handle(ctx, key, chat.Request{Action: chat.ActionClear})
	require.NoError(t, err)
	assert.Empty(t, resp.History)
}
