package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/nextgen/pkg/llm"
)

type capturedRequest struct {
	System   []map[string]any `json:"system"`
	Messages []struct {
		Role    string           `json:"role"`
		Content []map[string]any `json:"content"`
	} `json:"messages"`
	MaxTokens int `json:"max_tokens"`
}

func serve(t *testing.T, reply string, captured *capturedRequest) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":            "msg_1",
			"type":          "message",
			"role":          "assistant",
			"model":         "claude-test",
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"content":       []map[string]any{{"type": "text", "text": reply}},
			"usage":         map[string]any{"input_tokens": 3, "output_tokens": 2},
		})
	}))
	t.Cleanup(server.Close)

	c, err := New(llm.Config{BaseURL: server.URL, APIKey: "test-key", Model: "claude-test"})
	require.NoError(t, err)
	return c
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(llm.Config{})
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestComplete(t *testing.T) {
	var req capturedRequest
	c := serve(t, "- tip", &req)

	text, err := c.Complete(context.Background(), "sys", "hello")
	require.NoError(t, err)
	assert.Equal(t, "- tip", text)
	require.Len(t, req.System, 1)
	assert.Equal(t, "sys", req.System[0]["text"])
	assert.Equal(t, defaultMaxTokens, req.MaxTokens)
}

func TestCompleteCompatFoldsSystem(t *testing.T) {
	var req capturedRequest
	c := serve(t, "ok", &req)

	_, err := c.CompleteCompat(context.Background(), "sys", "hello")
	require.NoError(t, err)
	assert.Empty(t, req.System)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "sys\n\nhello", req.Messages[0].Content[0]["text"])
}

func TestCompleteEmptyText(t *testing.T) {
	var req capturedRequest
	c := serve(t, "   ", &req)

	_, err := c.Complete(context.Background(), "sys", "hello")
	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}
