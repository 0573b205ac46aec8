package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/nextgen/pkg/llm"
)

func TestNewRequiresKey(t *testing.T) {
	_, err := New(context.Background(), llm.Config{})
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestConfigSystemInstruction(t *testing.T) {
	c := &Client{maxTokens: 256}

	cfg := c.config("be brief")
	if assert.NotNil(t, cfg.SystemInstruction) {
		assert.Equal(t, "be brief", cfg.SystemInstruction.Parts[0].Text)
	}
	assert.Equal(t, int32(256), cfg.MaxOutputTokens)

	assert.Nil(t, c.config("").SystemInstruction)
}
