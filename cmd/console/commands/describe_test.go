package commands

import (
	"bytes"
	"testing"

	"lexron-admin/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	var out bytes.Buffer
	cfg := &config.Config{
		Backend: config.BackendConfig{URL: config.DefaultBackendURL, PublicKey: config.DefaultBackendKey},
		GenAI:   config.GenAIConfig{Model: "gemini-3-flash-preview"},
		Console: config.ConsoleConfig{LogFile: "console.log"},
	}

	require.NoError(t, describe(&out, cfg))

	text := out.String()
	assert.Contains(t, text, config.DefaultBackendURL)
	assert.Contains(t, text, "built-in fallback")
	assert.Contains(t, text, "disabled, API_KEY not set")
	assert.Contains(t, text, "/admin/subcategories")
	assert.Contains(t, text, "Manage Category")
}

func TestRootTakesNoFlags(t *testing.T) {
	assert.False(t, rootCmd.HasAvailableFlags())
	assert.Contains(t, rootCmd.Commands(), describeCmd)
}
