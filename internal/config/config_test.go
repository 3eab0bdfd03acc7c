package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_BackendFallbacks(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "   ")

	cfg := Load()

	assert.Equal(t, DefaultBackendURL, cfg.Backend.URL)
	assert.Equal(t, DefaultBackendKey, cfg.Backend.PublicKey)
}

func TestLoad_BackendFromEnvironment(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://backend.example.com")
	t.Setenv("SUPABASE_ANON_KEY", "anon")

	cfg := Load()

	assert.Equal(t, "https://backend.example.com", cfg.Backend.URL)
	assert.Equal(t, "anon", cfg.Backend.PublicKey)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
