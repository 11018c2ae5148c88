package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STORAGE_BACKEND", "ASSISTANT_PROVIDER", "ASSISTANT_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY",
		"DATABASE_URL", "DB_HOST", "DB_PASSWORD", "SERVER_PORT", "REQUEST_TIMEOUT_SECONDS", "JWT_SECRET",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendBolt, cfg.Storage.Backend)
	assert.Equal(t, "./data/tasks.db", cfg.Storage.BoltPath)
	assert.Equal(t, ProviderOpenAI, cfg.Assistant.Provider)
	assert.Empty(t, cfg.Assistant.APIKey)
	assert.False(t, cfg.RemoteAssistant())
	assert.Equal(t, 5*time.Second, cfg.Context.RequestTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "postgres://smarttask:@localhost:5432/smarttask?sslmode=disable", cfg.Database.URL)
	assert.Empty(t, cfg.JWT.Secret)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("ASSISTANT_PROVIDER", "GEMINI")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "12")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/tasks")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, ProviderGemini, cfg.Assistant.Provider)
	assert.Equal(t, "g-key", cfg.Assistant.APIKey)
	assert.True(t, cfg.RemoteAssistant())
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, 12*time.Second, cfg.Context.RequestTimeout)
	assert.Equal(t, "postgres://u:p@db/tasks", cfg.Database.URL)
}

func TestAssistantKeyPrefersGenericVariable(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "provider-key")
	assert.Equal(t, "provider-key", assistantKey(ProviderOpenAI))
	assert.Empty(t, assistantKey(ProviderGemini))
	assert.Empty(t, assistantKey(ProviderLocal))

	t.Setenv("ASSISTANT_API_KEY", "generic-key")
	assert.Equal(t, "generic-key", assistantKey(ProviderOpenAI))
	assert.Equal(t, "generic-key", assistantKey(ProviderLocal))
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "mongo")
	_, err := Load()
	assert.ErrorContains(t, err, "STORAGE_BACKEND")

	clearEnv(t)
	t.Setenv("ASSISTANT_PROVIDER", "clippy")
	_, err = Load()
	assert.ErrorContains(t, err, "ASSISTANT_PROVIDER")
}

func TestGetDuration(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "1m30s")
	assert.Equal(t, 90*time.Second, getDuration("SOME_TIMEOUT", time.Second))

	t.Setenv("SOME_TIMEOUT", "7")
	assert.Equal(t, 7*time.Second, getDuration("SOME_TIMEOUT", time.Second))

	t.Setenv("SOME_TIMEOUT", "soon")
	assert.Equal(t, time.Second, getDuration("SOME_TIMEOUT", time.Second))
}
