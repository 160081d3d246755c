package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dummy", cfg.Generation.Provider)
	assert.Equal(t, 20, cfg.Generation.MaxHistoryMessages)
	assert.Equal(t, 4000, cfg.Generation.MaxContextChars)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("GENERATION_PROVIDER", "openai")
	t.Setenv("GENERATION_MAX_CONTEXT_CHARS", "123")
	t.Setenv("MYSQL_DB", "convobase_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "openai", cfg.Generation.Provider)
	assert.Equal(t, 123, cfg.Generation.MaxContextChars)
	assert.Contains(t, cfg.MySQLDSN(), "convobase_test")
}

func TestEnvOverrideIgnoresMalformedInt(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("APP_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
}
