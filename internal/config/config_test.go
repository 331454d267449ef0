package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSessionSecret(t *testing.T) {
	t.Setenv("MANHAJ_SESSION_SECRET", "")
	_, err := Load()
	require.Error(t, err, "Load should fail without MANHAJ_SESSION_SECRET")
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("MANHAJ_SESSION_SECRET", "too-short")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MANHAJ_SESSION_SECRET", strings.Repeat("s", 32))
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/manhaj.db", cfg.DBPath)
	assert.Equal(t, "localhost:8080", cfg.ServerAddr())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.UseRedisCache())
	assert.False(t, cfg.SummaryEnabled())
	assert.Equal(t, 90, cfg.EventRetentionDays)
}

func TestSummaryEnabled(t *testing.T) {
	t.Setenv("MANHAJ_SESSION_SECRET", strings.Repeat("s", 32))
	t.Setenv("MANHAJ_OPENAI_API_KEY", "sk-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.SummaryEnabled())
}
