package config

import (
	"testing"
	"time"

	"albion-tracker/internal/constants"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"MURDER_LEDGER_URL", "GAMEINFO_URL", "DB_PATH", "SERVER_PORT", "LOG_LEVEL", "ALLOWED_ORIGINS", "BATTLE_CACHE_TTL", "SUBSCRIBER_TTL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "albion.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, constants.BattleCacheTTL, cfg.BattleCacheTTL)
	assert.Equal(t, constants.SubscriberTTL, cfg.SubscriberTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MURDER_LEDGER_URL", "http://ledger.local/")
	t.Setenv("DB_PATH", "/tmp/stats.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("BATTLE_CACHE_TTL", "90s")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "http://ledger.local", cfg.MurderLedgerURL)
	assert.Equal(t, "/tmp/stats.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 90*time.Second, cfg.BattleCacheTTL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("duration", func(t *testing.T) {
		t.Setenv("BATTLE_CACHE_TTL", "soon")
		_, err := Load(zerolog.Nop())
		assert.Error(t, err)
	})
	t.Run("log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "chatty")
		_, err := Load(zerolog.Nop())
		assert.Error(t, err)
	})
}
