package app_config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.Nil(t, err)

	assert.Equal(t, 30*time.Minute, cfg.FetchInterval)
	assert.Equal(t, 50, cfg.FetchBatchSize)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.NotEmpty(t, cfg.TelegramChannels)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "db.internal",
		DBPort: "5433",
		DBUser: "svc",
		DBPass: "secret",
	}

	assert.Equal(t,
		"host=db.internal user=svc password=secret dbname=newsfeed port=5433 sslmode=disable",
		cfg.DSN("newsfeed"))
}
