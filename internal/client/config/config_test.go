package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000", c.ServerBaseURL)
	assert.Equal(t, "oceanwatch.db", c.StoreDSN)
	assert.Equal(t, 5*time.Second, c.ProbeInterval)
	assert.Equal(t, 15*time.Second, c.SubmitTimeout)
	assert.Equal(t, 30*time.Second, c.SyncRecordTimeout)
	assert.Equal(t, int64(10<<20), c.MaxImageBytes)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8000", cfg.ServerBaseURL)
	assert.Equal(t, 5*time.Second, cfg.ProbeInterval)
}
