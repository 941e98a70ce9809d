package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "deepseek-chat", cfg.ManagerModel)
	assert.Equal(t, 5*time.Second, cfg.AdapterTimeout)
	assert.Equal(t, 300*time.Second, cfg.ReportCacheTTL)
	require.NoError(t, cfg.Validate())
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("FINSIGHT_PORT", "9090")
	t.Setenv("ADAPTER_TIMEOUT", "2s")
	t.Setenv("ALPHA_VANTAGE_API_KEY", "demo")

	cfg := Load()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.AdapterTimeout)
	assert.Equal(t, "demo", cfg.AlphaVantageAPIKey)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.AdapterTimeout = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.ReportCacheTTL = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestHasLongport(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.HasLongport())

	cfg.LongportAppKey = "k"
	cfg.LongportAppSecret = "s"
	cfg.LongportAccessToken = "t"
	assert.True(t, cfg.HasLongport())
}
