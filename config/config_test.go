package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/bluechip"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, bluechip.DefaultCurrencies, cfg.Currencies())

	policy, err := cfg.FXPolicy()
	require.NoError(t, err)
	assert.Equal(t, bluechip.DefaultFXPolicy.Quoted, policy.Quoted)
	assert.True(t, bluechip.DefaultFXPolicy.Fallback.Equal(policy.Fallback))

	assert.Equal(t, time.Hour, time.Duration(cfg.Cache.FX))
	assert.Equal(t, 24*time.Hour, time.Duration(cfg.Cache.Dividends))
	assert.Zero(t, cfg.Cache.Prices)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel())
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	cfg, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Storage.Dir)
	assert.Equal(t, "yahoo", cfg.Provider.Name)
	assert.True(t, cfg.Provider.FXBackup)
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bluechip.toml")
	content := `
[storage]
dir = "/var/lib/bluechip"

[market]
fx_pair = "USDEUR"
fallback_rate = 0.92

[provider]
name = "eodhd"
eodhd_api_key = "k"
timeout = "3s"

[cache]
prices_ttl = "1m"

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFiles(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/bluechip", cfg.Storage.Dir)
	assert.Equal(t, "eodhd", cfg.Provider.Name)
	assert.Equal(t, 3*time.Second, time.Duration(cfg.Provider.Timeout))
	assert.Equal(t, time.Minute, time.Duration(cfg.Cache.Prices))
	// untouched values keep their defaults.
	assert.Equal(t, time.Hour, time.Duration(cfg.Cache.FX))
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel())

	policy, err := cfg.FXPolicy()
	require.NoError(t, err)
	assert.Equal(t, bluechip.Pair{Base: "USD", Quote: "EUR"}, policy.Quoted)
	assert.Equal(t, "0.92", policy.Fallback.String())
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("BLUECHIP_DATA_DIR", "/data")
	t.Setenv("BLUECHIP_PROVIDER", "eodhd")
	t.Setenv("EODHD_API_KEY", "from-env")
	t.Setenv("BLUECHIP_FALLBACK_RATE", "1.1")
	t.Setenv("BLUECHIP_SERVER_ADDR", ":9000")

	cfg, err := LoadFromFiles()
	require.NoError(t, err)
	assert.Equal(t, "/data", cfg.Storage.Dir)
	assert.Equal(t, "eodhd", cfg.Provider.Name)
	assert.Equal(t, "from-env", cfg.Provider.EODHDAPIKey)
	assert.Equal(t, 1.1, cfg.Market.FallbackRate)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestLoadFromFiles_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown provider", "[provider]\nname = \"bloomberg\"\n"},
		{"eodhd without key", "[provider]\nname = \"eodhd\"\n"},
		{"unrelated pair", "[market]\nfx_pair = \"GBPUSD\"\n"},
		{"bad duration", "[cache]\nfx_ttl = \"one hour\"\n"},
		{"bad level", "[logging]\nlevel = \"loud\"\n"},
		{"not toml", "provider = [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bluechip.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := LoadFromFiles(path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_WriteRoundTrip(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, NewDefaultConfig().Write(&b))

	path := filepath.Join(t.TempDir(), "bluechip.toml")
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o644))
	cfg, err := LoadFromFiles(path)
	require.NoError(t, err)
	assert.Equal(t, NewDefaultConfig(), cfg)
}
