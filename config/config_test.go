package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/obwatch/internal/domain"
	"github.com/vadiminshakov/obwatch/pkg/indicators"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, domain.Pair{From: "ETH", To: "USDT"}, cfg.Pair)
	assert.Equal(t, 18, cfg.HistoricalDays)
	assert.Equal(t, 15, cfg.RollingWindow)
	assert.Equal(t, 1.5, cfg.VolumeMultiplier)
	assert.Equal(t, 100, cfg.NumBins)
	assert.Equal(t, 2.0, cfg.SmoothingSigma)
	assert.Equal(t, 10.0, cfg.ActionThresholdPct)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
platform: bybit
pair: btc_usdt
history_source: hyperliquid
historical_days: 30
rolling_window: 20
volume_multiplier: 2
num_bins: 50
smoothing_sigma: 1.5
smoothing_mode: reflect
action_threshold_pct: 5
poll_interval: 10s
history_refresh_interval: 30m
tick_timeout: 8s
order_book_depth: 200
web_addr: ":8080"
log_level: debug
history_cache_dir: /var/lib/obwatch
history_cache_ttl: 2h
web_tls_domains: "signals.example.com, www.signals.example.com"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, PlatformBybit, cfg.Platform)
	assert.Equal(t, domain.Pair{From: "BTC", To: "USDT"}, cfg.Pair)
	assert.Equal(t, HistoryHyperliquid, cfg.HistorySource)
	assert.Equal(t, 30, cfg.HistoricalDays)
	assert.Equal(t, 20, cfg.RollingWindow)
	assert.Equal(t, 2.0, cfg.VolumeMultiplier)
	assert.Equal(t, 50, cfg.NumBins)
	assert.Equal(t, 1.5, cfg.SmoothingSigma)
	assert.Equal(t, indicators.BoundaryReflect, cfg.SmoothingMode)
	assert.Equal(t, 5.0, cfg.ActionThresholdPct)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 30*time.Minute, cfg.HistoryRefreshInterval)
	assert.Equal(t, 8*time.Second, cfg.TickTimeout)
	assert.Equal(t, 200, cfg.OrderBookDepth)
	assert.Equal(t, ":8080", cfg.WebAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/lib/obwatch", cfg.HistoryCacheDir)
	assert.Equal(t, 2*time.Hour, cfg.HistoryCacheTTL)
	assert.Equal(t, []string{"signals.example.com", "www.signals.example.com"}, cfg.WebTLSDomains)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "pair: BTC_USDT\nnum_bins: 50\n")
	t.Setenv("OBW_NUM_BINS", "75")
	t.Setenv("OBW_POLL_INTERVAL", "1m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "BTC_USDT", cfg.Pair.String())
	assert.Equal(t, 75, cfg.NumBins)
	assert.Equal(t, time.Minute, cfg.PollInterval)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad pair", "pair: ETHUSDT\n"},
		{"bad int", "num_bins: many\n"},
		{"bad float", "volume_multiplier: x\n"},
		{"bad duration", "poll_interval: soon\n"},
		{"bad mode", "smoothing_mode: wrap\n"},
		{"window above days", "historical_days: 10\nrolling_window: 15\n"},
		{"bad platform", "platform: kraken\n"},
		{"broken yaml", "pair: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero window", func(c *Config) { c.RollingWindow = 0 }},
		{"zero bins", func(c *Config) { c.NumBins = 0 }},
		{"zero multiplier", func(c *Config) { c.VolumeMultiplier = 0 }},
		{"negative sigma", func(c *Config) { c.SmoothingSigma = -1 }},
		{"negative threshold", func(c *Config) { c.ActionThresholdPct = -1 }},
		{"zero poll", func(c *Config) { c.PollInterval = 0 }},
		{"zero refresh", func(c *Config) { c.HistoryRefreshInterval = 0 }},
		{"zero timeout", func(c *Config) { c.TickTimeout = 0 }},
		{"zero depth", func(c *Config) { c.OrderBookDepth = 0 }},
		{"missing asset", func(c *Config) { c.AssetID = "" }},
		{"unknown source", func(c *Config) { c.HistorySource = "yahoo" }},
		{"missing pair", func(c *Config) { c.Pair = domain.Pair{} }},
		{"tls without addr", func(c *Config) { c.WebTLSDomains = []string{"a.example.com"} }},
		{"cache without ttl", func(c *Config) { c.HistoryCacheDir = "wal"; c.HistoryCacheTTL = 0 }},
	}

	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	cfg.SmoothingSigma = 0
	cfg.ActionThresholdPct = 0
	assert.NoError(t, cfg.Validate())
}

func TestMarshal_LoadsBack(t *testing.T) {
	cfg := Default()
	cfg.Platform = PlatformBybit
	cfg.SmoothingMode = indicators.BoundaryReflect
	cfg.VolumeMultiplier = 1.75
	cfg.WebAddr = "127.0.0.1:9000"

	raw, err := cfg.Marshal()
	require.NoError(t, err)

	loaded, err := Load(writeConfig(t, string(raw)))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestHistoryRequest(t *testing.T) {
	req := Default().HistoryRequest()
	assert.Equal(t, "ethereum", req.AssetID)
	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, 18, req.Days)
	assert.Equal(t, "ETHUSDT", req.Pair.Symbol())
}
