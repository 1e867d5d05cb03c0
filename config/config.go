// Package config loads watcher settings from a YAML file, a .env file and
// OBW_ prefixed environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vadiminshakov/obwatch/internal/domain"
	"github.com/vadiminshakov/obwatch/pkg/indicators"
)

const EnvPrefix = "OBW_"

const (
	PlatformBinance = "binance"
	PlatformBybit   = "bybit"

	HistoryCoinGecko   = "coingecko"
	HistoryBinance     = "binance"
	HistoryBybit       = "bybit"
	HistoryHyperliquid = "hyperliquid"
)

// Defaults.
const (
	DefaultPlatform               = PlatformBinance
	DefaultPair                   = "ETH_USDT"
	DefaultHistorySource          = HistoryCoinGecko
	DefaultAssetID                = "ethereum"
	DefaultCurrency               = "usd"
	DefaultHistoricalDays         = 18
	DefaultRollingWindow          = 15
	DefaultVolumeMultiplier       = 1.5
	DefaultNumBins                = 100
	DefaultSmoothingSigma         = 2.0
	DefaultActionThresholdPct     = 10.0
	DefaultPollInterval           = 5 * time.Second
	DefaultHistoryRefreshInterval = time.Hour
	DefaultTickTimeout            = 20 * time.Second
	DefaultOrderBookDepth         = 100
	DefaultHistoryCacheTTL        = time.Hour
	DefaultLogLevel               = "info"
)

type Config struct {
	Platform      string
	Pair          domain.Pair
	HistorySource string
	AssetID       string
	Currency      string

	HistoricalDays     int
	RollingWindow      int
	VolumeMultiplier   float64
	NumBins            int
	SmoothingSigma     float64
	SmoothingMode      indicators.Boundary
	ActionThresholdPct float64

	PollInterval           time.Duration
	HistoryRefreshInterval time.Duration
	TickTimeout            time.Duration
	OrderBookDepth         int

	// HistoryCacheDir enables the on-disk history cache when set.
	HistoryCacheDir string
	HistoryCacheTTL time.Duration

	WebAddr string
	// WebTLSDomains switches the web server to HTTPS with ACME certificates.
	WebTLSDomains  []string
	WebTLSCacheDir string
	LogLevel       string
}

// configTmp raw string form shared by the YAML file and the environment.
type configTmp struct {
	Platform               string `yaml:"platform,omitempty" env:"PLATFORM"`
	Pair                   string `yaml:"pair,omitempty" env:"PAIR"`
	HistorySource          string `yaml:"history_source,omitempty" env:"HISTORY_SOURCE"`
	AssetID                string `yaml:"asset_id,omitempty" env:"ASSET_ID"`
	Currency               string `yaml:"currency,omitempty" env:"CURRENCY"`
	HistoricalDays         string `yaml:"historical_days,omitempty" env:"HISTORICAL_DAYS"`
	RollingWindow          string `yaml:"rolling_window,omitempty" env:"ROLLING_WINDOW"`
	VolumeMultiplier       string `yaml:"volume_multiplier,omitempty" env:"VOLUME_MULTIPLIER"`
	NumBins                string `yaml:"num_bins,omitempty" env:"NUM_BINS"`
	SmoothingSigma         string `yaml:"smoothing_sigma,omitempty" env:"SMOOTHING_SIGMA"`
	SmoothingMode          string `yaml:"smoothing_mode,omitempty" env:"SMOOTHING_MODE"`
	ActionThresholdPct     string `yaml:"action_threshold_pct,omitempty" env:"ACTION_THRESHOLD_PCT"`
	PollInterval           string `yaml:"poll_interval,omitempty" env:"POLL_INTERVAL"`
	HistoryRefreshInterval string `yaml:"history_refresh_interval,omitempty" env:"HISTORY_REFRESH_INTERVAL"`
	TickTimeout            string `yaml:"tick_timeout,omitempty" env:"TICK_TIMEOUT"`
	OrderBookDepth         string `yaml:"order_book_depth,omitempty" env:"ORDER_BOOK_DEPTH"`
	HistoryCacheDir        string `yaml:"history_cache_dir,omitempty" env:"HISTORY_CACHE_DIR"`
	HistoryCacheTTL        string `yaml:"history_cache_ttl,omitempty" env:"HISTORY_CACHE_TTL"`
	WebAddr                string `yaml:"web_addr,omitempty" env:"WEB_ADDR"`
	WebTLSDomains          string `yaml:"web_tls_domains,omitempty" env:"WEB_TLS_DOMAINS"`
	WebTLSCacheDir         string `yaml:"web_tls_cache_dir,omitempty" env:"WEB_TLS_CACHE_DIR"`
	LogLevel               string `yaml:"log_level,omitempty" env:"LOG_LEVEL"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	pair, _ := domain.ParsePair(DefaultPair)
	return Config{
		Platform:               DefaultPlatform,
		Pair:                   pair,
		HistorySource:          DefaultHistorySource,
		AssetID:                DefaultAssetID,
		Currency:               DefaultCurrency,
		HistoricalDays:         DefaultHistoricalDays,
		RollingWindow:          DefaultRollingWindow,
		VolumeMultiplier:       DefaultVolumeMultiplier,
		NumBins:                DefaultNumBins,
		SmoothingSigma:         DefaultSmoothingSigma,
		SmoothingMode:          indicators.BoundaryNearest,
		ActionThresholdPct:     DefaultActionThresholdPct,
		PollInterval:           DefaultPollInterval,
		HistoryRefreshInterval: DefaultHistoryRefreshInterval,
		TickTimeout:            DefaultTickTimeout,
		OrderBookDepth:         DefaultOrderBookDepth,
		HistoryCacheTTL:        DefaultHistoryCacheTTL,
		LogLevel:               DefaultLogLevel,
	}
}

// Load reads path (optional), then .env, then OBW_* variables, and
// validates the result.
func Load(path string) (Config, error) {
	var tmp configTmp

	if path != "" {
		f, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(f, &tmp); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	if err := env.ParseWithOptions(&tmp, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg, err := tmp.parse()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c configTmp) parse() (Config, error) {
	cfg := Default()
	var err error

	setString(&cfg.Platform, c.Platform)
	setString(&cfg.HistorySource, c.HistorySource)
	setString(&cfg.AssetID, c.AssetID)
	setString(&cfg.Currency, c.Currency)
	setString(&cfg.WebAddr, c.WebAddr)
	setString(&cfg.HistoryCacheDir, c.HistoryCacheDir)
	setString(&cfg.WebTLSCacheDir, c.WebTLSCacheDir)
	for _, d := range strings.Split(c.WebTLSDomains, ",") {
		if d = strings.TrimSpace(d); d != "" {
			cfg.WebTLSDomains = append(cfg.WebTLSDomains, d)
		}
	}
	setString(&cfg.LogLevel, c.LogLevel)
	cfg.Platform = strings.ToLower(cfg.Platform)
	cfg.HistorySource = strings.ToLower(cfg.HistorySource)

	if c.Pair != "" {
		if cfg.Pair, err = domain.ParsePair(c.Pair); err != nil {
			return Config{}, fmt.Errorf("incorrect 'pair' param: %w", err)
		}
	}
	if c.SmoothingMode != "" {
		if cfg.SmoothingMode, err = indicators.ParseBoundary(c.SmoothingMode); err != nil {
			return Config{}, fmt.Errorf("incorrect 'smoothing_mode' param: %w", err)
		}
	}

	ints := []struct {
		name string
		raw  string
		dst  *int
	}{
		{"historical_days", c.HistoricalDays, &cfg.HistoricalDays},
		{"rolling_window", c.RollingWindow, &cfg.RollingWindow},
		{"num_bins", c.NumBins, &cfg.NumBins},
		{"order_book_depth", c.OrderBookDepth, &cfg.OrderBookDepth},
	}
	for _, f := range ints {
		if f.raw == "" {
			continue
		}
		if *f.dst, err = strconv.Atoi(strings.TrimSpace(f.raw)); err != nil {
			return Config{}, fmt.Errorf("incorrect '%s' param (must be an integer): %w", f.name, err)
		}
	}

	floats := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"volume_multiplier", c.VolumeMultiplier, &cfg.VolumeMultiplier},
		{"smoothing_sigma", c.SmoothingSigma, &cfg.SmoothingSigma},
		{"action_threshold_pct", c.ActionThresholdPct, &cfg.ActionThresholdPct},
	}
	for _, f := range floats {
		if f.raw == "" {
			continue
		}
		if *f.dst, err = strconv.ParseFloat(strings.TrimSpace(f.raw), 64); err != nil {
			return Config{}, fmt.Errorf("incorrect '%s' param (must be a number): %w", f.name, err)
		}
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"poll_interval", c.PollInterval, &cfg.PollInterval},
		{"history_refresh_interval", c.HistoryRefreshInterval, &cfg.HistoryRefreshInterval},
		{"tick_timeout", c.TickTimeout, &cfg.TickTimeout},
		{"history_cache_ttl", c.HistoryCacheTTL, &cfg.HistoryCacheTTL},
	}
	for _, f := range durations {
		if f.raw == "" {
			continue
		}
		if *f.dst, err = time.ParseDuration(strings.TrimSpace(f.raw)); err != nil {
			return Config{}, fmt.Errorf("incorrect '%s' param (e.g. 5s, 1h): %w", f.name, err)
		}
	}

	return cfg, nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// Validate checks cross-field invariants.
func (c Config) Validate() error {
	switch c.Platform {
	case PlatformBinance, PlatformBybit:
	default:
		return fmt.Errorf("unsupported platform %q", c.Platform)
	}
	switch c.HistorySource {
	case HistoryCoinGecko:
		if c.AssetID == "" || c.Currency == "" {
			return fmt.Errorf("history source %s needs asset_id and currency", c.HistorySource)
		}
	case HistoryBinance, HistoryBybit, HistoryHyperliquid:
	default:
		return fmt.Errorf("unsupported history source %q", c.HistorySource)
	}
	if c.Pair.IsZero() {
		return fmt.Errorf("pair is required")
	}

	switch {
	case c.RollingWindow <= 0:
		return fmt.Errorf("rolling_window must be positive, got %d", c.RollingWindow)
	case c.HistoricalDays < c.RollingWindow:
		return fmt.Errorf("historical_days (%d) must be at least rolling_window (%d)", c.HistoricalDays, c.RollingWindow)
	case c.VolumeMultiplier <= 0:
		return fmt.Errorf("volume_multiplier must be positive, got %v", c.VolumeMultiplier)
	case c.NumBins <= 0:
		return fmt.Errorf("num_bins must be positive, got %d", c.NumBins)
	case c.SmoothingSigma < 0:
		return fmt.Errorf("smoothing_sigma must be non-negative, got %v", c.SmoothingSigma)
	case c.ActionThresholdPct < 0:
		return fmt.Errorf("action_threshold_pct must be non-negative, got %v", c.ActionThresholdPct)
	case c.PollInterval <= 0:
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	case c.HistoryRefreshInterval <= 0:
		return fmt.Errorf("history_refresh_interval must be positive, got %s", c.HistoryRefreshInterval)
	case c.TickTimeout <= 0:
		return fmt.Errorf("tick_timeout must be positive, got %s", c.TickTimeout)
	case c.OrderBookDepth <= 0:
		return fmt.Errorf("order_book_depth must be positive, got %d", c.OrderBookDepth)
	case len(c.WebTLSDomains) > 0 && c.WebAddr == "":
		return fmt.Errorf("web_tls_domains needs web_addr")
	case c.HistoryCacheDir != "" && c.HistoryCacheTTL <= 0:
		return fmt.Errorf("history_cache_ttl must be positive, got %s", c.HistoryCacheTTL)
	}
	return nil
}

// HistoryRequest returns the request history feeds are asked for.
func (c Config) HistoryRequest() domain.HistoryRequest {
	return domain.HistoryRequest{
		AssetID:  c.AssetID,
		Currency: c.Currency,
		Pair:     c.Pair,
		Days:     c.HistoricalDays,
	}
}

// Marshal encodes c as a YAML config file Load accepts.
func (c Config) Marshal() ([]byte, error) {
	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	return yaml.Marshal(configTmp{
		Platform:               c.Platform,
		Pair:                   c.Pair.String(),
		HistorySource:          c.HistorySource,
		AssetID:                c.AssetID,
		Currency:               c.Currency,
		HistoricalDays:         strconv.Itoa(c.HistoricalDays),
		RollingWindow:          strconv.Itoa(c.RollingWindow),
		VolumeMultiplier:       ftoa(c.VolumeMultiplier),
		NumBins:                strconv.Itoa(c.NumBins),
		SmoothingSigma:         ftoa(c.SmoothingSigma),
		SmoothingMode:          c.SmoothingMode.String(),
		ActionThresholdPct:     ftoa(c.ActionThresholdPct),
		PollInterval:           c.PollInterval.String(),
		HistoryRefreshInterval: c.HistoryRefreshInterval.String(),
		TickTimeout:            c.TickTimeout.String(),
		OrderBookDepth:         strconv.Itoa(c.OrderBookDepth),
		HistoryCacheDir:        c.HistoryCacheDir,
		HistoryCacheTTL:        c.HistoryCacheTTL.String(),
		WebAddr:                c.WebAddr,
		WebTLSDomains:          strings.Join(c.WebTLSDomains, ","),
		WebTLSCacheDir:         c.WebTLSCacheDir,
		LogLevel:               c.LogLevel,
	})
}
