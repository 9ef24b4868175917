// Package config loads the bluechip configuration.
//
// Values are layered: defaults, then the TOML files, then the environment
// (a .env file in the working directory is loaded first).
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/bluechip"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "bluechip.toml"

// Config represents the application configuration.
type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	Market   MarketConfig   `toml:"market"`
	Provider ProviderConfig `toml:"provider"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
	Logging  LoggingConfig  `toml:"logging"`
	Assist   AssistConfig   `toml:"assist"`
}

// StorageConfig tells where the portfolio files are.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// MarketConfig is the currency model and the exchange rate policy.
type MarketConfig struct {
	Domestic         string   `toml:"domestic"`
	Foreign          string   `toml:"foreign"`
	DomesticSuffixes []string `toml:"domestic_suffixes"`
	// FXPair is the pair asked to the provider, as it quotes it.
	FXPair string `toml:"fx_pair"`
	// FallbackRate is used, for FXPair, when the provider fails. 0 disables it.
	FallbackRate float64 `toml:"fallback_rate"`
}

// ProviderConfig selects the quote gateway.
type ProviderConfig struct {
	Name        string   `toml:"name"` // "yahoo" or "eodhd"
	EODHDAPIKey string   `toml:"eodhd_api_key"`
	Timeout     Duration `toml:"timeout"`
	CacheDir    string   `toml:"cache_dir"`
	// FXBackup asks Lang & Schwarz for EUR/USD when the provider fails.
	FXBackup bool `toml:"fx_backup"`
}

// CacheConfig is the time to live of market data.
type CacheConfig struct {
	Prices    Duration `toml:"prices_ttl"`
	FX        Duration `toml:"fx_ttl"`
	Dividends Duration `toml:"dividends_ttl"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// AssistConfig contains the assistant settings.
type AssistConfig struct {
	Model string `toml:"model"`
}

// Duration is a time.Duration written "1h30m" in TOML files.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Load reads .env, then path (DefaultPath if empty, and only if it exists).
func Load(path string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	if path == "" {
		if _, err := os.Stat(DefaultPath); errors.Is(err, fs.ErrNotExist) {
			return LoadFromFiles()
		}
		path = DefaultPath
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies BLUECHIP_* environment variable overrides to config.
func applyEnvOverrides(config *Config) error {
	if dir := os.Getenv("BLUECHIP_DATA_DIR"); dir != "" {
		config.Storage.Dir = dir
	}
	if name := os.Getenv("BLUECHIP_PROVIDER"); name != "" {
		config.Provider.Name = name
	}
	if key := os.Getenv("EODHD_API_KEY"); key != "" {
		config.Provider.EODHDAPIKey = key
	}
	if level := os.Getenv("BLUECHIP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if addr := os.Getenv("BLUECHIP_SERVER_ADDR"); addr != "" {
		config.Server.Addr = addr
	}
	if rate := os.Getenv("BLUECHIP_FALLBACK_RATE"); rate != "" {
		r, err := strconv.ParseFloat(rate, 64)
		if err != nil {
			return fmt.Errorf("invalid BLUECHIP_FALLBACK_RATE %q: %w", rate, err)
		}
		config.Market.FallbackRate = r
	}
	if model := os.Getenv("BLUECHIP_ASSIST_MODEL"); model != "" {
		config.Assist.Model = model
	}
	return nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case "yahoo":
	case "eodhd":
		if c.Provider.EODHDAPIKey == "" {
			return errors.New("provider eodhd requires an api key: set EODHD_API_KEY")
		}
	default:
		return fmt.Errorf("unknown provider %q (want yahoo or eodhd)", c.Provider.Name)
	}
	if _, err := c.FXPolicy(); err != nil {
		return err
	}
	if c.Market.FallbackRate < 0 {
		return fmt.Errorf("negative fallback rate %v", c.Market.FallbackRate)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Logging.Level, err)
	}
	return nil
}

// Currencies returns the currency model.
func (c *Config) Currencies() bluechip.CurrencyModel {
	suffixes := make([]string, 0, len(c.Market.DomesticSuffixes))
	for _, s := range c.Market.DomesticSuffixes {
		suffixes = append(suffixes, strings.ToUpper(s))
	}
	return bluechip.CurrencyModel{
		Domestic:         strings.ToUpper(c.Market.Domestic),
		Foreign:          strings.ToUpper(c.Market.Foreign),
		DomesticSuffixes: suffixes,
	}
}

// FXPolicy returns the exchange rate policy. The pair must convert between
// the domestic and the foreign currency, in either direction.
func (c *Config) FXPolicy() (bluechip.FXPolicy, error) {
	pair, err := bluechip.ParsePair(c.Market.FXPair)
	if err != nil {
		return bluechip.FXPolicy{}, err
	}
	if _, err := bluechip.DomesticPerForeign(c.Currencies(), pair, decimal.NewFromInt(1)); err != nil {
		return bluechip.FXPolicy{}, err
	}
	return bluechip.FXPolicy{Quoted: pair, Fallback: decimal.NewFromFloat(c.Market.FallbackRate)}, nil
}

// LogLevel returns the parsed logging level, info if invalid.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Logging.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// Write encodes the configuration as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
