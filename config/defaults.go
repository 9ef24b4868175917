package config

import "time"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir: ".",
		},
		Market: MarketConfig{
			Domestic:         "EUR",
			Foreign:          "USD",
			DomesticSuffixes: []string{".PA"},
			FXPair:           "EURUSD",
			FallbackRate:     1.08,
		},
		Provider: ProviderConfig{
			Name:     "yahoo",
			Timeout:  Duration(10 * time.Second),
			FXBackup: true,
		},
		Cache: CacheConfig{
			Prices:    0,
			FX:        Duration(time.Hour),
			Dividends: Duration(24 * time.Hour),
		},
		Server: ServerConfig{
			Addr: "localhost:8080",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Assist: AssistConfig{
			Model: "gemini-2.5-flash",
		},
	}
}
