// Package config loads the coinprice command configuration.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds the coinprice configuration, loaded from environment
// variables over built-in defaults.
type Config struct {
	CoinID     string `mapstructure:"coin_id"`
	Currency   string `mapstructure:"vs_currency"`
	APIBaseURL string `mapstructure:"api_base_url"`
	LogLevel   string `mapstructure:"log_level"`

	CachePath       string        `mapstructure:"cache_path"`
	CacheTTLSeconds int64         `mapstructure:"cache_ttl_seconds"`
	CacheTTL        time.Duration `mapstructure:"-"`
}

// Load reads configuration from the environment (and an optional .env
// file) with defaults suitable for a one-shot price lookup.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetDefault("coin_id", "ethereum")
	v.SetDefault("vs_currency", "usd")
	v.SetDefault("api_base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("log_level", "info")
	v.SetDefault("cache_path", "./data/prices.db")
	v.SetDefault("cache_ttl_seconds", int64((15*time.Minute)/time.Second))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if cfg.CoinID == "" || cfg.Currency == "" {
		return nil, errors.New("coin_id and vs_currency must be non-empty")
	}
	if cfg.CacheTTLSeconds <= 0 {
		return nil, errors.New("invalid cache_ttl_seconds (must be positive seconds)")
	}
	cfg.CacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	return &cfg, nil
}
