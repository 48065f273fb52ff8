package config

import (
    "errors"
    "fmt"
    "os"
    "strings"
    "time"

    "github.com/spf13/viper"
)

const (
    EnvPrefix = "TRADETRACK"

    ProviderYahoo = "yahoo"
    ProviderEODHD = "eodhd"
)

type Fetch struct {
    MaxAttempts     int `mapstructure:"max_attempts"`
    BaseDelayMillis int `mapstructure:"base_delay_ms"`
}

type Yahoo struct {
    Endpoint  string `mapstructure:"endpoint"`
    // UserAgent replaces the default User-Agent on chart requests when set.
    UserAgent string `mapstructure:"user_agent"`
}

type EODHD struct {
    Endpoint string `mapstructure:"endpoint"`
    APIKey   string `mapstructure:"api_key"`
    Exchange string `mapstructure:"exchange"`
}

type Config struct {
    Provider          string `mapstructure:"provider"`
    Currency          string `mapstructure:"currency"`
    RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
    Fetch             Fetch  `mapstructure:"fetch"`
    Yahoo             Yahoo  `mapstructure:"yahoo"`
    EODHD             EODHD  `mapstructure:"eodhd"`
}

func Default() Config {
    return Config{
        Provider:          ProviderYahoo,
        Currency:          "USD",
        RequestTimeoutSec: 10,
        Fetch:             Fetch{MaxAttempts: 3, BaseDelayMillis: 1000},
        Yahoo:             Yahoo{Endpoint: "https://query1.finance.yahoo.com"},
        EODHD:             EODHD{Endpoint: "https://eodhd.com/api/real-time", Exchange: "US"},
    }
}

func (c Config) BaseDelay() time.Duration {
    return time.Duration(c.Fetch.BaseDelayMillis) * time.Millisecond
}

func (c Config) RequestTimeout() time.Duration {
    return time.Duration(c.RequestTimeoutSec) * time.Second
}

// Load reads an optional config file and applies TRADETRACK_* environment
// overrides on top of the defaults. If path is empty, tradetrack.{yaml,json,toml}
// in the working directory is used when present; an explicit path must exist.
func Load(path string) (Config, error) {
    cfg := Default()
    v := viper.New()
    setDefaults(v, cfg)

    v.SetEnvPrefix(EnvPrefix)
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
    v.AutomaticEnv()
    // EODHD_API_KEY is the variable EODHD's own tooling documents.
    if err := v.BindEnv("eodhd.api_key", EnvPrefix+"_EODHD_API_KEY", "EODHD_API_KEY"); err != nil {
        return cfg, fmt.Errorf("bind env: %w", err)
    }

    if path != "" {
        if _, err := os.Stat(path); err != nil {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        v.SetConfigFile(path)
        if err := v.ReadInConfig(); err != nil {
            return cfg, fmt.Errorf("read config: %w", err)
        }
    } else {
        v.SetConfigName("tradetrack")
        v.AddConfigPath(".")
        if err := v.ReadInConfig(); err != nil {
            var notFound viper.ConfigFileNotFoundError
            if !errors.As(err, &notFound) {
                return cfg, fmt.Errorf("read config: %w", err)
            }
        }
    }

    if err := v.Unmarshal(&cfg); err != nil {
        return cfg, fmt.Errorf("parse config: %w", err)
    }
    cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
    cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
    return cfg, cfg.Validate()
}

func (c Config) Validate() error {
    switch c.Provider {
    case ProviderYahoo, ProviderEODHD:
    default:
        return fmt.Errorf("unknown provider %q (want %s or %s)", c.Provider, ProviderYahoo, ProviderEODHD)
    }
    if c.Fetch.MaxAttempts < 1 {
        return fmt.Errorf("fetch.max_attempts must be at least 1, got %d", c.Fetch.MaxAttempts)
    }
    if c.Fetch.BaseDelayMillis <= 0 {
        return fmt.Errorf("fetch.base_delay_ms must be positive, got %d", c.Fetch.BaseDelayMillis)
    }
    if c.RequestTimeoutSec <= 0 {
        return fmt.Errorf("request_timeout_sec must be positive, got %d", c.RequestTimeoutSec)
    }
    return nil
}

func setDefaults(v *viper.Viper, cfg Config) {
    v.SetDefault("provider", cfg.Provider)
    v.SetDefault("currency", cfg.Currency)
    v.SetDefault("request_timeout_sec", cfg.RequestTimeoutSec)
    v.SetDefault("fetch.max_attempts", cfg.Fetch.MaxAttempts)
    v.SetDefault("fetch.base_delay_ms", cfg.Fetch.BaseDelayMillis)
    v.SetDefault("yahoo.endpoint", cfg.Yahoo.Endpoint)
    v.SetDefault("yahoo.user_agent", cfg.Yahoo.UserAgent)
    v.SetDefault("eodhd.endpoint", cfg.EODHD.Endpoint)
    v.SetDefault("eodhd.api_key", cfg.EODHD.APIKey)
    v.SetDefault("eodhd.exchange", cfg.EODHD.Exchange)
}
