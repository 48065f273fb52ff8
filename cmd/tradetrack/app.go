package main

import (
    "flag"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"

    "go.uber.org/zap"

    "tradetrack/internal/aggregate"
    "tradetrack/internal/config"
    "tradetrack/internal/httpx"
    "tradetrack/internal/logging"
    "tradetrack/internal/provider"
    "tradetrack/internal/provider/eodhd"
    "tradetrack/internal/provider/retry"
    "tradetrack/internal/provider/yahoo"
)

// app carries what every command needs: the standard streams, the global
// flags and the factory for the price lookup.
type app struct {
    in     io.Reader
    out    io.Writer
    errOut io.Writer

    configPath   string
    providerName string
    verbose      bool

    now       func() time.Time
    newLogger func(verbose bool) (*zap.Logger, error)
    newPricer func(cfg config.Config, log *zap.Logger) (aggregate.PriceFunc, error)
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
    return &app{
        in:        in,
        out:       out,
        errOut:    errOut,
        now:       time.Now,
        newLogger: logging.New,
        newPricer: newPricer,
    }
}

func (a *app) SetFlags(f *flag.FlagSet) {
    f.StringVar(&a.configPath, "config", "", "path to a config file (yaml, json or toml); defaults to ./tradetrack.yaml when present")
    f.StringVar(&a.providerName, "provider", "", "market data provider: yahoo or eodhd (overrides the config file)")
    f.BoolVar(&a.verbose, "v", false, "verbose diagnostics")
}

// setup loads the configuration and builds the logger and price lookup.
func (a *app) setup() (config.Config, *zap.Logger, aggregate.PriceFunc, error) {
    cfg, err := config.Load(a.configPath)
    if err != nil {
        return cfg, nil, nil, fmt.Errorf("config: %w", err)
    }
    if a.providerName != "" {
        cfg.Provider = strings.ToLower(a.providerName)
        if err := cfg.Validate(); err != nil {
            return cfg, nil, nil, fmt.Errorf("config: %w", err)
        }
    }
    log, err := a.newLogger(a.verbose)
    if err != nil {
        return cfg, nil, nil, fmt.Errorf("logger: %w", err)
    }
    price, err := a.newPricer(cfg, log)
    if err != nil {
        return cfg, nil, nil, err
    }
    return cfg, log, price, nil
}

// newPricer wires the configured provider behind the retrying fetcher.
func newPricer(cfg config.Config, log *zap.Logger) (aggregate.PriceFunc, error) {
    hc := httpx.New(cfg.RequestTimeout())

    var p provider.Provider
    switch cfg.Provider {
    case config.ProviderYahoo:
        opts := []yahoo.ClientOption{yahoo.WithHTTPClient(hc), yahoo.WithBaseURL(cfg.Yahoo.Endpoint)}
        if cfg.Yahoo.UserAgent != "" {
            opts = append(opts, yahoo.WithHeader(http.Header{"User-Agent": {cfg.Yahoo.UserAgent}}))
        }
        p = &yahoo.Provider{Client: yahoo.NewClient(opts...), Logger: log}
    case config.ProviderEODHD:
        if cfg.EODHD.APIKey == "" {
            return nil, fmt.Errorf("eodhd: no API key; set EODHD_API_KEY or eodhd.api_key")
        }
        ep := eodhd.New(eodhd.Config{
            URL:      cfg.EODHD.Endpoint,
            APIKey:   cfg.EODHD.APIKey,
            Exchange: cfg.EODHD.Exchange,
            Currency: cfg.Currency,
        }, hc)
        ep.Logger = log
        p = ep
    default:
        return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
    }
    log.Debug("provider ready", zap.String("provider", p.Name()), zap.Int("max_attempts", cfg.Fetch.MaxAttempts), zap.Duration("base_delay", cfg.BaseDelay()))

    f := &retry.Fetcher{
        P:           p,
        MaxAttempts: cfg.Fetch.MaxAttempts,
        BaseDelay:   cfg.BaseDelay(),
        Logger:      log,
    }
    return f.Fetch, nil
}
