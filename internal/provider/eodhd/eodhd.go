package eodhd

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strconv"
    "strings"
    "time"

    "github.com/shopspring/decimal"
    "go.uber.org/zap"

    "tradetrack/internal/provider"
)

const DefaultEndpoint = "https://eodhd.com/api/real-time"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=eodhd_test -destination=mock_http_client_test.go -source=eodhd.go HTTPClient
type HTTPClient interface {
    Do(req *http.Request) (*http.Response, error)
}

type Config struct {
    Name     string
    URL      string
    APIKey   string
    // Exchange is appended to bare tickers, e.g. AAPL -> AAPL.US.
    Exchange string
    Currency string
}

// Provider fetches live (delayed) prices from the EOD Historical Data real-time API.
type Provider struct {
    cfg    Config
    client HTTPClient
    Logger *zap.Logger
}

func New(cfg Config, hc HTTPClient) *Provider {
    if cfg.Name == "" { cfg.Name = "EODHD" }
    if cfg.URL == "" { cfg.URL = DefaultEndpoint }
    if cfg.Exchange == "" { cfg.Exchange = "US" }
    if cfg.Currency == "" { cfg.Currency = "USD" }
    if hc == nil { hc = http.DefaultClient }
    return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Fetch(ctx context.Context, symbols []string) ([]provider.Quote, error) {
    if p.cfg.APIKey == "" {
        return nil, fmt.Errorf("eodhd: %w: missing api key", provider.ErrUnauthorized)
    }
    log := p.Logger
    if log == nil { log = zap.NewNop() }

    out := make([]provider.Quote, 0, len(symbols))
    var firstErr error
    for _, sym := range symbols {
        q, ok, err := p.fetchOne(ctx, sym)
        if err != nil {
            log.Debug("real-time request failed", zap.String("symbol", sym), zap.Error(err))
            if firstErr == nil { firstErr = err }
            continue
        }
        if ok { out = append(out, q) }
    }
    if len(out) == 0 && firstErr != nil {
        return nil, firstErr
    }
    return out, nil
}

// code maps a bare ticker to the exchange-qualified code EODHD expects.
func (p *Provider) code(symbol string) string {
    if strings.Contains(symbol, ".") { return symbol }
    return symbol + "." + p.cfg.Exchange
}

func (p *Provider) fetchOne(ctx context.Context, symbol string) (provider.Quote, bool, error) {
    query := url.Values{}
    query.Set("api_token", p.cfg.APIKey)
    query.Set("fmt", "json")
    addr := fmt.Sprintf("%s/%s?%s", strings.TrimRight(p.cfg.URL, "/"), url.PathEscape(p.code(symbol)), query.Encode())

    req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, http.NoBody)
    if err != nil { return provider.Quote{}, false, fmt.Errorf("creating request: %w", err) }
    req.Header.Set("Accept", "application/json")

    resp, err := p.client.Do(req)
    if err != nil { return provider.Quote{}, false, fmt.Errorf("performing request: %w", err) }
    defer resp.Body.Close()

    switch {
    case resp.StatusCode == http.StatusNotFound:
        // "Ticker Not Found."
        return provider.Quote{}, false, nil
    case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
        return provider.Quote{}, false, fmt.Errorf("eodhd %s: %w", symbol, provider.ErrUnauthorized)
    case resp.StatusCode == http.StatusTooManyRequests:
        return provider.Quote{}, false, &provider.StatusError{Code: resp.StatusCode}
    case resp.StatusCode < 200 || resp.StatusCode >= 300:
        b, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
        return provider.Quote{}, false, &provider.StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
    }

    var rt realTime
    if err := json.NewDecoder(resp.Body).Decode(&rt); err != nil {
        return provider.Quote{}, false, fmt.Errorf("decode: %w", err)
    }

    q := provider.Quote{
        Symbol:     symbol,
        Currency:   p.cfg.Currency,
        Source:     p.cfg.Name,
        ReceivedAt: parseEpoch(rt.Timestamp, time.Now().UTC()),
    }
    if d, ok := parseNumber(rt.Close); ok {
        q.Price = decimal.NewNullDecimal(d)
    }
    return q, true, nil
}

// realTime is the subset of the real-time payload we use:
//
//  {"code":"AAPL.US","timestamp":1700000000,"gmtoffset":0,"open":189.9,
//   "high":190.6,"low":188.9,"close":189.71,"volume":43014224,
//   "previousClose":189.69,"change":0.02,"change_p":0.0105}
//
// Unknown values are reported as the string "NA".
type realTime struct {
    Code      string          `json:"code"`
    Timestamp json.RawMessage `json:"timestamp"`
    Close     json.RawMessage `json:"close"`
}

func parseNumber(raw json.RawMessage) (decimal.Decimal, bool) {
    s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
    if s == "" || s == "null" || strings.EqualFold(s, "NA") { return decimal.Decimal{}, false }
    d, err := decimal.NewFromString(s)
    if err != nil { return decimal.Decimal{}, false }
    return d, true
}

func parseEpoch(raw json.RawMessage, fallback time.Time) time.Time {
    s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
    v, err := strconv.ParseInt(s, 10, 64)
    if err != nil || v <= 0 { return fallback }
    return time.Unix(v, 0).UTC()
}
