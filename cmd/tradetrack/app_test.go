package main

import (
    "context"
    "encoding/json"
    "errors"
    "flag"
    "io"
    "net/http"
    "net/http/httptest"
    "path/filepath"
    "strings"
    "testing"
    "time"

    "github.com/google/subcommands"
    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"
    "go.uber.org/zap/zaptest"

    "tradetrack/internal/aggregate"
    "tradetrack/internal/config"
)

// testApp returns an app reading input and pricing tickers from prices.
func testApp(t *testing.T, input string, prices map[string]string) (*app, *strings.Builder, *strings.Builder) {
    t.Helper()
    var out, errOut strings.Builder
    a := newApp(strings.NewReader(input), &out, &errOut)
    a.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
    a.newLogger = func(bool) (*zap.Logger, error) { return zaptest.NewLogger(t), nil }
    a.newPricer = func(config.Config, *zap.Logger) (aggregate.PriceFunc, error) {
        return func(_ context.Context, ticker string) (decimal.Decimal, bool) {
            s, ok := prices[ticker]
            if !ok { return decimal.Decimal{}, false }
            return decimal.RequireFromString(s), true
        }, nil
    }
    return a, &out, &errOut
}

func execute(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
    t.Helper()
    return executeContext(t.Context(), t, cmd, args...)
}

func executeContext(ctx context.Context, t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
    t.Helper()
    f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
    cmd.SetFlags(f)
    require.NoError(t, f.Parse(args))
    return cmd.Execute(ctx, f)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTrack_Example(t *testing.T) {
    a, out, _ := testApp(t, "Ticker: AAPL, Quantity: 10\nTicker: MSFT, Quantity: 5\n\n", map[string]string{"AAPL": "150.00", "MSFT": "300.00"})

    status := execute(t, &trackCmd{app: a})

    require.Equal(t, subcommands.ExitSuccess, status)
    s := out.String()
    require.Contains(t, s, "| AAPL     | $150.00         |         10 | $1500.00      |")
    require.Contains(t, s, "| MSFT     | $300.00         |          5 | $1500.00      |")
    require.Contains(t, s, "Total Portfolio Value: $3000.00")
    require.Contains(t, s, "Last updated: 2026-10-18 12:00:00")
}

func TestTrack_EmptyInput(t *testing.T) {
    a, out, _ := testApp(t, "\n", nil)

    status := execute(t, &trackCmd{app: a})

    require.Equal(t, subcommands.ExitSuccess, status)
    require.Contains(t, out.String(), "No stocks entered. Exiting...")
    require.NotContains(t, out.String(), "Your Portfolio:")
}

func TestTrack_UnavailableTickerIsSkipped(t *testing.T) {
    a, out, _ := testApp(t, "Ticker: AAPL, Quantity: 2\nTicker: BOGUS, Quantity: 1\nnot a holding\n\n", map[string]string{"AAPL": "10"})

    status := execute(t, &trackCmd{app: a})

    require.Equal(t, subcommands.ExitSuccess, status)
    s := out.String()
    require.Contains(t, s, "Invalid format. Please use: Ticker: SYMBOL, Quantity: NUMBER")
    require.Contains(t, s, "Warning: Could not fetch data for BOGUS. This ticker may be invalid.")
    require.NotContains(t, s, "| BOGUS")
    require.Contains(t, s, "Total Portfolio Value: $20.00")
}

func TestTrack_BadProviderFlag(t *testing.T) {
    a, _, errOut := testApp(t, "", nil)
    a.providerName = "bloomberg"

    status := execute(t, &trackCmd{app: a})

    require.Equal(t, subcommands.ExitUsageError, status)
    require.Contains(t, errOut.String(), "unknown provider")
}

func TestTrack_MissingConfigFile(t *testing.T) {
    a, _, errOut := testApp(t, "", nil)
    a.configPath = filepath.Join(t.TempDir(), "typo.yaml")

    status := execute(t, &trackCmd{app: a})

    require.Equal(t, subcommands.ExitUsageError, status)
    require.Contains(t, errOut.String(), "config")
}

func TestTrack_InterruptedAtPrompt(t *testing.T) {
    // Arrange: stdin that never delivers a line, and an interrupt.
    a, out, errOut := testApp(t, "", nil)
    pr, pw := io.Pipe()
    t.Cleanup(func() { pw.Close() })
    a.in = pr
    ctx, cancel := context.WithCancel(t.Context())
    cancel()

    // Act
    status := executeContext(ctx, t, &trackCmd{app: a})

    // Assert
    require.Equal(t, subcommands.ExitFailure, status)
    require.Contains(t, errOut.String(), "Interrupted.")
    require.NotContains(t, out.String(), "Fetching current stock prices")
}

func TestTrack_InterruptedWhilePricing(t *testing.T) {
    a, out, errOut := testApp(t, "Ticker: AAPL, Quantity: 1\nTicker: MSFT, Quantity: 1\n\n", nil)
    ctx, cancel := context.WithCancel(t.Context())
    a.newPricer = func(config.Config, *zap.Logger) (aggregate.PriceFunc, error) {
        return func(context.Context, string) (decimal.Decimal, bool) {
            cancel()
            return decimal.Decimal{}, false
        }, nil
    }

    status := executeContext(ctx, t, &trackCmd{app: a})

    require.Equal(t, subcommands.ExitFailure, status)
    require.Contains(t, errOut.String(), "Interrupted.")
    require.NotContains(t, out.String(), "Warning: Could not fetch data")
    require.NotContains(t, out.String(), "Your Portfolio:")
}

func TestQuote(t *testing.T) {
    a, out, _ := testApp(t, "", map[string]string{"AAPL": "150"})

    status := execute(t, &quoteCmd{app: a}, "aapl", "NOPE")

    require.Equal(t, subcommands.ExitFailure, status)
    require.Equal(t, "AAPL $150.00\nNOPE unavailable\n", out.String())
}

func TestQuote_JSON(t *testing.T) {
    a, out, _ := testApp(t, "", map[string]string{"MSFT": "300.5"})

    status := execute(t, &quoteCmd{app: a}, "-json", "MSFT")
    require.Equal(t, subcommands.ExitSuccess, status)

    var got struct {
        Quotes []struct {
            Symbol    string `json:"symbol"`
            Price     string `json:"price"`
            Currency  string `json:"currency"`
            Available bool   `json:"available"`
        } `json:"quotes"`
    }
    require.NoError(t, json.Unmarshal([]byte(out.String()), &got))
    require.Len(t, got.Quotes, 1)
    require.Equal(t, "MSFT", got.Quotes[0].Symbol)
    require.Equal(t, "300.5", got.Quotes[0].Price)
    require.Equal(t, "USD", got.Quotes[0].Currency)
    require.True(t, got.Quotes[0].Available)
}

func TestQuote_JSONWriteError(t *testing.T) {
    a, _, errOut := testApp(t, "", map[string]string{"MSFT": "1"})
    a.out = failingWriter{}

    status := execute(t, &quoteCmd{app: a}, "-json", "MSFT")

    require.Equal(t, subcommands.ExitFailure, status)
    require.Contains(t, errOut.String(), "disk full")
}

func TestQuote_Interrupted(t *testing.T) {
    a, out, errOut := testApp(t, "", nil)
    ctx, cancel := context.WithCancel(t.Context())
    var calls int
    a.newPricer = func(config.Config, *zap.Logger) (aggregate.PriceFunc, error) {
        return func(context.Context, string) (decimal.Decimal, bool) {
            calls++
            cancel()
            return decimal.Decimal{}, false
        }, nil
    }

    status := executeContext(ctx, t, &quoteCmd{app: a}, "AAPL", "MSFT")

    require.Equal(t, subcommands.ExitFailure, status)
    require.Equal(t, 1, calls)
    require.Empty(t, out.String())
    require.Contains(t, errOut.String(), "Interrupted.")
}

func TestQuote_NoArgs(t *testing.T) {
    a, _, errOut := testApp(t, "", nil)

    status := execute(t, &quoteCmd{app: a})

    require.Equal(t, subcommands.ExitUsageError, status)
    require.Contains(t, errOut.String(), "tradetrack quote")
}

func TestNewPricer(t *testing.T) {
    cfg := config.Default()
    price, err := newPricer(cfg, zap.NewNop())
    require.NoError(t, err)
    require.NotNil(t, price)

    cfg.Provider = config.ProviderEODHD
    _, err = newPricer(cfg, zap.NewNop())
    require.ErrorContains(t, err, "API key")

    cfg.EODHD.APIKey = "k"
    price, err = newPricer(cfg, zap.NewNop())
    require.NoError(t, err)
    require.NotNil(t, price)

    cfg.Provider = "other"
    _, err = newPricer(cfg, zap.NewNop())
    require.Error(t, err)
}

func TestNewPricer_YahooUserAgent(t *testing.T) {
    // Arrange: a chart endpoint that only answers the configured User-Agent.
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Header.Get("User-Agent") != "Mozilla/5.0 (X11; Linux x86_64)" {
            w.WriteHeader(http.StatusForbidden)
            return
        }
        _, _ = io.WriteString(w, `{"chart":{"result":[{"meta":{"symbol":"AAPL","currency":"USD","regularMarketPrice":252.29,"regularMarketTime":1760731201}}],"error":null}}`)
    }))
    defer srv.Close()

    cfg := config.Default()
    cfg.Yahoo.Endpoint = srv.URL
    cfg.Yahoo.UserAgent = "Mozilla/5.0 (X11; Linux x86_64)"
    cfg.Fetch.BaseDelayMillis = 1

    // Act
    price, err := newPricer(cfg, zaptest.NewLogger(t))
    require.NoError(t, err)
    p, ok := price(t.Context(), "AAPL")

    // Assert
    require.True(t, ok)
    require.Equal(t, "252.29", p.String())
}
