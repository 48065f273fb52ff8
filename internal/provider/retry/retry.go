// Package retry wraps a provider.Provider with the bounded, paced retry loop
// used to look up a single ticker's price.
package retry

import (
    "context"
    "errors"
    "time"

    "github.com/shopspring/decimal"
    "go.uber.org/zap"

    "tradetrack/internal/provider"
)

const (
    DefaultMaxAttempts = 3
    DefaultBaseDelay   = time.Second
)

// Outcome classifies a single attempt.
type Outcome int

const (
    Success Outcome = iota
    // SoftFail: the provider answered but had no usable price.
    SoftFail
    // RateLimited: the provider throttled the request.
    RateLimited
    // HardFail: any other error.
    HardFail
)

func (o Outcome) String() string {
    switch o {
    case Success:
        return "success"
    case SoftFail:
        return "soft-fail"
    case RateLimited:
        return "rate-limited"
    case HardFail:
        return "hard-fail"
    }
    return "unknown"
}

var (
    errNoData  = errors.New("no data received")
    errNoPrice = errors.New("no price data available")
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
    if d <= 0 { return ctx.Err() }
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return ctx.Err()
    case <-t.C:
        return nil
    }
}

// Fetcher looks up one ticker at a time. Every attempt is preceded by a flat
// BaseDelay pause; a rate-limited attempt additionally waits BaseDelay*attempt.
// Soft failures consume an attempt like any other failure.
type Fetcher struct {
    P           provider.Provider
    MaxAttempts int
    BaseDelay   time.Duration
    Logger      *zap.Logger
    Sleep       SleepFunc
}

// Fetch returns the current price of ticker, or false once the attempt budget
// is exhausted or ctx is done. It never returns an error.
func (f *Fetcher) Fetch(ctx context.Context, ticker string) (decimal.Decimal, bool) {
    maxAttempts := f.MaxAttempts
    if maxAttempts <= 0 { maxAttempts = DefaultMaxAttempts }
    delay := f.BaseDelay
    if delay <= 0 { delay = DefaultBaseDelay }
    sleep := f.Sleep
    if sleep == nil { sleep = Sleep }
    log := f.Logger
    if log == nil { log = zap.NewNop() }
    log = log.With(zap.String("ticker", ticker))

    for attempt := 1; attempt <= maxAttempts; attempt++ {
        log.Info("fetching price", zap.Int("attempt", attempt), zap.Int("max_attempts", maxAttempts))

        if err := sleep(ctx, delay); err != nil {
            log.Warn("fetch cancelled", zap.Error(err))
            return decimal.Decimal{}, false
        }

        price, outcome, err := f.attempt(ctx, ticker)
        switch outcome {
        case Success:
            log.Info("fetched price", zap.Stringer("price", price))
            return price, true

        case SoftFail:
            log.Warn("no usable price", zap.Int("attempt", attempt), zap.Error(err))

        case RateLimited:
            wait := delay * time.Duration(attempt)
            log.Warn("rate limit hit, backing off", zap.Int("attempt", attempt), zap.Duration("wait", wait))
            if err := sleep(ctx, wait); err != nil {
                log.Warn("fetch cancelled", zap.Error(err))
                return decimal.Decimal{}, false
            }

        case HardFail:
            log.Warn("error fetching price", zap.Int("attempt", attempt), zap.Error(err))
            if attempt == maxAttempts {
                return decimal.Decimal{}, false
            }
        }
    }
    log.Warn("giving up", zap.Int("attempts", maxAttempts))
    return decimal.Decimal{}, false
}

func (f *Fetcher) attempt(ctx context.Context, ticker string) (decimal.Decimal, Outcome, error) {
    qs, err := f.P.Fetch(ctx, []string{ticker})
    if err != nil {
        if provider.IsRateLimited(err) { return decimal.Decimal{}, RateLimited, err }
        return decimal.Decimal{}, HardFail, err
    }
    q, ok := provider.Lookup(qs, ticker)
    if !ok { return decimal.Decimal{}, SoftFail, errNoData }
    if !q.Price.Valid || !q.Price.Decimal.IsPositive() {
        return decimal.Decimal{}, SoftFail, errNoPrice
    }
    return q.Price.Decimal, Success, nil
}
