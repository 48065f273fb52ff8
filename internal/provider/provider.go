package provider

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "time"

    "github.com/shopspring/decimal"
)

// Quote is the normalized shape returned by all providers.
// Price is invalid when the provider answered for the symbol but sent no price.
type Quote struct {
    Symbol     string              `json:"symbol"`
    Price      decimal.NullDecimal `json:"price"`
    Currency   string              `json:"currency"`
    Source     string              `json:"source"`
    ReceivedAt time.Time           `json:"received_at"`
}

// Provider looks up current market prices. A symbol with no data is simply
// absent from the returned slice.
//
//go:generate mockgen -destination=providermock/provider.go -package=providermock . Provider
type Provider interface {
    Name() string
    Fetch(ctx context.Context, symbols []string) ([]Quote, error)
}

// ErrRateLimited is returned (possibly wrapped) when the upstream throttled the request.
var ErrRateLimited = errors.New("rate limited")

// ErrUnauthorized is returned when the upstream rejected the credentials.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError reports an unexpected HTTP status from an upstream.
type StatusError struct {
    Code int
    Body string
}

func (e *StatusError) Error() string {
    if e.Body == "" { return fmt.Sprintf("unexpected status code: %d", e.Code) }
    return fmt.Sprintf("unexpected status code: %d: %s", e.Code, e.Body)
}

// Is lets errors.Is match a 429 StatusError against ErrRateLimited.
func (e *StatusError) Is(target error) bool {
    switch target {
    case ErrRateLimited:
        return e.Code == http.StatusTooManyRequests
    case ErrUnauthorized:
        return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
    }
    return false
}

func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// Lookup returns the quote for symbol from qs, if any.
func Lookup(qs []Quote, symbol string) (Quote, bool) {
    for _, q := range qs {
        if q.Symbol == symbol { return q, true }
    }
    return Quote{}, false
}
