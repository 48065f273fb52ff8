// Package portfolio reads the holdings a user enters interactively.
package portfolio

import (
    "errors"
    "fmt"
    "strconv"
    "strings"
)

const (
    tickerPrefix   = "Ticker:"
    quantityPrefix = "Quantity:"
)

var (
    ErrInvalidFormat       = errors.New("invalid format")
    ErrInvalidQuantity     = errors.New("invalid quantity")
    ErrNonPositiveQuantity = errors.New("quantity must be positive")
)

// Holding is a claimed position: Quantity shares of Ticker.
type Holding struct {
    Ticker   string
    Quantity int64
}

// ParseHolding parses one line of the form "Ticker: SYMBOL, Quantity: NUMBER".
// The ticker is upper-cased.
func ParseHolding(line string) (Holding, error) {
    parts := strings.Split(strings.TrimSpace(line), ",")
    if len(parts) != 2 {
        return Holding{}, fmt.Errorf("%w: %q", ErrInvalidFormat, line)
    }
    tickerPart := strings.TrimSpace(parts[0])
    quantityPart := strings.TrimSpace(parts[1])
    if !strings.HasPrefix(tickerPart, tickerPrefix) || !strings.HasPrefix(quantityPart, quantityPrefix) {
        return Holding{}, fmt.Errorf("%w: %q", ErrInvalidFormat, line)
    }

    ticker := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(tickerPart, tickerPrefix)))
    if ticker == "" {
        return Holding{}, fmt.Errorf("%w: empty ticker", ErrInvalidFormat)
    }

    raw := strings.TrimSpace(strings.TrimPrefix(quantityPart, quantityPrefix))
    qty, err := strconv.ParseInt(raw, 10, 64)
    if err != nil {
        return Holding{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, raw)
    }
    if qty <= 0 {
        return Holding{}, fmt.Errorf("%w: %d", ErrNonPositiveQuantity, qty)
    }
    return Holding{Ticker: ticker, Quantity: qty}, nil
}
