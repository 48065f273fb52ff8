package aggregate

import (
    "context"

    "github.com/shopspring/decimal"

    "tradetrack/internal/portfolio"
)

// PriceFunc resolves the current price of a ticker; false means unavailable.
type PriceFunc func(ctx context.Context, ticker string) (decimal.Decimal, bool)

// Row is one priced holding.
type Row struct {
    Ticker   string
    Price    decimal.Decimal
    Quantity int64
    Value    decimal.Decimal
}

// Valuation is the priced portfolio. Total is the sum of Rows' values;
// holdings whose price could not be fetched are listed in Missing instead.
type Valuation struct {
    Rows    []Row
    Missing []portfolio.Holding
    Total   decimal.Decimal
}

// NewRow prices a single holding.
func NewRow(h portfolio.Holding, price decimal.Decimal) Row {
    return Row{
        Ticker:   h.Ticker,
        Price:    price,
        Quantity: h.Quantity,
        Value:    price.Mul(decimal.NewFromInt(h.Quantity)),
    }
}

// Add appends a row and keeps Total in sync.
func (v *Valuation) Add(r Row) {
    v.Rows = append(v.Rows, r)
    v.Total = v.Total.Add(r.Value)
}

// Valuate prices holdings one after another in input order.
// onMissing, if set, is called for every holding without a price.
// Once ctx is done it stops and returns what was priced so far; the holding
// that was being priced is not reported as missing.
func Valuate(ctx context.Context, holdings []portfolio.Holding, price PriceFunc, onMissing func(portfolio.Holding)) Valuation {
    var v Valuation
    for _, h := range holdings {
        if ctx.Err() != nil { break }
        p, ok := price(ctx, h.Ticker)
        if !ok {
            if ctx.Err() != nil { break }
            v.Missing = append(v.Missing, h)
            if onMissing != nil { onMissing(h) }
            continue
        }
        v.Add(NewRow(h, p))
    }
    return v
}
