package yahoo

import (
    "context"
    "strings"
    "time"

    "github.com/shopspring/decimal"
    "go.uber.org/zap"

    "tradetrack/internal/provider"
)

// Provider adapts Client to provider.Provider.
type Provider struct {
    Client *Client
    Logger *zap.Logger
}

func (p *Provider) Name() string { return "Yahoo" }

// Fetch issues one chart request per symbol. Symbols Yahoo does not know are
// left out of the result; the first error is returned only if nothing was found.
func (p *Provider) Fetch(ctx context.Context, symbols []string) ([]provider.Quote, error) {
    log := p.Logger
    if log == nil { log = zap.NewNop() }

    out := make([]provider.Quote, 0, len(symbols))
    var firstErr error
    for _, sym := range symbols {
        chart, err := p.Client.GetChart(ctx, sym)
        if err != nil {
            log.Debug("chart request failed", zap.String("symbol", sym), zap.Error(err))
            if firstErr == nil { firstErr = err }
            continue
        }
        if chart == nil { continue }

        q := provider.Quote{
            Symbol:     sym,
            Currency:   strings.ToUpper(chart.Currency),
            Source:     p.Name(),
            ReceivedAt: chart.MarketTime,
        }
        if chart.Price != nil {
            q.Price = decimal.NewNullDecimal(*chart.Price)
        }
        if q.ReceivedAt.IsZero() { q.ReceivedAt = time.Now().UTC() }
        out = append(out, q)
    }
    if len(out) == 0 && firstErr != nil {
        return nil, firstErr
    }
    return out, nil
}
