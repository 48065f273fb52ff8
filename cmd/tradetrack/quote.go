package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "strings"

    "github.com/google/subcommands"
    "github.com/shopspring/decimal"

    "tradetrack/internal/report"
)

type quoteCmd struct {
    app  *app
    json bool
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "prints the current price of one or more tickers" }
func (*quoteCmd) Usage() string {
    return `tradetrack quote [-json] TICKER...

Fetches the current price of every ticker, one after the other, with the
same retry policy as the track command. Exits with status 1 if any ticker
could not be priced.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
    f.BoolVar(&c.json, "json", false, "print the quotes as JSON")
}

type quoteLine struct {
    Symbol    string           `json:"symbol"`
    Price     *decimal.Decimal `json:"price,omitempty"`
    Currency  string           `json:"currency"`
    Available bool             `json:"available"`
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
    a := c.app
    if f.NArg() == 0 {
        fmt.Fprint(a.errOut, c.Usage())
        return subcommands.ExitUsageError
    }
    cfg, log, price, err := a.setup()
    if err != nil {
        fmt.Fprintf(a.errOut, "Error: %v\n", err)
        return subcommands.ExitUsageError
    }
    defer log.Sync() //nolint:errcheck

    status := subcommands.ExitSuccess
    lines := make([]quoteLine, 0, f.NArg())
    for _, arg := range f.Args() {
        if ctx.Err() != nil { break }
        ticker := strings.ToUpper(strings.TrimSpace(arg))
        if ticker == "" { continue }
        line := quoteLine{Symbol: ticker, Currency: cfg.Currency}
        if p, ok := price(ctx, ticker); ok {
            line.Price = &p
            line.Available = true
        } else {
            status = subcommands.ExitFailure
        }
        lines = append(lines, line)
    }
    if ctx.Err() != nil {
        fmt.Fprintln(a.errOut, "Interrupted.")
        return subcommands.ExitFailure
    }

    if c.json {
        enc := json.NewEncoder(a.out)
        enc.SetIndent("", "  ")
        if err := enc.Encode(struct{ Quotes []quoteLine `json:"quotes"` }{Quotes: lines}); err != nil {
            fmt.Fprintf(a.errOut, "Error: %v\n", err)
            return subcommands.ExitFailure
        }
        return status
    }
    for _, l := range lines {
        if !l.Available {
            fmt.Fprintf(a.out, "%s unavailable\n", l.Symbol)
            continue
        }
        fmt.Fprintf(a.out, "%s %s\n", l.Symbol, report.FormatMoney(*l.Price, cfg.Currency))
    }
    return status
}
