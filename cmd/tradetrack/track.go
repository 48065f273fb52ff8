package main

import (
    "context"
    "flag"
    "fmt"
    "strings"

    "github.com/google/subcommands"

    "tradetrack/internal/aggregate"
    "tradetrack/internal/portfolio"
    "tradetrack/internal/report"
)

type trackCmd struct {
    app *app
}

func (*trackCmd) Name() string     { return "track" }
func (*trackCmd) Synopsis() string { return "prices the holdings you type in and prints the portfolio value" }
func (*trackCmd) Usage() string {
    return `tradetrack track

Reads holdings from standard input, one per line:

  Ticker: SYMBOL, Quantity: NUMBER

An empty line ends the input. Each ticker is then priced, one after the
other, and the portfolio is printed as a table followed by its total value.
Tickers without a price are reported and left out of the total.

This is the default command.
`
}

func (*trackCmd) SetFlags(*flag.FlagSet) {}

func (c *trackCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
    a := c.app
    cfg, log, price, err := a.setup()
    if err != nil {
        fmt.Fprintf(a.errOut, "Error: %v\n", err)
        return subcommands.ExitUsageError
    }
    defer log.Sync() //nolint:errcheck

    fmt.Fprintln(a.out, "Welcome to TradeTrack - Your Stock Portfolio Tracker!")
    fmt.Fprintln(a.out, "Enter your stock holdings (press Enter on an empty line when done):")
    fmt.Fprintln(a.out, "Format: Ticker: SYMBOL, Quantity: NUMBER")
    fmt.Fprintln(a.out, strings.Repeat("-", 50))

    holdings, err := (&portfolio.Reader{In: a.in, Out: a.out, Logger: log}).ReadHoldings(ctx)
    if err != nil {
        fmt.Fprintln(a.errOut, "\nInterrupted.")
        return subcommands.ExitFailure
    }
    if len(holdings) == 0 {
        fmt.Fprintln(a.out, "No stocks entered. Exiting...")
        return subcommands.ExitSuccess
    }

    fmt.Fprintln(a.out, "\nFetching current stock prices...")
    fmt.Fprintln(a.out, strings.Repeat("-", 50))

    v := aggregate.Valuate(ctx, holdings, price, func(h portfolio.Holding) {
        fmt.Fprintf(a.out, "Warning: Could not fetch data for %s. This ticker may be invalid.\n", h.Ticker)
    })
    if ctx.Err() != nil {
        fmt.Fprintln(a.errOut, "\nInterrupted.")
        return subcommands.ExitFailure
    }

    if err := report.Render(a.out, v, report.Options{Currency: cfg.Currency, Now: a.now()}); err != nil {
        fmt.Fprintf(a.errOut, "Error: %v\n", err)
        return subcommands.ExitFailure
    }
    return subcommands.ExitSuccess
}
