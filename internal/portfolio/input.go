package portfolio

import (
    "bufio"
    "context"
    "errors"
    "fmt"
    "io"
    "strings"

    "go.uber.org/zap"
)

const Prompt = "> "

// Message returns the text shown to the user when a line is rejected.
func Message(err error) string {
    switch {
    case errors.Is(err, ErrInvalidFormat):
        return "Invalid format. Please use: Ticker: SYMBOL, Quantity: NUMBER"
    case errors.Is(err, ErrInvalidQuantity):
        return "Invalid quantity. Please enter a valid number."
    case errors.Is(err, ErrNonPositiveQuantity):
        return "Quantity must be a positive number."
    }
    return fmt.Sprintf("Error processing input: %v", err)
}

// Reader runs the entry loop: it prompts on Out, reads lines from In until a
// blank line or end of input, and reports rejected lines without stopping.
type Reader struct {
    In     io.Reader
    Out    io.Writer
    Logger *zap.Logger
}

// ReadHoldings returns the accepted holdings in entry order. If ctx is done
// while it waits for a line, it returns no holdings and ctx's error.
func (r *Reader) ReadHoldings(ctx context.Context) ([]Holding, error) {
    log := r.Logger
    if log == nil { log = zap.NewNop() }

    // Scan blocks without regard to ctx, so lines are read on their own
    // goroutine. It is abandoned blocked in Scan if ctx ends first.
    lines := make(chan string)
    scanErr := make(chan error, 1)
    stop := make(chan struct{})
    defer close(stop)
    go func() {
        defer close(lines)
        sc := bufio.NewScanner(r.In)
        for sc.Scan() {
            select {
            case lines <- sc.Text():
            case <-stop:
                return
            }
        }
        scanErr <- sc.Err()
    }()

    var holdings []Holding
    for {
        fmt.Fprint(r.Out, Prompt)
        var (
            raw string
            ok  bool
        )
        select {
        case <-ctx.Done():
            log.Debug("input interrupted", zap.Error(ctx.Err()))
            return nil, ctx.Err()
        case raw, ok = <-lines:
        }
        if !ok {
            if err := <-scanErr; err != nil {
                log.Warn("reading input", zap.Error(err))
            }
            return holdings, nil
        }

        line := strings.TrimSpace(raw)
        if line == "" { return holdings, nil }

        h, err := ParseHolding(line)
        if err != nil {
            log.Debug("rejected line", zap.String("line", line), zap.Error(err))
            fmt.Fprintln(r.Out, Message(err))
            continue
        }
        holdings = append(holdings, h)
    }
}
