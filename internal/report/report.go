// Package report renders a priced portfolio as a grid table.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Rhymond/go-money"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"tradetrack/internal/aggregate"
)

const TimestampLayout = "2006-01-02 15:04:05"

var headers = []string{"Ticker", "Current Price", "Quantity", "Total Value"}

// Options control how a Valuation is rendered.
type Options struct {
	// Currency is an ISO 4217 code; it defaults to USD.
	Currency string
	// Now is printed as the last-updated timestamp; it defaults to time.Now().
	Now time.Time
}

// FormatMoney formats amount as the currency's symbol followed by the amount
// rounded to the currency's minor unit, without grouping: $1500.00.
func FormatMoney(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = money.USD
	}
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return strings.ToUpper(currency) + " " + amount.StringFixed(2)
	}
	return cur.Grapheme + amount.StringFixed(int32(cur.Fraction))
}

// Render writes the portfolio table, the total value and a timestamp to w.
func Render(w io.Writer, v aggregate.Valuation, opts Options) error {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	rows := make([][]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		rows = append(rows, []string{
			r.Ticker,
			FormatMoney(r.Price, opts.Currency),
			strconv.FormatInt(r.Quantity, 10),
			FormatMoney(r.Value, opts.Currency),
		})
	}

	var b strings.Builder
	b.WriteString("\nYour Portfolio:\n")
	b.WriteString(Grid(headers, rows, []bool{false, false, true, false}))
	fmt.Fprintf(&b, "\nTotal Portfolio Value: %s\n", FormatMoney(v.Total, opts.Currency))
	fmt.Fprintf(&b, "\nLast updated: %s\n", opts.Now.Format(TimestampLayout))

	_, err := io.WriteString(w, b.String())
	return err
}

// Grid lays out a table with a border around every cell and a double rule
// under the header. rightAlign selects the columns aligned to the right.
// Each column is at least two characters wider than its header.
func Grid(header []string, rows [][]string, rightAlign []bool) string {
	t := table.NewWriter()
	t.SetStyle(gridStyle())

	configs := make([]table.ColumnConfig, len(header))
	head := make(table.Row, len(header))
	for i, h := range header {
		align := text.AlignLeft
		if i < len(rightAlign) && rightAlign[i] {
			align = text.AlignRight
		}
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: align,
			WidthMin:    utf8.RuneCountInString(h) + 2,
		}
		head[i] = h
	}
	t.SetColumnConfigs(configs)
	t.AppendHeader(head)

	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = cell
		}
		t.AppendRow(row)
	}
	return t.Render() + "\n"
}

// gridStyle draws every border with ASCII, separates every row and puts a
// double rule under the header.
func gridStyle() table.Style {
	s := table.StyleDefault
	s.Name = "Grid"
	s.Box.Horizontal = table.NewBoxStyleHorizontal("-")
	s.Box.Horizontal.HeaderBottom = "="
	s.Format.Header = text.FormatDefault
	s.Options.SeparateRows = true
	return s
}
