package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"tradetrack/internal/provider"
)

// Chart is the market summary of a symbol as reported by the chart endpoint.
type Chart struct {
	Symbol     string
	Currency   string
	Price      *decimal.Decimal
	MarketTime time.Time
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta chartMeta `json:"meta"`
		} `json:"result"`
		Error *chartError `json:"error"`
	} `json:"chart"`
}

type chartMeta struct {
	Symbol             string           `json:"symbol"`
	Currency           string           `json:"currency"`
	RegularMarketPrice *decimal.Decimal `json:"regularMarketPrice"`
	RegularMarketTime  int64            `json:"regularMarketTime"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// GetChart retrieves the current market summary for symbol.
// It returns nil and no error when Yahoo has no data for the symbol.
func (c *Client) GetChart(ctx context.Context, symbol string, opts ...ClientOption) (*Chart, error) {
	var override = &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
		query:      c.query,
	}
	for _, opt := range opts {
		opt(override)
	}

	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", override.baseURL, url.PathEscape(symbol), override.query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusNotFound:
		// Unknown or delisted symbol.
		return nil, nil

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", provider.ErrUnauthorized, symbol)

	case http.StatusTooManyRequests:
		return nil, &provider.StatusError{Code: res.StatusCode}

	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return nil, &provider.StatusError{Code: res.StatusCode, Body: string(b)}
	}

	var body chartResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding chart response: %w", err)
	}
	if body.Chart.Error != nil || len(body.Chart.Result) == 0 {
		return nil, nil
	}

	// {
	//   "symbol": "AAPL",
	//   "currency": "USD",
	//   "regularMarketPrice": 150.0,
	//   "regularMarketTime": 1700000000,
	//   ...
	// }
	meta := body.Chart.Result[0].Meta
	chart := &Chart{
		Symbol:   meta.Symbol,
		Currency: meta.Currency,
		Price:    meta.RegularMarketPrice,
	}
	if chart.Symbol == "" {
		chart.Symbol = symbol
	}
	if meta.RegularMarketTime > 0 {
		chart.MarketTime = time.Unix(meta.RegularMarketTime, 0).UTC()
	}
	return chart, nil
}
