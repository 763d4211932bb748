// Package quotes fetches prices and historical charts from the market data
// provider.
package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"folio/internal/models"
)

// Quote is the latest observed price for a symbol.
type Quote struct {
	Symbol    string
	Price     decimal.Decimal
	UpdatedAt time.Time
}

// ChartOptions selects the historical series to fetch.
type ChartOptions struct {
	Range     string
	CloseOnly bool
}

// DefaultChartOptions returns six months of closing prices.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Range: "6m", CloseOnly: true}
}

// Provider fetches market data. Every failure is reported as a *FetchError;
// implementations never retry.
type Provider interface {
	// LatestPrice returns the latest price for a single ticker.
	LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, error)

	// LatestPrices returns quotes keyed by symbol. Symbols the provider did
	// not return are absent from the map.
	LatestPrices(ctx context.Context, tickers []string) (map[string]Quote, error)

	// Chart returns the historical series for ticker in date order.
	Chart(ctx context.Context, ticker string, opts ChartOptions) ([]models.ChartPoint, error)
}

// FetchError is returned for any failed provider call: transport errors,
// non-2xx responses, malformed payloads, open breaker or cancelled context.
type FetchError struct {
	Op              string
	Reason          string
	ProviderMessage string
	StatusCode      int
	Err             error

	// callerGone is set when the request context ended before the provider
	// answered.
	callerGone bool
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	msg := fmt.Sprintf("quotes %s: %s", e.Op, e.Reason)
	if e.ProviderMessage != "" {
		msg += ": " + e.ProviderMessage
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error { return e.Err }

// clientError reports whether the provider rejected the request itself, such
// as an unknown symbol, rather than failing to serve it.
func (e *FetchError) clientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != 429
}
