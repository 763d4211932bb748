package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"folio/internal/logger"
	"folio/internal/metrics"
	"folio/internal/models"
)

const (
	iexBaseURL  = "https://cloud.iexapis.com/stable"
	iexBatchMax = 100

	// maxErrorBody caps how much of a failed response is kept as the
	// provider message.
	maxErrorBody = 512
)

// IEXConfig configures an IEXClient.
type IEXConfig struct {
	BaseURL   string
	Keys      *KeyPool
	Timeout   time.Duration
	RateLimit float64 // requests per second
}

// iexBatchEntry is one symbol in a /stock/market/batch response.
type iexBatchEntry struct {
	Quote *struct {
		Symbol       string           `json:"symbol"`
		LatestPrice  *decimal.Decimal `json:"latestPrice"`
		LatestUpdate int64            `json:"latestUpdate"`
	} `json:"quote"`
}

// iexChartResponse is the body of a /stock/{symbol}/batch?types=chart call.
type iexChartResponse struct {
	Chart []models.ChartPoint `json:"chart"`
}

// IEXClient fetches market data from IEX Cloud.
type IEXClient struct {
	httpClient *http.Client
	baseURL    string
	keys       *KeyPool
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	log        *zap.SugaredLogger
}

// NewIEXClient creates a client. A nil httpClient gets one with cfg.Timeout.
func NewIEXClient(cfg IEXConfig, httpClient *http.Client) *IEXClient {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = iexBaseURL
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	log := logger.Named("quotes")
	st := gobreaker.Settings{
		Name:        "IEXCloud",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Rejections and callers giving up say nothing about IEX health.
		IsSuccessful: func(err error) bool {
			var fe *FetchError
			return err == nil || (errors.As(err, &fe) && (fe.clientError() || fe.callerGone))
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnw("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &IEXClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		keys:       cfg.Keys,
		breaker:    gobreaker.NewCircuitBreaker(st),
		limiter:    rate.NewLimiter(limit, 1),
		log:        log,
	}
}

// LatestPrice returns the latest price for ticker.
func (c *IEXClient) LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	var price *decimal.Decimal
	path := "/stock/" + url.PathEscape(ticker) + "/quote/latestPrice"
	if err := c.get(ctx, "latest_price", path, url.Values{}, &price); err != nil {
		return decimal.Zero, err
	}
	if price == nil {
		return decimal.Zero, &FetchError{Op: "latest_price", Reason: "no price for " + ticker}
	}
	return *price, nil
}

// LatestPrices fetches quotes in batches of at most 100 symbols. Any failed
// batch fails the whole call.
func (c *IEXClient) LatestPrices(ctx context.Context, tickers []string) (map[string]Quote, error) {
	symbols := dedupe(tickers)
	out := make(map[string]Quote, len(symbols))

	for i := 0; i < len(symbols); i += iexBatchMax {
		end := min(i+iexBatchMax, len(symbols))
		if err := c.fetchBatch(ctx, symbols[i:end], out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *IEXClient) fetchBatch(ctx context.Context, symbols []string, out map[string]Quote) error {
	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))
	q.Set("types", "quote")

	var resp map[string]iexBatchEntry
	if err := c.get(ctx, "batch", "/stock/market/batch", q, &resp); err != nil {
		return err
	}

	for _, entry := range resp {
		if entry.Quote == nil || entry.Quote.LatestPrice == nil || entry.Quote.Symbol == "" {
			continue
		}
		var updated time.Time
		if entry.Quote.LatestUpdate > 0 {
			updated = time.UnixMilli(entry.Quote.LatestUpdate).UTC()
		}
		out[entry.Quote.Symbol] = Quote{
			Symbol:    entry.Quote.Symbol,
			Price:     *entry.Quote.LatestPrice,
			UpdatedAt: updated,
		}
	}
	return nil
}

// Chart returns the historical series for ticker.
func (c *IEXClient) Chart(ctx context.Context, ticker string, opts ChartOptions) ([]models.ChartPoint, error) {
	if opts.Range == "" {
		opts.Range = DefaultChartOptions().Range
	}
	q := url.Values{}
	q.Set("types", "chart")
	q.Set("range", opts.Range)
	if opts.CloseOnly {
		q.Set("chartCloseOnly", "true")
		q.Set("filter", "date,close")
	}

	var resp iexChartResponse
	if err := c.get(ctx, "chart", "/stock/"+url.PathEscape(ticker)+"/batch", q, &resp); err != nil {
		return nil, err
	}
	if resp.Chart == nil {
		return []models.ChartPoint{}, nil
	}
	return resp.Chart, nil
}

// get performs one rate-limited, breaker-guarded GET and decodes the JSON body
// into out.
func (c *IEXClient) get(ctx context.Context, op, path string, q url.Values, out any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordQuoteRequest(op, err, time.Since(start)) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Op: op, Reason: "rate limit wait aborted", Err: err}
	}
	if key := c.keys.Pick(); key != "" {
		q.Set("token", key)
	}
	endpoint := c.baseURL + path + "?" + q.Encode()

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, op, endpoint, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &FetchError{Op: op, Reason: "provider unavailable", Err: err}
	}
	if err != nil {
		c.log.Warnw("market data request failed", "op", op, "path", path, "error", err)
	}
	return err
}

func (c *IEXClient) do(ctx context.Context, op, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &FetchError{Op: op, Reason: "building request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Op: op, Reason: "request failed", Err: err, callerGone: ctx.Err() != nil}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &FetchError{
			Op:              op,
			Reason:          http.StatusText(resp.StatusCode),
			ProviderMessage: strings.TrimSpace(string(body)),
			StatusCode:      resp.StatusCode,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Op: op, Reason: "malformed payload", StatusCode: resp.StatusCode, Err: err, callerGone: ctx.Err() != nil}
	}
	return nil
}

func dedupe(tickers []string) []string {
	seen := make(map[string]struct{}, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
