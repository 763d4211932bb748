package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"folio/internal/chartcache"
	apperrors "folio/internal/errors"
	"folio/internal/ledger"
	"folio/internal/logger"
	"folio/internal/metrics"
	"folio/internal/models"
	"folio/internal/quotes"
	"folio/internal/repository"
)

// portfolioService orchestrates the ledger, the quote provider and the chart
// cache against persisted snapshots.
type portfolioService struct {
	store     repository.AssetStore
	provider  quotes.Provider
	policy    chartcache.Policy
	chartOpts quotes.ChartOptions
	charts    singleflight.Group
	fetchWait time.Duration
	now       func() time.Time
	log       *zap.SugaredLogger
}

// PortfolioOption customises a PortfolioServicer.
type PortfolioOption func(*portfolioService)

// WithClock overrides the time source used for reprice and chart timestamps.
func WithClock(now func() time.Time) PortfolioOption {
	return func(s *portfolioService) { s.now = now }
}

// WithChartOptions overrides the chart range requested from the provider.
func WithChartOptions(opts quotes.ChartOptions) PortfolioOption {
	return func(s *portfolioService) { s.chartOpts = opts }
}

// WithFetchTimeout bounds a shared chart fetch, which outlives the request
// that started it.
func WithFetchTimeout(d time.Duration) PortfolioOption {
	return func(s *portfolioService) {
		if d > 0 {
			s.fetchWait = d
		}
	}
}

// defaultFetchTimeout matches the default quote client timeout.
const defaultFetchTimeout = 10 * time.Second

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(store repository.AssetStore, provider quotes.Provider, policy chartcache.Policy, opts ...PortfolioOption) PortfolioServicer {
	s := &portfolioService{
		store:     store,
		provider:  provider,
		policy:    policy,
		chartOpts: quotes.DefaultChartOptions(),
		fetchWait: defaultFetchTimeout,
		now:       time.Now,
		log:       logger.Named("portfolio"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPortfolio returns the stored snapshot.
func (s *portfolioService) GetPortfolio(ctx context.Context, userID string) (*models.Assets, error) {
	return s.load(ctx, userID)
}

// Buy adds shares to the portfolio.
func (s *portfolioService) Buy(ctx context.Context, userID string, purchase ledger.Purchase) (*models.Assets, error) {
	return s.mutate(ctx, userID, func(a *models.Assets) (*models.Assets, error) {
		if purchase.Date == nil {
			now := s.now()
			purchase.Date = &now
		}
		return ledger.AddPosition(a, purchase)
	})
}

// Sell removes shares from the portfolio.
func (s *portfolioService) Sell(ctx context.Context, userID string, order ledger.SaleOrder) (*models.Assets, error) {
	return s.mutate(ctx, userID, func(a *models.Assets) (*models.Assets, error) {
		return ledger.SellPosition(a, order)
	})
}

// ReplaceAllocations swaps the holdings wholesale.
func (s *portfolioService) ReplaceAllocations(ctx context.Context, userID string, holdings []models.Position) (*models.Assets, error) {
	return s.mutate(ctx, userID, func(a *models.Assets) (*models.Assets, error) {
		return ledger.ReplaceAllocations(a, holdings)
	})
}

// AdjustCash adds delta to the cash balance.
func (s *portfolioService) AdjustCash(ctx context.Context, userID string, delta decimal.Decimal) (*models.Assets, error) {
	return s.mutate(ctx, userID, func(a *models.Assets) (*models.Assets, error) {
		return ledger.AdjustCash(a, delta)
	})
}

// Reprice fetches the latest quote for every holding and stores the result.
// A portfolio without holdings is returned as is without a provider call.
func (s *portfolioService) Reprice(ctx context.Context, userID string) (*models.Assets, error) {
	assets, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(assets.Stocks) == 0 {
		return assets, nil
	}

	tickers := make([]string, len(assets.Stocks))
	for i, p := range assets.Stocks {
		tickers[i] = p.Ticker
	}

	fetched, err := s.provider.LatestPrices(ctx, tickers)
	if err != nil {
		s.log.Warnw("reprice failed", "user_id", userID, "tickers", len(tickers), "error", err)
		return nil, providerError(err)
	}

	quotesByTicker := make(map[string]ledger.Quote, len(fetched))
	for symbol, q := range fetched {
		lq := ledger.Quote{Price: q.Price}
		if !q.UpdatedAt.IsZero() {
			updated := q.UpdatedAt
			lq.Date = &updated
		}
		quotesByTicker[symbol] = lq
	}

	repriced := ledger.RepriceAll(assets, quotesByTicker, s.now())
	if err := s.save(ctx, repriced); err != nil {
		return nil, err
	}
	return repriced, nil
}

// Chart returns the chart for a held ticker, serving the cached series while
// it is fresh. Concurrent fetches of the same ticker share one provider call.
func (s *portfolioService) Chart(ctx context.Context, userID, ticker string) ([]models.ChartPoint, error) {
	assets, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	pos, ok := ledger.Find(assets, ticker)
	if !ok {
		return nil, apperrors.ErrStockNotHeld
	}

	now := s.now()
	state := s.policy.State(pos, now)
	metrics.ChartCacheLookups.WithLabelValues(state.String()).Inc()
	if state == chartcache.Cached {
		if pos.Chart == nil {
			return []models.ChartPoint{}, nil
		}
		return pos.Chart, nil
	}

	chart, err := s.fetchChart(ctx, ticker)
	if err != nil {
		s.log.Warnw("chart fetch failed", "user_id", userID, "ticker", ticker, "error", err)
		return nil, providerError(err)
	}

	updated, err := ledger.StoreChart(assets, ticker, chart, now)
	if err != nil {
		return nil, ledgerError(err)
	}
	if err := s.save(ctx, updated); err != nil {
		return nil, err
	}
	fresh, _ := ledger.Find(updated, ticker)
	return fresh.Chart, nil
}

// fetchChart joins or starts the shared fetch for ticker. The fetch runs on a
// detached context so a caller that gives up never fails the others waiting
// on it.
func (s *portfolioService) fetchChart(ctx context.Context, ticker string) ([]models.ChartPoint, error) {
	ch := s.charts.DoChan(ticker, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchWait)
		defer cancel()
		return s.provider.Chart(fetchCtx, ticker, s.chartOpts)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.ChartPoint), nil
	case <-ctx.Done():
		return nil, &quotes.FetchError{Op: "chart", Reason: "request cancelled", Err: ctx.Err()}
	}
}

// LatestPrice looks up the current price of any ticker.
func (s *portfolioService) LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	price, err := s.provider.LatestPrice(ctx, ticker)
	if err != nil {
		s.log.Infow("price lookup failed", "ticker", ticker, "error", err)
		return decimal.Zero, apperrors.Wrap(apperrors.ErrStockNotFound, err)
	}
	return price, nil
}

// Drift reports positions whose weight is more than threshold percentage
// points away from their target.
func (s *portfolioService) Drift(ctx context.Context, userID string, threshold decimal.Decimal) (*DriftReport, error) {
	assets, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &DriftReport{
		Threshold: threshold,
		Positions: ledger.Drift(assets, threshold),
	}, nil
}

// mutate runs one load, apply, save cycle. Nothing is saved when apply fails.
func (s *portfolioService) mutate(ctx context.Context, userID string, apply func(*models.Assets) (*models.Assets, error)) (*models.Assets, error) {
	assets, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated, err := apply(assets)
	if err != nil {
		return nil, ledgerError(err)
	}
	if err := s.save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *portfolioService) load(ctx context.Context, userID string) (*models.Assets, error) {
	assets, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}
	return assets, nil
}

// save persists without the request's cancellation so a disconnecting client
// cannot abandon a write that has already been issued.
func (s *portfolioService) save(ctx context.Context, assets *models.Assets) error {
	if err := s.store.Save(context.WithoutCancel(ctx), assets); err != nil {
		return storeError(err)
	}
	return nil
}

func ledgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientCash):
		return apperrors.ErrInsufficientCash
	case errors.Is(err, ledger.ErrInsufficientShares):
		return apperrors.ErrInsufficientShares
	case errors.Is(err, ledger.ErrNotOwned):
		return apperrors.ErrNotOwned
	case errors.Is(err, ledger.ErrNegativeBalance):
		return apperrors.ErrNegativeBalance
	case errors.Is(err, ledger.ErrDuplicateTicker):
		return apperrors.ErrDuplicateTicker
	case errors.Is(err, ledger.ErrInvalidOrder):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "ticker is required, shares must be positive and price must not be negative")
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

func storeError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

func providerError(err error) error {
	appErr := apperrors.Wrap(apperrors.ErrProviderFetch, err)
	var fe *quotes.FetchError
	if errors.As(err, &fe) && fe.Reason != "" {
		appErr.Message = fe.Reason
	}
	return appErr
}
