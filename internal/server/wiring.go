package server

import (
	"context"

	"gorm.io/gorm"

	"folio/internal/chartcache"
	"folio/internal/config"
	"folio/internal/logger"
	"folio/internal/quotes"
	"folio/internal/refresher"
	"folio/internal/repository"
	"folio/internal/services"
)

// NewQuoteProvider builds the IEX client from cfg. When REDIS_URL is set the
// client is fronted by a Redis price cache; an unreachable Redis only logs a
// warning. The returned close function releases the cache connection.
func NewQuoteProvider(ctx context.Context, cfg *config.Config) (quotes.Provider, func()) {
	log := logger.Get()

	if len(cfg.IEXAPIKeys) == 0 {
		log.Warn("no IEX API keys configured, market data requests will be rejected")
	}
	client := quotes.NewIEXClient(quotes.IEXConfig{
		BaseURL:   cfg.IEXBaseURL,
		Keys:      quotes.NewKeyPool(cfg.IEXAPIKeys...),
		Timeout:   cfg.QuoteTimeout,
		RateLimit: cfg.QuoteRateLimit,
	}, nil)

	if cfg.RedisURL == "" {
		return client, func() {}
	}

	cache, err := quotes.NewRedisCache(ctx, cfg.RedisURL)
	if err != nil {
		log.Warnw("redis unavailable, price cache disabled", "error", err)
		return client, func() {}
	}
	log.Infow("price cache enabled", "ttl", cfg.PriceCacheTTL.String())
	return quotes.NewCachedProvider(client, cache, cfg.PriceCacheTTL), func() {
		if err := cache.Close(); err != nil {
			log.Warnw("failed to close redis", "error", err)
		}
	}
}

// NewServices builds the services over db and provider.
func NewServices(cfg *config.Config, db *gorm.DB, provider quotes.Provider) Services {
	store := repository.NewAssetStore(db)
	portfolio := services.NewPortfolioService(store, provider,
		chartcache.NewPolicy(cfg.ChartTTL),
		services.WithChartOptions(quotes.ChartOptions{Range: cfg.ChartRange, CloseOnly: true}),
		services.WithFetchTimeout(cfg.QuoteTimeout),
	)
	return Services{
		Users:     services.NewUserService(db),
		Portfolio: portfolio,
		Audit:     services.NewAuditService(db),
		Refresher: refresher.New(store, portfolio, cfg.RefreshConcurrency),
	}
}
