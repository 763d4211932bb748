// Package metrics registers the prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Market data metrics
	QuoteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_quote_requests_total",
			Help: "Total number of market data provider requests",
		},
		[]string{"operation", "outcome"},
	)

	QuoteRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_quote_request_duration_seconds",
			Help:    "Market data provider request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	PriceCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_price_cache_lookups_total",
			Help: "Latest price cache lookups by result",
		},
		[]string{"result"}, // hit, miss, error
	)

	ChartCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_chart_cache_lookups_total",
			Help: "Chart requests by cache state",
		},
		[]string{"state"}, // cached, stale, no_chart
	)

	// Scheduled refresh metrics
	RefreshUsersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_refresh_users_total",
			Help: "Users processed by the scheduled price refresh",
		},
		[]string{"outcome"},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_refresh_duration_seconds",
			Help:    "Duration of a full scheduled price refresh",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordQuoteRequest records one provider call.
func RecordQuoteRequest(operation string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	QuoteRequestsTotal.WithLabelValues(operation, outcome).Inc()
	QuoteRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
