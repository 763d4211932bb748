package quotes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/logger"
)

func init() {
	logger.Init("test")
}

func newTestClient(t *testing.T, h http.HandlerFunc) *IEXClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewIEXClient(IEXConfig{BaseURL: srv.URL, Keys: NewKeyPool("k1")}, srv.Client())
}

func TestIEXClient_LatestPrices(t *testing.T) {
	t.Run("maps returned symbols and skips the rest", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/stock/market/batch", r.URL.Path)
			assert.Equal(t, "quote", r.URL.Query().Get("types"))
			assert.Equal(t, "k1", r.URL.Query().Get("token"))
			assert.Equal(t, "AAPL,MSFT,NOPE", r.URL.Query().Get("symbols"))
			fmt.Fprint(w, `{
				"AAPL": {"quote": {"symbol": "AAPL", "latestPrice": 187.5, "latestUpdate": 1714657200000}},
				"MSFT": {"quote": {"symbol": "MSFT", "latestPrice": null}}
			}`)
		})

		got, err := c.LatestPrices(context.Background(), []string{"AAPL", "MSFT", "NOPE", "AAPL"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "187.5", got["AAPL"].Price.String())
		assert.Equal(t, time.UnixMilli(1714657200000).UTC(), got["AAPL"].UpdatedAt)
	})

	t.Run("splits large requests into batches", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			symbols := strings.Split(r.URL.Query().Get("symbols"), ",")
			assert.LessOrEqual(t, len(symbols), iexBatchMax)
			var parts []string
			for _, s := range symbols {
				parts = append(parts, fmt.Sprintf(`%q: {"quote": {"symbol": %q, "latestPrice": 1}}`, s, s))
			}
			fmt.Fprintf(w, "{%s}", strings.Join(parts, ","))
		})

		tickers := make([]string, 250)
		for i := range tickers {
			tickers[i] = fmt.Sprintf("T%03d", i)
		}
		got, err := c.LatestPrices(context.Background(), tickers)
		require.NoError(t, err)
		assert.Len(t, got, 250)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("http error becomes fetch error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			fmt.Fprint(w, "You have exceeded your allotted message quota.")
		})

		_, err := c.LatestPrices(context.Background(), []string{"AAPL"})
		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "Payment Required", fe.Reason)
		assert.Equal(t, "You have exceeded your allotted message quota.", fe.ProviderMessage)
		assert.Equal(t, http.StatusPaymentRequired, fe.StatusCode)
	})

	t.Run("malformed payload becomes fetch error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"AAPL": [`)
		})

		_, err := c.LatestPrices(context.Background(), []string{"AAPL"})
		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "malformed payload", fe.Reason)
	})

	t.Run("cancelled context becomes fetch error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{}`)
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.LatestPrices(ctx, []string{"AAPL"})
		var fe *FetchError
		require.ErrorAs(t, err, &fe)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestIEXClient_LatestPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/stock/AAPL/quote/latestPrice":
			fmt.Fprint(w, "187.25")
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, "Unknown symbol")
		}
	})

	price, err := c.LatestPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "187.25", price.String())

	_, err = c.LatestPrice(context.Background(), "NOPE")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Not Found", fe.Reason)
}

func TestIEXClient_Chart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/stock/AAPL/batch", r.URL.Path)
		assert.Equal(t, "chart", q.Get("types"))
		assert.Equal(t, "6m", q.Get("range"))
		assert.Equal(t, "true", q.Get("chartCloseOnly"))
		assert.Equal(t, "date,close", q.Get("filter"))
		fmt.Fprint(w, `{"chart": [{"date": "2024-05-01", "close": 169.3}, {"date": "2024-05-02", "close": 173.03}]}`)
	})

	chart, err := c.Chart(context.Background(), "AAPL", DefaultChartOptions())
	require.NoError(t, err)
	require.Len(t, chart, 2)
	assert.Equal(t, "2024-05-02", chart[1].Date)
	assert.Equal(t, "173.03", chart[1].Close.String())
}

func TestIEXClient_CircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 5; i++ {
		_, err := c.LatestPrices(context.Background(), []string{"AAPL"})
		require.Error(t, err)
	}
	_, err := c.LatestPrices(context.Background(), []string{"AAPL"})
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "provider unavailable", fe.Reason)
	assert.Equal(t, int32(5), calls.Load())
}

func TestIEXClient_UnknownSymbolDoesNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 8; i++ {
		_, err := c.LatestPrice(context.Background(), "NOPE")
		require.Error(t, err)
	}
	assert.Equal(t, int32(8), calls.Load())
}

func TestIEXClient_CallerGivingUpDoesNotTripBreaker(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(50 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		fmt.Fprint(w, "187.25")
	})

	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		_, err := c.LatestPrice(ctx, "AAPL")
		cancel()
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.LatestPrice(ctx, "AAPL")
		require.Error(t, err)
	}

	price, err := c.LatestPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "187.25", price.String())
}

func TestIEXClient_SlowProviderTripsBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(50 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		fmt.Fprint(w, "187.25")
	}))
	t.Cleanup(srv.Close)
	c := NewIEXClient(IEXConfig{BaseURL: srv.URL, Keys: NewKeyPool("k1"), Timeout: 5 * time.Millisecond}, nil)

	for i := 0; i < 5; i++ {
		_, err := c.LatestPrice(context.Background(), "AAPL")
		require.Error(t, err)
	}
	_, err := c.LatestPrice(context.Background(), "AAPL")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "provider unavailable", fe.Reason)
}

func TestKeyPool(t *testing.T) {
	assert.Equal(t, "", NewKeyPool().Pick())
	assert.Equal(t, "", (*KeyPool)(nil).Pick())

	p := NewKeyPool("a", "", "b", "c")
	assert.Equal(t, 3, p.Len())
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[p.Pick()] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, seen)
}
