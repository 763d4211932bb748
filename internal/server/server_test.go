package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"folio/internal/config"
	"folio/internal/logger"
	"folio/internal/quotes"
	"folio/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

type testApp struct {
	router     *gin.Engine
	chartCalls *atomic.Int32
	failQuotes *atomic.Bool
}

// fakeIEX serves the batch quote and chart endpoints.
func fakeIEX(t *testing.T, chartCalls *atomic.Int32, failQuotes *atomic.Bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/stock/market/batch", func(w http.ResponseWriter, r *http.Request) {
		if failQuotes.Load() {
			http.Error(w, "You have exceeded your allotted message quota.", http.StatusPaymentRequired)
			return
		}
		out := map[string]interface{}{}
		for _, sym := range strings.Split(r.URL.Query().Get("symbols"), ",") {
			out[sym] = map[string]interface{}{
				"quote": map[string]interface{}{"symbol": sym, "latestPrice": 20, "latestUpdate": 1714579200000},
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/stock/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/quote/latestPrice"):
			if strings.Contains(r.URL.Path, "NOPE") {
				http.Error(w, "Unknown symbol", http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte("187.25"))
		case strings.HasSuffix(r.URL.Path, "/batch"):
			chartCalls.Add(1)
			_, _ = w.Write([]byte(`{"chart":[{"date":"2024-04-30","close":19.5},{"date":"2024-05-01","close":20}]}`))
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	chartCalls := &atomic.Int32{}
	failQuotes := &atomic.Bool{}
	iex := fakeIEX(t, chartCalls, failQuotes)

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "integration-secret",
		JWTExpirationDur:   time.Hour,
		ChartTTL:           30 * time.Minute,
		ChartRange:         "6m",
		RefreshConcurrency: 2,
		ServiceAPIKey:      "operator-key",
	}
	provider := quotes.NewIEXClient(quotes.IEXConfig{BaseURL: iex.URL, Keys: quotes.NewKeyPool("pk_test")}, iex.Client())

	return &testApp{
		router:     NewRouter(cfg, NewServices(cfg, db, provider)),
		chartCalls: chartCalls,
		failQuotes: failQuotes,
	}
}

func (a *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) registerAndLogin(t *testing.T, username string) string {
	t.Helper()
	creds := fmt.Sprintf(`{"username":%q,"password":"secret1"}`, username)

	rec := a.request("POST", "/api/users", creds, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = a.request("POST", "/api/login", creds, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error body, got %s", rec.Body.String())
	}
	return errObj["code"].(string)
}

func TestPortfolioFlow(t *testing.T) {
	app := setupApp(t)
	token := app.registerAndLogin(t, "alice")

	rec := app.request("GET", "/api/portfolio", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get portfolio: %d %s", rec.Code, rec.Body.String())
	}
	if got := parseJSON(t, rec)["cash"].(float64); got != 0 {
		t.Errorf("expected empty cash, got %v", got)
	}

	rec = app.request("POST", "/api/portfolio/cash", `{"cash":1000}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("deposit: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/portfolio/asset", `{"ticker":"AAA","shares":5,"price":10,"useCash":true,"targetWeight":0.5}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("buy: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", "/api/portfolio/asset", `{"ticker":"AAA","shares":5,"price":20,"useCash":true}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("second buy: %d %s", rec.Code, rec.Body.String())
	}
	body := parseJSON(t, rec)
	if body["cash"].(float64) != 850 {
		t.Errorf("expected cash 850, got %v", body["cash"])
	}
	stock := body["stocks"].([]interface{})[0].(map[string]interface{})
	if stock["shares"].(float64) != 10 || stock["costBasis"].(float64) != 15 {
		t.Errorf("expected 10 shares at basis 15, got %v", stock)
	}

	rec = app.request("POST", "/api/portfolio/asset", `{"ticker":"BBB","shares":1,"price":5000,"useCash":true}`, token)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "INSUFFICIENT_CASH" {
		t.Errorf("expected insufficient cash, got %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/portfolio/sell", `{"ticker":"ZZZ","shares":1,"price":1}`, token)
	if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != "NOT_OWNED" {
		t.Errorf("expected not owned, got %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/portfolio/update", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("reprice: %d %s", rec.Code, rec.Body.String())
	}
	body = parseJSON(t, rec)
	if body["lastUpdate"] == nil {
		t.Error("expected lastUpdate after reprice")
	}
	stock = body["stocks"].([]interface{})[0].(map[string]interface{})
	if stock["price"].(float64) != 20 || stock["currentWeight"].(float64) != 1 {
		t.Errorf("expected price 20 and full weight, got %v", stock)
	}

	rec = app.request("GET", "/api/portfolio/drift", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("drift: %d %s", rec.Code, rec.Body.String())
	}
	if positions := parseJSON(t, rec)["positions"].([]interface{}); len(positions) != 1 {
		t.Errorf("expected AAA to drift past 5 points, got %v", positions)
	}

	for i := 0; i < 2; i++ {
		rec = app.request("POST", "/api/portfolio/chart", `{"ticker":"AAA"}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("chart: %d %s", rec.Code, rec.Body.String())
		}
	}
	if n := app.chartCalls.Load(); n != 1 {
		t.Errorf("expected cached chart on second request, got %d provider calls", n)
	}

	rec = app.request("POST", "/api/portfolio/chart", `{"ticker":"BBB"}`, token)
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "STOCK_NOT_HELD" {
		t.Errorf("expected not held, got %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/portfolio/price", `{"ticker":"MSFT"}`, token)
	if rec.Code != http.StatusOK || parseJSON(t, rec)["latestPrice"].(float64) != 187.25 {
		t.Errorf("expected price 187.25, got %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", "/api/portfolio/price", `{"ticker":"NOPE"}`, token)
	if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != "STOCK_NOT_FOUND" {
		t.Errorf("expected stock not found, got %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/portfolio/sell", `{"ticker":"AAA","shares":10,"price":20,"useCash":true}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("sell: %d %s", rec.Code, rec.Body.String())
	}
	body = parseJSON(t, rec)
	if len(body["stocks"].([]interface{})) != 0 || body["cash"].(float64) != 1050 {
		t.Errorf("expected empty holdings and cash 1050, got %v", body)
	}

	rec = app.request("GET", "/api/portfolio/activity?pageSize=2", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("activity: %d %s", rec.Code, rec.Body.String())
	}
	activity := parseJSON(t, rec)
	if activity["total"].(float64) < 5 || activity["hasMore"] != true {
		t.Errorf("expected recorded activity, got %v", activity)
	}
}

func TestRepriceFailureLeavesPortfolio(t *testing.T) {
	app := setupApp(t)
	token := app.registerAndLogin(t, "bobby")

	rec := app.request("POST", "/api/portfolio/asset", `{"ticker":"AAA","shares":2,"price":10}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("buy: %d %s", rec.Code, rec.Body.String())
	}

	app.failQuotes.Store(true)
	rec = app.request("POST", "/api/portfolio/update", "", token)
	if rec.Code != http.StatusUnauthorized || errorCode(t, rec) != "PROVIDER_FETCH_FAILED" {
		t.Fatalf("expected provider failure, got %d %s", rec.Code, rec.Body.String())
	}
	if msg := parseJSON(t, rec)["error"].(map[string]interface{})["message"]; msg != "Payment Required" {
		t.Errorf("expected provider status text, got %v", msg)
	}

	rec = app.request("GET", "/api/portfolio", "", token)
	body := parseJSON(t, rec)
	stock := body["stocks"].([]interface{})[0].(map[string]interface{})
	if stock["price"].(float64) != 10 || body["lastUpdate"] != nil {
		t.Errorf("expected untouched snapshot, got %v", body)
	}
}

func TestUniformInvalidToken(t *testing.T) {
	app := setupApp(t)

	for _, token := range []string{"", "garbage", "eyJhbGciOiJIUzI1NiJ9.e30.x"} {
		rec := app.request("GET", "/api/portfolio", "", token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %q, got %d", token, rec.Code)
		}
		if rec.Body.String() != `{"error":{"code":"INVALID_TOKEN","message":"invalid token"}}` {
			t.Errorf("unexpected body for %q: %s", token, rec.Body.String())
		}
	}
}

func TestOperatorRefresh(t *testing.T) {
	app := setupApp(t)
	token := app.registerAndLogin(t, "carol")
	app.request("POST", "/api/portfolio/asset", `{"ticker":"AAA","shares":1,"price":10}`, token)
	app.registerAndLogin(t, "dave")

	req := httptest.NewRequest("POST", "/api/internal/refresh", http.NoBody)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", rec.Code)
	}

	req = httptest.NewRequest("POST", "/api/internal/refresh", http.NoBody)
	req.Header.Set("X-API-Key", "operator-key")
	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["usersScanned"].(float64) != 1 || result["repriced"].(float64) != 1 {
		t.Errorf("expected only the user with holdings to be repriced, got %v", result)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/api/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}

	rec = app.request("GET", "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "folio_http_requests_total") {
		t.Errorf("expected prometheus output, got %d", rec.Code)
	}
}
