package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/scrapstack/hardware-prices-backend/internal/handlers"
	"github.com/scrapstack/hardware-prices-backend/internal/logger"
	"github.com/scrapstack/hardware-prices-backend/internal/services"
	"github.com/scrapstack/hardware-prices-backend/internal/types"
)

type staticCatalog struct {
	obs []types.PriceObservation
}

func (s staticCatalog) FetchAll(ctx context.Context) []types.PriceObservation {
	return s.obs
}

// fourRowCatalog: product "1" twice at Store 1 (100 then 90) plus once at
// Store 2 (95), product "2" once at Store 1 (200).
func fourRowCatalog() []types.PriceObservation {
	return []types.PriceObservation{
		{ProductID: "1", ProductName: "GPU A", Price: 100, Store: "Store 1", Date: "2023-01-01", Link: "https://s1/gpu-a"},
		{ProductID: "1", ProductName: "GPU A", Price: 90, Store: "Store 1", Date: "2023-01-02", Link: "https://s1/gpu-a"},
		{ProductID: "1", ProductName: "GPU A", Price: 95, Store: "Store 2", Date: "2023-01-02", Link: "https://s2/gpu-a"},
		{ProductID: "2", ProductName: "CPU B", Price: 200, Store: "Store 1", Date: "2023-01-01", Link: "https://s1/cpu-b"},
	}
}

func newTestServer(t *testing.T, obs []types.PriceObservation) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	cat := staticCatalog{obs: obs}
	router := NewRouter(RouterConfig{
		ProductHandler:   handlers.NewProductHandler(log, services.NewProductService(cat, log)),
		AnalyticsHandler: handlers.NewAnalyticsHandler(log, services.NewAnalyticsService(cat, log)),
	})

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func getJSON[T any](t *testing.T, ts *httptest.Server, path string, wantStatus int) T {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("get %s: status %d, want %d", path, resp.StatusCode, wantStatus)
	}
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return out
}

func TestListAndCount(t *testing.T) {
	ts := newTestServer(t, fourRowCatalog())

	products := getJSON[[]handlers.Product](t, ts, "/products/", http.StatusOK)
	if len(products) != 4 {
		t.Fatalf("expected 4 raw products, got %d", len(products))
	}
	if products[0].ProductID != "1" || products[0].PriceCurrent != 100 {
		t.Fatalf("unexpected first product: %+v", products[0])
	}

	paged := getJSON[[]handlers.Product](t, ts, "/products/?skip=3&limit=10", http.StatusOK)
	if len(paged) != 1 || paged[0].ProductName != "CPU B" {
		t.Fatalf("offset pagination broken: %+v", paged)
	}

	count := getJSON[handlers.ProductCount](t, ts, "/products/count", http.StatusOK)
	if count.TotalProducts != 4 {
		t.Fatalf("expected total_products 4, got %d", count.TotalProducts)
	}
}

func TestSearchEndpoint(t *testing.T) {
	ts := newTestServer(t, fourRowCatalog())

	res := getJSON[handlers.SearchResponse](t, ts, "/products/search?q=gpu", http.StatusOK)
	if res.TotalResults != 1 || res.TotalPages != 1 || res.CurrentPage != 1 || res.Limit != 20 {
		t.Fatalf("unexpected envelope: %+v", res)
	}
	if len(res.Data) != 1 || res.Data[0].ProductName != "GPU A" || res.Data[0].PriceCurrent != 90 {
		t.Fatalf("search should surface the cheapest GPU A, got %+v", res.Data)
	}
}

func TestSearchRejectsBadLimit(t *testing.T) {
	ts := newTestServer(t, fourRowCatalog())

	for _, path := range []string{
		"/products/search?limit=0",
		"/products/search?limit=-3",
		"/products/search?limit=abc",
		"/products/search?limit=500",
	} {
		body := getJSON[handlers.ErrorEnvelope](t, ts, path, http.StatusBadRequest)
		if body.Error.Code != "invalid_limit" {
			t.Fatalf("%s: expected invalid_limit, got %+v", path, body)
		}
	}
}

func TestHistoryEndpoint(t *testing.T) {
	ts := newTestServer(t, fourRowCatalog())

	hist := getJSON[types.ProductHistory](t, ts, "/products/1/history", http.StatusOK)
	if hist.ProductID != "1" || hist.ProductName != "GPU A" {
		t.Fatalf("unexpected identity: %+v", hist)
	}
	if len(hist.History) != 3 || hist.History[0].Date != "2023-01-01" {
		t.Fatalf("history not ascending by date: %+v", hist.History)
	}

	getJSON[handlers.ErrorEnvelope](t, ts, "/products/nonexistent/history", http.StatusNotFound)
}

func TestCompareEndpoint(t *testing.T) {
	ts := newTestServer(t, fourRowCatalog())

	cmp := getJSON[types.ProductComparison](t, ts, "/products/1/compare", http.StatusOK)
	if len(cmp.Comparison) != 2 {
		t.Fatalf("expected 2 store entries, got %+v", cmp.Comparison)
	}
	prices := map[string]int{}
	for _, offer := range cmp.Comparison {
		prices[offer.Store] = offer.Price
	}
	if prices["Store 1"] != 90 || prices["Store 2"] != 95 {
		t.Fatalf("unexpected latest-per-store prices: %+v", prices)
	}

	getJSON[handlers.ErrorEnvelope](t, ts, "/products/nonexistent/compare", http.StatusNotFound)
}

func TestStatsEndpoint(t *testing.T) {
	ts := newTestServer(t, fourRowCatalog())

	stats := getJSON[types.GlobalStats](t, ts, "/products/stats", http.StatusOK)
	if len(stats.BestPrices) != 2 {
		t.Fatalf("expected 2 best-price entries, got %+v", stats.BestPrices)
	}
	if stats.BestPrices[0].ProductName != "GPU A" || stats.BestPrices[0].MinPrice != 90 || stats.BestPrices[0].Store != "Store 1" {
		t.Fatalf("expected GPU A @ 90 from Store 1, got %+v", stats.BestPrices[0])
	}
}

func TestHealthAndWelcome(t *testing.T) {
	ts := newTestServer(t, nil)

	health := getJSON[map[string]string](t, ts, "/healthcheck", http.StatusOK)
	if health["status"] != "ok" {
		t.Fatalf("unexpected healthcheck body: %+v", health)
	}
	welcome := getJSON[map[string]string](t, ts, "/", http.StatusOK)
	if welcome["message"] == "" {
		t.Fatalf("expected welcome message, got %+v", welcome)
	}
}
