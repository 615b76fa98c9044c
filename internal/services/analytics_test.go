package services

import (
	"context"
	"errors"
	"testing"

	"github.com/scrapstack/hardware-prices-backend/internal/logger"
	"github.com/scrapstack/hardware-prices-backend/internal/types"
)

// fourRowFixture is the two-product catalog: product "1" observed twice at
// Store 1 and once at Store 2, product "2" once at Store 1.
func fourRowFixture() []types.PriceObservation {
	return []types.PriceObservation{
		{ProductID: "1", ProductName: "GPU A", Price: 100, Store: "Store 1", Date: "2023-01-01", Link: "https://s1/gpu-a"},
		{ProductID: "1", ProductName: "GPU A", Price: 90, Store: "Store 1", Date: "2023-01-02", Link: "https://s1/gpu-a"},
		{ProductID: "1", ProductName: "GPU A", Price: 95, Store: "Store 2", Date: "2023-01-02", Link: "https://s2/gpu-a"},
		{ProductID: "2", ProductName: "CPU B", Price: 200, Store: "Store 1", Date: "2023-01-01", Link: "https://s1/cpu-b"},
	}
}

func newAnalyticsService(obs []types.PriceObservation) AnalyticsService {
	return NewAnalyticsService(staticCatalog{obs: obs}, logger.NewNop())
}

func TestHistoryOrdersByDateAscending(t *testing.T) {
	svc := newAnalyticsService([]types.PriceObservation{
		{ProductID: "1", ProductName: "GPU A", Price: 90, Store: "Store 1", Date: "2023-01-02"},
		{ProductID: "1", ProductName: "GPU A", Price: 100, Store: "Store 1", Date: "2023-01-01"},
	})

	hist, err := svc.History(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hist.ProductName != "GPU A" {
		t.Fatalf("expected representative name GPU A, got %q", hist.ProductName)
	}
	if len(hist.History) != 2 {
		t.Fatalf("expected 2 points, got %d", len(hist.History))
	}
	if hist.History[0].Date != "2023-01-01" || hist.History[1].Date != "2023-01-02" {
		t.Fatalf("history not ascending by date: %+v", hist.History)
	}
}

func TestHistoryKeepsRepeatedStores(t *testing.T) {
	svc := newAnalyticsService(fourRowFixture())

	hist, err := svc.History(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hist.History) != 3 {
		t.Fatalf("history must not deduplicate by store, got %d points", len(hist.History))
	}
}

func TestHistoryAbsentDateSortsFirst(t *testing.T) {
	svc := newAnalyticsService([]types.PriceObservation{
		{ProductID: "1", ProductName: "GPU A", Price: 90, Store: "Store 1", Date: "2023-01-02"},
		{ProductID: "1", ProductName: "GPU A", Price: 100, Store: "Store 1", Date: ""},
	})

	hist, err := svc.History(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hist.History[0].Date != "" {
		t.Fatalf("empty date should sort first ascending, got %+v", hist.History)
	}
}

func TestComparisonKeepsLatestPerStore(t *testing.T) {
	svc := newAnalyticsService(fourRowFixture())

	cmp, err := svc.Comparison(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmp.Comparison) != 2 {
		t.Fatalf("expected one entry per store, got %+v", cmp.Comparison)
	}
	byStore := map[string]types.StoreOffer{}
	for _, offer := range cmp.Comparison {
		byStore[offer.Store] = offer
	}
	if byStore["Store 1"].Price != 90 {
		t.Fatalf("Store 1 should keep the 2023-01-02 observation, got %+v", byStore["Store 1"])
	}
	if byStore["Store 2"].Price != 95 || byStore["Store 2"].Link != "https://s2/gpu-a" {
		t.Fatalf("unexpected Store 2 offer: %+v", byStore["Store 2"])
	}
}

func TestComparisonEqualDatesKeepEarlier(t *testing.T) {
	svc := newAnalyticsService([]types.PriceObservation{
		{ProductID: "1", ProductName: "GPU A", Price: 100, Store: "A", Date: "2023-01-01"},
		{ProductID: "1", ProductName: "GPU A", Price: 80, Store: "A", Date: "2023-01-01"},
	})

	cmp, err := svc.Comparison(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmp.Comparison) != 1 || cmp.Comparison[0].Price != 100 {
		t.Fatalf("equal dates must not replace the kept entry, got %+v", cmp.Comparison)
	}
}

func TestHistoryAndComparisonNotFound(t *testing.T) {
	svc := newAnalyticsService(fourRowFixture())

	if _, err := svc.History(context.Background(), "nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("history: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Comparison(context.Background(), "nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("comparison: expected ErrNotFound, got %v", err)
	}
}

func TestGlobalStatsBestPricePerName(t *testing.T) {
	svc := newAnalyticsService(fourRowFixture())

	stats, err := svc.GlobalStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats.BestPrices) != 2 {
		t.Fatalf("expected one entry per product name, got %+v", stats.BestPrices)
	}
	if stats.BestPrices[0].ProductName != "GPU A" || stats.BestPrices[0].MinPrice != 90 || stats.BestPrices[0].Store != "Store 1" {
		t.Fatalf("expected GPU A @ 90 from Store 1 first, got %+v", stats.BestPrices[0])
	}
	if stats.BestPrices[1].ProductName != "CPU B" || stats.BestPrices[1].MinPrice != 200 {
		t.Fatalf("unexpected second entry: %+v", stats.BestPrices[1])
	}
}

func TestGlobalStatsSkipsInvalidPrices(t *testing.T) {
	svc := newAnalyticsService([]types.PriceObservation{
		{ProductID: "1", ProductName: "GPU A", Price: 0, Store: "Store 1", Date: "2023-01-01"},
		{ProductID: "1", ProductName: "GPU A", Price: 120, Store: "Store 2", Date: "2023-01-01"},
		{ProductID: "9", ProductName: "Vapor X", Price: 0, Store: "Store 1", Date: "2023-01-01"},
	})

	stats, err := svc.GlobalStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats.BestPrices) != 1 {
		t.Fatalf("all-invalid groups must be dropped, got %+v", stats.BestPrices)
	}
	if stats.BestPrices[0].MinPrice != 120 {
		t.Fatalf("sentinel prices must not win a group, got %+v", stats.BestPrices[0])
	}
}

func TestGlobalStatsCapsAtTen(t *testing.T) {
	obs := make([]types.PriceObservation, 0, 15)
	for i := 0; i < 15; i++ {
		obs = append(obs, types.PriceObservation{
			ProductID:   string(rune('a' + i)),
			ProductName: "Product " + string(rune('A'+i)),
			Price:       1000 - i,
			Store:       "Store 1",
		})
	}
	svc := newAnalyticsService(obs)

	stats, err := svc.GlobalStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats.BestPrices) != 10 {
		t.Fatalf("expected top 10, got %d", len(stats.BestPrices))
	}
	for i := 1; i < len(stats.BestPrices); i++ {
		if stats.BestPrices[i-1].MinPrice > stats.BestPrices[i].MinPrice {
			t.Fatalf("best prices not ascending: %+v", stats.BestPrices)
		}
	}
}

func TestGlobalStatsEmptyCatalog(t *testing.T) {
	svc := newAnalyticsService(nil)

	stats, err := svc.GlobalStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.BestPrices == nil || len(stats.BestPrices) != 0 {
		t.Fatalf("empty catalog should yield an empty list, got %#v", stats.BestPrices)
	}
}
