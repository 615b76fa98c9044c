package services

import (
	"context"
	"sort"

	"github.com/scrapstack/hardware-prices-backend/internal/catalog"
	"github.com/scrapstack/hardware-prices-backend/internal/logger"
	"github.com/scrapstack/hardware-prices-backend/internal/types"
)

// bestPriceLimit bounds the global stats listing.
const bestPriceLimit = 10

type AnalyticsService interface {
	History(ctx context.Context, productID string) (*types.ProductHistory, error)
	Comparison(ctx context.Context, productID string) (*types.ProductComparison, error)
	GlobalStats(ctx context.Context) (*types.GlobalStats, error)
}

type analyticsService struct {
	catalog catalog.Accessor
	log     *logger.Logger
}

func NewAnalyticsService(cat catalog.Accessor, baseLog *logger.Logger) AnalyticsService {
	return &analyticsService{
		catalog: cat,
		log:     baseLog.With("service", "AnalyticsService"),
	}
}

// History returns every observation for the product identity, ascending by
// date. The representative name is taken from the first collected
// observation, before sorting, so it is stable across date order.
func (as *analyticsService) History(ctx context.Context, productID string) (*types.ProductHistory, error) {
	collected := collectByID(as.catalog.FetchAll(ctx), productID)
	if len(collected) == 0 {
		return nil, ErrNotFound
	}
	name := collected[0].ProductName

	sort.SliceStable(collected, func(i, j int) bool { return collected[i].Date < collected[j].Date })

	points := make([]types.PricePoint, 0, len(collected))
	for _, obs := range collected {
		points = append(points, types.PricePoint{Date: obs.Date, Price: obs.Price, Store: obs.Store})
	}
	return &types.ProductHistory{ProductID: productID, ProductName: name, History: points}, nil
}

// Comparison keeps the latest observation per distinct store, comparing date
// strings lexicographically in a single scan. A strictly later date replaces
// the kept entry; equal dates keep the earlier one. Not true chronological
// comparison for malformed dates, which matches how the scraper stamps them.
func (as *analyticsService) Comparison(ctx context.Context, productID string) (*types.ProductComparison, error) {
	collected := collectByID(as.catalog.FetchAll(ctx), productID)
	if len(collected) == 0 {
		return nil, ErrNotFound
	}
	name := collected[0].ProductName

	latest := make(map[string]types.PriceObservation, len(collected))
	storeOrder := make([]string, 0, len(collected))
	for _, obs := range collected {
		cur, ok := latest[obs.Store]
		if !ok {
			storeOrder = append(storeOrder, obs.Store)
			latest[obs.Store] = obs
			continue
		}
		if obs.Date > cur.Date {
			latest[obs.Store] = obs
		}
	}

	offers := make([]types.StoreOffer, 0, len(storeOrder))
	for _, store := range storeOrder {
		obs := latest[store]
		offers = append(offers, types.StoreOffer{Store: store, Price: obs.Price, Link: obs.Link})
	}
	return &types.ProductComparison{ProductID: productID, ProductName: name, Comparison: offers}, nil
}

// GlobalStats groups the whole catalog by product name and emits the
// cheapest valid offer per group, ascending by price, capped at ten entries.
// Observations with the invalid-price sentinel 0 never win a group.
func (as *analyticsService) GlobalStats(ctx context.Context) (*types.GlobalStats, error) {
	all := as.catalog.FetchAll(ctx)

	cheapest := make(map[string]types.PriceObservation, len(all))
	nameOrder := make([]string, 0, len(all))
	for _, obs := range all {
		if obs.Price == 0 {
			continue
		}
		cur, ok := cheapest[obs.ProductName]
		if !ok {
			nameOrder = append(nameOrder, obs.ProductName)
			cheapest[obs.ProductName] = obs
			continue
		}
		if obs.Price < cur.Price {
			cheapest[obs.ProductName] = obs
		}
	}

	best := make([]types.BestPrice, 0, len(nameOrder))
	for _, name := range nameOrder {
		obs := cheapest[name]
		best = append(best, types.BestPrice{ProductName: name, MinPrice: obs.Price, Store: obs.Store})
	}
	sort.SliceStable(best, func(i, j int) bool { return best[i].MinPrice < best[j].MinPrice })
	if len(best) > bestPriceLimit {
		best = best[:bestPriceLimit]
	}
	return &types.GlobalStats{BestPrices: best}, nil
}

func collectByID(all []types.PriceObservation, productID string) []types.PriceObservation {
	out := make([]types.PriceObservation, 0, 4)
	for _, obs := range all {
		if obs.ProductID == productID {
			out = append(out, obs)
		}
	}
	return out
}
