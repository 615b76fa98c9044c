package services

import (
	"context"
	"sort"
	"strings"

	"github.com/scrapstack/hardware-prices-backend/internal/catalog"
	"github.com/scrapstack/hardware-prices-backend/internal/logger"
	"github.com/scrapstack/hardware-prices-backend/internal/types"
)

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
	SortDateDesc  = "date_desc"
)

// SearchCriteria are the optional filters plus pagination for a catalog
// search. Nil pointer means "no constraint".
type SearchCriteria struct {
	Query    string
	MinPrice *int
	MaxPrice *int
	Store    string
	SortBy   string
	Page     int
	Limit    int
}

// SearchResult is a single page of deduplicated observations with totals
// computed over the whole filtered set.
type SearchResult struct {
	TotalResults int
	TotalPages   int
	CurrentPage  int
	Limit        int
	Data         []types.PriceObservation
}

type ProductService interface {
	// List pages over the raw catalog without filtering or deduplication.
	List(ctx context.Context, skip, limit int) []types.PriceObservation
	Count(ctx context.Context) int
	Search(ctx context.Context, criteria SearchCriteria) (*SearchResult, error)
}

type productService struct {
	catalog catalog.Accessor
	log     *logger.Logger
}

func NewProductService(cat catalog.Accessor, baseLog *logger.Logger) ProductService {
	return &productService{
		catalog: cat,
		log:     baseLog.With("service", "ProductService"),
	}
}

func (ps *productService) List(ctx context.Context, skip, limit int) []types.PriceObservation {
	all := ps.catalog.FetchAll(ctx)
	if skip < 0 {
		skip = 0
	}
	if skip >= len(all) {
		return []types.PriceObservation{}
	}
	end := len(all)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return all[skip:end]
}

func (ps *productService) Count(ctx context.Context) int {
	return len(ps.catalog.FetchAll(ctx))
}

// Search runs the fixed filter -> sort -> dedup -> paginate pipeline. The
// sort happens before deduplication on purpose: the ordering decides which
// observation survives per product name, so with the default ascending price
// sort the deduplicated entry is the cheapest offer.
func (ps *productService) Search(ctx context.Context, criteria SearchCriteria) (*SearchResult, error) {
	if criteria.Limit <= 0 {
		return nil, ErrInvalidLimit
	}
	page := criteria.Page
	if page <= 0 {
		page = 1
	}

	matched := filterObservations(ps.catalog.FetchAll(ctx), criteria)
	sortObservations(matched, criteria.SortBy)
	deduped := dedupeByName(matched)

	total := len(deduped)
	totalPages := 0
	if total > 0 {
		totalPages = (total + criteria.Limit - 1) / criteria.Limit
	}

	data := []types.PriceObservation{}
	start := (page - 1) * criteria.Limit
	if start < total {
		end := start + criteria.Limit
		if end > total {
			end = total
		}
		data = deduped[start:end]
	}

	return &SearchResult{
		TotalResults: total,
		TotalPages:   totalPages,
		CurrentPage:  page,
		Limit:        criteria.Limit,
		Data:         data,
	}, nil
}

// filterObservations always returns a fresh slice so the shared catalog
// snapshot is never reordered by the sort that follows.
func filterObservations(all []types.PriceObservation, criteria SearchCriteria) []types.PriceObservation {
	query := strings.ToLower(strings.TrimSpace(criteria.Query))
	store := strings.TrimSpace(criteria.Store)

	out := make([]types.PriceObservation, 0, len(all))
	for _, obs := range all {
		if query != "" && !strings.Contains(strings.ToLower(obs.ProductName), query) {
			continue
		}
		if store != "" && !strings.EqualFold(obs.Store, store) {
			continue
		}
		if criteria.MinPrice != nil && obs.Price < *criteria.MinPrice {
			continue
		}
		if criteria.MaxPrice != nil && obs.Price > *criteria.MaxPrice {
			continue
		}
		out = append(out, obs)
	}
	return out
}

// sortObservations is stable: ties keep catalog order, which determines the
// dedup winner among equal keys.
func sortObservations(obs []types.PriceObservation, sortBy string) {
	switch sortBy {
	case SortPriceDesc:
		sort.SliceStable(obs, func(i, j int) bool { return obs[i].Price > obs[j].Price })
	case SortNewest, SortDateDesc:
		sort.SliceStable(obs, func(i, j int) bool { return obs[i].Date > obs[j].Date })
	default:
		sort.SliceStable(obs, func(i, j int) bool { return obs[i].Price < obs[j].Price })
	}
}

func dedupeByName(obs []types.PriceObservation) []types.PriceObservation {
	seen := make(map[string]struct{}, len(obs))
	out := make([]types.PriceObservation, 0, len(obs))
	for _, o := range obs {
		if _, ok := seen[o.ProductName]; ok {
			continue
		}
		seen[o.ProductName] = struct{}{}
		out = append(out, o)
	}
	return out
}
