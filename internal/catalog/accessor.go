// Package catalog owns the only mutable state in the read path: a cached
// snapshot of the full observation set with a fixed freshness window.
package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/scrapstack/hardware-prices-backend/internal/logger"
	"github.com/scrapstack/hardware-prices-backend/internal/source"
	"github.com/scrapstack/hardware-prices-backend/internal/types"
)

const (
	DefaultTTL          = 600 * time.Second
	DefaultFetchTimeout = 30 * time.Second
)

// Accessor produces the current complete observation set. Fetch failures are
// absorbed: callers get the previous snapshot if one exists, otherwise an
// empty set. The returned slice is a shared snapshot and must not be mutated.
type Accessor interface {
	FetchAll(ctx context.Context) []types.PriceObservation
}

type accessor struct {
	src          source.RecordSource
	ttl          time.Duration
	fetchTimeout time.Duration
	log          *logger.Logger
	group        singleflight.Group

	mu       sync.RWMutex
	snapshot []types.PriceObservation
	expires  time.Time
	primed   bool

	now func() time.Time
}

func New(src source.RecordSource, ttl, fetchTimeout time.Duration, baseLog *logger.Logger) Accessor {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &accessor{
		src:          src,
		ttl:          ttl,
		fetchTimeout: fetchTimeout,
		log:          baseLog.With("service", "CatalogAccessor"),
		now:          time.Now,
	}
}

func (a *accessor) FetchAll(ctx context.Context) []types.PriceObservation {
	if snap, ok := a.fresh(); ok {
		return snap
	}
	// Concurrent callers on an expired cache share one refresh.
	v, _, _ := a.group.Do("catalog", func() (any, error) {
		if snap, ok := a.fresh(); ok {
			return snap, nil
		}
		return a.refresh(ctx), nil
	})
	return v.([]types.PriceObservation)
}

func (a *accessor) fresh() ([]types.PriceObservation, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.primed && a.now().Before(a.expires) {
		return a.snapshot, true
	}
	return nil, false
}

// refresh fetches and atomically swaps the snapshot. On failure the expiry
// stamp is left untouched so the next call retries, while callers are served
// whatever snapshot exists.
func (a *accessor) refresh(ctx context.Context) []types.PriceObservation {
	fctx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()

	records, err := a.src.FetchRecords(fctx)
	if err != nil {
		a.log.Warn("Catalog refresh failed, serving previous snapshot", "error", err)
		a.mu.RLock()
		defer a.mu.RUnlock()
		if a.primed {
			return a.snapshot
		}
		return []types.PriceObservation{}
	}
	if records == nil {
		records = []types.PriceObservation{}
	}

	a.mu.Lock()
	a.snapshot = records
	a.expires = a.now().Add(a.ttl)
	a.primed = true
	a.mu.Unlock()

	a.log.Debug("Catalog snapshot refreshed", "count", len(records), "ttl", a.ttl)
	return records
}
