// Package source holds the backing store adapters that feed the catalog.
// The scraper owns the write side; these adapters only read and hand every
// record through the normalize boundary.
package source

import (
	"context"

	"github.com/scrapstack/hardware-prices-backend/internal/types"
)

// RecordSource fetches the current complete set of observations from a
// backing store. Implementations normalize at their own boundary so callers
// never see raw rows or documents.
type RecordSource interface {
	FetchRecords(ctx context.Context) ([]types.PriceObservation, error)
}
