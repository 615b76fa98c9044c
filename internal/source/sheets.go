package source

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/scrapstack/hardware-prices-backend/internal/logger"
	"github.com/scrapstack/hardware-prices-backend/internal/normalize"
	"github.com/scrapstack/hardware-prices-backend/internal/types"
)

// SheetsSource reads the scraper's spreadsheet. The first row of the range is
// the header; every following row becomes one observation.
type SheetsSource struct {
	svc           *sheets.Service
	spreadsheetID string
	readRange     string
	log           *logger.Logger
}

func NewSheetsSource(ctx context.Context, baseLog *logger.Logger, spreadsheetID, readRange, credentialsFile string) (*SheetsSource, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, fmt.Errorf("missing spreadsheet id")
	}
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsReadonlyScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}
	if readRange == "" {
		readRange = "Sheet1"
	}
	return &SheetsSource{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		log:           baseLog.With("source", "SheetsSource"),
	}, nil
}

func (s *SheetsSource) FetchRecords(ctx context.Context) ([]types.PriceObservation, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet values: %w", err)
	}
	if len(resp.Values) < 2 {
		// Header only, or nothing at all.
		return []types.PriceObservation{}, nil
	}

	header := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		header = append(header, fmt.Sprint(cell))
	}

	out := make([]types.PriceObservation, 0, len(resp.Values)-1)
	invalid := 0
	for _, row := range resp.Values[1:] {
		obs := normalize.FromRow(header, row)
		if obs.Price == 0 {
			invalid++
		}
		out = append(out, obs)
	}
	if invalid > 0 {
		s.log.Warn("Rows with missing or unparseable price", "count", invalid, "total", len(out))
	}
	s.log.Debug("Fetched sheet rows", "count", len(out))
	return out, nil
}
