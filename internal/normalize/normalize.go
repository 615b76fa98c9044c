// Package normalize is the strict boundary between raw scraped records and
// the rest of the system. Both backing stores (spreadsheet rows, database
// documents) funnel through here and come out as types.PriceObservation.
// Every function is total: malformed input degrades to zero values, never to
// an error.
package normalize

import (
	"strconv"
	"strings"

	"github.com/scrapstack/hardware-prices-backend/internal/types"
)

// priceStrip removes currency symbols, thousands separators and whitespace
// from a textual price. The scraped stores write prices like "$ 1.234.990".
var priceStrip = strings.NewReplacer("$", "", ".", "", ",", "", " ", "", " ", "")

// ParsePrice coerces any raw price value to a smallest-whole-unit integer.
// Numeric inputs pass through, floats truncate toward zero, strings are
// stripped of "$", ".", "," and spaces before conversion. Anything else,
// including negative amounts, collapses to the invalid-price sentinel 0.
func ParsePrice(v any) int {
	var n int
	switch t := v.(type) {
	case nil:
		return 0
	case int:
		n = t
	case int32:
		n = int(t)
	case int64:
		n = int(t)
	case float32:
		n = int(t)
	case float64:
		n = int(t)
	case string:
		parsed, err := strconv.Atoi(priceStrip.Replace(t))
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}

// FromRow builds an observation from a positional spreadsheet row. header is
// the first sheet row; rows shorter than the header yield defaults for the
// missing trailing columns.
func FromRow(header []string, row []any) types.PriceObservation {
	doc := make(map[string]any, len(header))
	for i, key := range header {
		if i >= len(row) {
			break
		}
		doc[strings.TrimSpace(key)] = row[i]
	}
	return FromDocument(doc)
}

// FromDocument builds an observation from a key/value record. The two scraper
// generations wrote diverging field names (price vs price_current, store vs
// store_name, link vs product_url); both spellings are accepted.
func FromDocument(doc map[string]any) types.PriceObservation {
	return types.PriceObservation{
		ProductID:          stringField(doc, "product_id"),
		ProductName:        stringField(doc, "product_name"),
		Price:              ParsePrice(firstPresent(doc, "price_current", "price")),
		PriceOriginal:      stringField(doc, "price_original"),
		Store:              stringField(doc, "store_name", "store"),
		Link:               stringField(doc, "product_url", "link"),
		Date:               stringField(doc, "date"),
		ImageURL:           stringField(doc, "image_url"),
		Category:           stringField(doc, "category"),
		DiscountPercentage: stringField(doc, "discount_percentage"),
	}
}

func firstPresent(doc map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringField(doc map[string]any, keys ...string) string {
	v := firstPresent(doc, keys...)
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON decoding and sheet cells hand numbers through as float64.
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}
