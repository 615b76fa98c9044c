package handlers

import (
	"github.com/scrapstack/hardware-prices-backend/internal/types"
)

// Product is the external observation shape. Optional fields keep omitempty
// so absent values stay absent instead of becoming defaults.
type Product struct {
	ProductID          string `json:"product_id"`
	ProductName        string `json:"product_name"`
	PriceCurrent       int    `json:"price_current,omitempty"`
	PriceOriginal      string `json:"price_original,omitempty"`
	ImageURL           string `json:"image_url,omitempty"`
	StoreName          string `json:"store_name,omitempty"`
	ProductURL         string `json:"product_url,omitempty"`
	DiscountPercentage string `json:"discount_percentage,omitempty"`
	Category           string `json:"category,omitempty"`
	Date               string `json:"date,omitempty"`
}

// SearchResponse is the paginated search envelope.
type SearchResponse struct {
	TotalResults int       `json:"total_results"`
	TotalPages   int       `json:"total_pages"`
	CurrentPage  int       `json:"current_page"`
	Limit        int       `json:"limit"`
	Data         []Product `json:"data"`
}

type ProductCount struct {
	TotalProducts int `json:"total_products"`
}

func toProduct(obs types.PriceObservation) Product {
	return Product{
		ProductID:          obs.ProductID,
		ProductName:        obs.ProductName,
		PriceCurrent:       obs.Price,
		PriceOriginal:      obs.PriceOriginal,
		ImageURL:           obs.ImageURL,
		StoreName:          obs.Store,
		ProductURL:         obs.Link,
		DiscountPercentage: obs.DiscountPercentage,
		Category:           obs.Category,
		Date:               obs.Date,
	}
}

func toProducts(obs []types.PriceObservation) []Product {
	out := make([]Product, 0, len(obs))
	for _, o := range obs {
		out = append(out, toProduct(o))
	}
	return out
}
