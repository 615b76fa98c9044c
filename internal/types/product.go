package types

// PriceObservation is one scraped price record: one product at one store at
// one point in time. Every raw row or document is coerced into this shape at
// the source boundary; core logic never sees raw records.
//
// Price is the smallest-whole-unit integer amount. 0 means invalid or unset
// and is excluded from min/average style computations.
type PriceObservation struct {
	ProductID          string
	ProductName        string
	Price              int
	PriceOriginal      string
	Store              string
	Link               string
	Date               string
	ImageURL           string
	Category           string
	DiscountPercentage string
}

// PricePoint is one entry of a product's price history.
type PricePoint struct {
	Date  string `json:"date"`
	Price int    `json:"price"`
	Store string `json:"store"`
}

// ProductHistory is the full dated price trail for one product identity,
// ordered ascending by date.
type ProductHistory struct {
	ProductID   string       `json:"product_id"`
	ProductName string       `json:"product_name"`
	History     []PricePoint `json:"history"`
}

// StoreOffer is the latest known offer from one store.
type StoreOffer struct {
	Store string `json:"store"`
	Price int    `json:"price"`
	Link  string `json:"link"`
}

// ProductComparison holds one offer per distinct store for a product identity.
type ProductComparison struct {
	ProductID   string       `json:"product_id"`
	ProductName string       `json:"product_name"`
	Comparison  []StoreOffer `json:"comparison"`
}

// BestPrice is the cheapest valid offer found for one product name group.
type BestPrice struct {
	ProductName string `json:"product_name"`
	MinPrice    int    `json:"min_price"`
	Store       string `json:"store"`
}

// GlobalStats is the catalog-wide best-price listing.
type GlobalStats struct {
	BestPrices []BestPrice `json:"best_prices"`
}
