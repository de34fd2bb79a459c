package models

import "github.com/selekti/landedcost/internal/pricing"

// PriceOriginal is the price as it appeared on the merchant page, before
// conversion to DKK.
type PriceOriginal struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// DetectedProduct is what the link scraper extracted from one product
// page. It lives for a single request and is never persisted as-is.
type DetectedProduct struct {
	Title         string        `json:"title"`
	URL           string        `json:"url"`
	Store         string        `json:"store"`
	Images        []string      `json:"images"`
	PriceOriginal PriceOriginal `json:"priceOriginal"`
	PriceDKK      int           `json:"priceDKK"`
	Zone          string        `json:"zone"`
	WeightKg      float64       `json:"weightKg"`
}

// LinkQuote is a complete quote for a scraped product link.
type LinkQuote struct {
	Detected DetectedProduct   `json:"detected"`
	Estimate pricing.Breakdown `json:"estimate"`
	Notes    []string          `json:"notes"`
}
