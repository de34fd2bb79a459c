package pricing

import "strings"

// RateTable is a static snapshot of DKK-per-unit multipliers. It is
// refreshed by redeploying config, not fetched live, so the UI shows the
// UpdatedLabel next to any converted figure.
type RateTable struct {
	Rates        map[string]float64 `json:"rates"`
	UpdatedLabel string             `json:"updated_label"`
}

// DefaultRates returns the built-in currency snapshot.
func DefaultRates() RateTable {
	return RateTable{
		Rates: map[string]float64{
			"USD": 7.0,
			"EUR": 7.45,
			"GBP": 8.6,
			"JPY": 0.05,
			"KRW": 0.0053,
			"CNY": 1.05,
			"INR": 0.085,
			"DKK": 1,
		},
		UpdatedLabel: "Kurser opdateret august 2026",
	}
}

// Lookup returns the DKK multiplier for a currency code and whether the
// code is in the snapshot.
func (t RateTable) Lookup(code string) (float64, bool) {
	rate, ok := t.Rates[strings.ToUpper(strings.TrimSpace(code))]
	return rate, ok
}

// ToDKK converts an amount to DKK. Unknown currency codes use a
// multiplier of 1, i.e. the amount is treated as already being DKK. That
// is a documented approximation for the scraping path, which must never
// fail a quote on an exotic price tag; callers that want strict currency
// validation use Lookup instead.
func (t RateTable) ToDKK(amount float64, code string) float64 {
	rate, ok := t.Lookup(code)
	if !ok {
		rate = 1
	}
	return amount * rate
}
