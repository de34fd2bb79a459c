// Package detect infers shipping zone and nominal weight from the
// little the scraper has to go on: the merchant hostname and the product
// title.
package detect

import (
	"regexp"
	"strings"
)

// DefaultWeightKg is assumed when no category keyword matches the title.
const DefaultWeightKg = 1.0

// tldZones maps hostname suffixes to shipping zones. Longer suffixes are
// listed first so ".co.uk" wins over a hypothetical ".uk" conflict.
var tldZones = []struct {
	Suffix string
	Zone   string
}{
	{".co.uk", "UK"},
	{".uk", "UK"},
	{".jp", "JP"},
	{".kr", "KR"},
	{".cn", "CN"},
	{".in", "IN"},
	{".de", "EU"},
	{".fr", "EU"},
	{".it", "EU"},
	{".es", "EU"},
	{".nl", "EU"},
	{".be", "EU"},
	{".at", "EU"},
	{".ie", "EU"},
	{".pt", "EU"},
	{".pl", "EU"},
	{".cz", "EU"},
	{".se", "EU"},
	{".fi", "EU"},
	{".dk", "EU"},
	{".eu", "EU"},
}

// WeightCategory pairs an ordered keyword pattern with the nominal
// shipping weight for that product category. First match wins.
type WeightCategory struct {
	Name     string
	Pattern  *regexp.Regexp
	WeightKg float64
}

var weightCategories = []WeightCategory{
	{"footwear", regexp.MustCompile(`(?i)\b(sneaker|sneakers|shoe|shoes|boot|boots|trainer|trainers|runner|loafer)\b`), 1.3},
	{"laptops", regexp.MustCompile(`(?i)\b(laptop|notebook|macbook|ultrabook|chromebook)\b`), 2.8},
	{"headphones", regexp.MustCompile(`(?i)\b(headphone|headphones|hovedtelefon|hovedtelefoner|earbud|earbuds|headset)\b`), 0.8},
	{"cameras", regexp.MustCompile(`(?i)\b(camera|kamera|dslr|mirrorless|gimbal|lens)\b`), 1.6},
	{"outerwear", regexp.MustCompile(`(?i)\b(jacket|jakke|coat|parka|hoodie|fleece)\b`), 1.4},
	{"tshirts", regexp.MustCompile(`(?i)\b(t-shirt|tshirt|tee|shirt|top)\b`), 0.3},
	{"bags", regexp.MustCompile(`(?i)\b(bag|backpack|taske|tote|rucksack)\b`), 0.9},
	{"beauty", regexp.MustCompile(`(?i)\b(serum|cream|lotion|skincare|makeup|mascara|cleanser|toner)\b`), 0.35},
}

// ZoneFromHost derives a shipping zone from the hostname's TLD hints.
// Unmatched hosts default to US, the zone most merchant links in the
// wild resolve to.
func ZoneFromHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimSuffix(host, ".")
	for _, hint := range tldZones {
		if strings.HasSuffix(host, hint.Suffix) {
			return hint.Zone
		}
	}
	return "US"
}

// WeightFromTitle matches the title against the category keyword list
// and returns the nominal weight plus the category name, or the default
// weight and an empty category when nothing matches.
func WeightFromTitle(title string) (float64, string) {
	for _, cat := range weightCategories {
		if cat.Pattern.MatchString(title) {
			return cat.WeightKg, cat.Name
		}
	}
	return DefaultWeightKg, ""
}

// WeightForCategory resolves a category name chosen explicitly (for
// instance from the estimator form) to its nominal weight.
func WeightForCategory(name string) (float64, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, cat := range weightCategories {
		if cat.Name == name {
			return cat.WeightKg, true
		}
	}
	return DefaultWeightKg, false
}

// StoreFromHost trims the www prefix so responses show a readable
// merchant name.
func StoreFromHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
