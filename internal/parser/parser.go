package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PriceHit is a successfully extracted price plus the strategy that
// found it, for observability.
type PriceHit struct {
	Amount   float64
	Currency string
	Source   string
}

// Page holds everything extracted from one product page.
type Page struct {
	Title  string
	Images []string
	Price  *PriceHit
}

// Price extraction sources, in precedence order.
const (
	SourceMeta   = "meta"
	SourceJSONLD = "jsonld"
	SourceSymbol = "symbol"
)

var symbolCurrencies = []struct {
	Symbol  string
	ISOCode string
}{
	{"$", "USD"},
	{"£", "GBP"},
	{"€", "EUR"},
	{"¥", "JPY"},
	{"₩", "KRW"},
	{"₹", "INR"},
}

var symbolPricePattern = regexp.MustCompile(`[$£€¥₩₹]\s*([0-9][0-9.,]*)`)

// ParsePage runs the full extraction over raw HTML. Title and images are
// best-effort; Price is nil when no strategy produced a positive amount.
func ParsePage(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	page := &Page{
		Title:  extractTitle(doc),
		Images: extractImages(doc),
	}

	for _, extract := range []func(*goquery.Document) *PriceHit{
		extractMetaPrice,
		extractJSONLDPrice,
		extractSymbolPrice,
	} {
		if hit := extract(doc); hit != nil {
			page.Price = hit
			break
		}
	}

	return page, nil
}

func metaContent(doc *goquery.Document, names ...string) string {
	var found string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		key, ok := s.Attr("property")
		if !ok {
			key, _ = s.Attr("name")
		}
		for _, name := range names {
			if strings.EqualFold(key, name) {
				if content := strings.TrimSpace(s.AttrOr("content", "")); content != "" {
					found = content
					return false
				}
			}
		}
		return true
	})
	return found
}

func extractTitle(doc *goquery.Document) string {
	if title := metaContent(doc, "og:title", "twitter:title"); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractImages(doc *goquery.Document) []string {
	images := make([]string, 0, 2)
	seen := make(map[string]bool)
	doc.Find(`meta[property="og:image"], meta[name="twitter:image"]`).Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("content", ""))
		if src != "" && !seen[src] {
			seen[src] = true
			images = append(images, src)
		}
	})
	return images
}

// extractMetaPrice reads Open Graph / Twitter Card product price tags.
func extractMetaPrice(doc *goquery.Document) *PriceHit {
	amountText := metaContent(doc,
		"product:price:amount",
		"og:price:amount",
		"twitter:data1",
	)
	if amountText == "" {
		return nil
	}
	amount, err := ParseAmount(amountText)
	if err != nil || amount <= 0 {
		return nil
	}
	currency := normalizeCurrency(metaContent(doc,
		"product:price:currency",
		"og:price:currency",
	))
	if currency == "" {
		// A symbol inside twitter:data1 still identifies the currency.
		currency = currencyForSymbolIn(amountText)
	}
	if currency == "" {
		currency = "DKK"
	}
	return &PriceHit{Amount: amount, Currency: currency, Source: SourceMeta}
}

// extractJSONLDPrice scans application/ld+json blocks for an offers
// object (or the first element of an offers array) carrying price and
// priceCurrency.
func extractJSONLDPrice(doc *goquery.Document) *PriceHit {
	var hit *PriceHit
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data interface{}
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}
		if found := offersFromJSONLD(data); found != nil {
			hit = found
			return false
		}
		return true
	})
	return hit
}

func offersFromJSONLD(data interface{}) *PriceHit {
	switch node := data.(type) {
	case []interface{}:
		for _, item := range node {
			if hit := offersFromJSONLD(item); hit != nil {
				return hit
			}
		}
	case map[string]interface{}:
		if graph, ok := node["@graph"]; ok {
			if hit := offersFromJSONLD(graph); hit != nil {
				return hit
			}
		}
		offers, ok := node["offers"]
		if !ok {
			return nil
		}
		if list, ok := offers.([]interface{}); ok {
			if len(list) == 0 {
				return nil
			}
			offers = list[0]
		}
		offer, ok := offers.(map[string]interface{})
		if !ok {
			return nil
		}
		amount, ok := jsonNumber(offer["price"])
		if !ok || amount <= 0 {
			return nil
		}
		currency, _ := offer["priceCurrency"].(string)
		currency = normalizeCurrency(currency)
		if currency == "" {
			currency = "DKK"
		}
		return &PriceHit{Amount: amount, Currency: currency, Source: SourceJSONLD}
	}
	return nil
}

func jsonNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		amount, err := ParseAmount(n)
		if err != nil {
			return 0, false
		}
		return amount, true
	default:
		return 0, false
	}
}

// extractSymbolPrice is the last resort: a currency symbol followed by a
// numeric literal anywhere in the page text.
func extractSymbolPrice(doc *goquery.Document) *PriceHit {
	match := symbolPricePattern.FindString(doc.Text())
	if match == "" {
		return nil
	}
	currency := currencyForSymbolIn(match)
	amount, err := ParseAmount(match)
	if err != nil || amount <= 0 {
		return nil
	}
	return &PriceHit{Amount: amount, Currency: currency, Source: SourceSymbol}
}

func currencyForSymbolIn(s string) string {
	for _, sc := range symbolCurrencies {
		if strings.Contains(s, sc.Symbol) {
			return sc.ISOCode
		}
	}
	return ""
}

func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return ""
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return code
}
