// Package quote orchestrates the two quoting paths: scraping a product
// link into a full landed-cost quote, and pricing a manually entered
// item. All money flows through the pricing tables; this package only
// gathers inputs and assembles responses.
package quote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/selekti/landedcost/internal/cache"
	"github.com/selekti/landedcost/internal/database"
	"github.com/selekti/landedcost/internal/detect"
	"github.com/selekti/landedcost/internal/fetch"
	"github.com/selekti/landedcost/internal/metrics"
	"github.com/selekti/landedcost/internal/models"
	"github.com/selekti/landedcost/internal/parser"
	"github.com/selekti/landedcost/internal/pricing"
)

// DisclaimerNote is attached to every quote. Estimates are binding only
// after manual confirmation.
const DisclaimerNote = "Estimat. Endelig pris bekræftes på mail."

// Fetcher retrieves a product page body. Satisfied by *fetch.Client.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (string, error)
}

// Service wires the scraper, cost model, cache and quote log together.
type Service struct {
	cfg     *pricing.Config
	rates   pricing.RateTable
	fetcher Fetcher
	cache   cache.Cache
	log     *database.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Options carries the collaborators for NewService. Cache, Store and
// Metrics may be nil or zero; the service degrades gracefully without
// them.
type Options struct {
	Config  *pricing.Config
	Rates   pricing.RateTable
	Fetcher Fetcher
	Cache   cache.Cache
	Store   *database.Store
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewService validates the pricing tables and builds a quote service.
func NewService(opts Options) (*Service, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = pricing.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pricing config: %w", err)
	}
	rates := opts.Rates
	if len(rates.Rates) == 0 {
		rates = pricing.DefaultRates()
	}
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	var quoteCache cache.Cache = opts.Cache
	if quoteCache == nil {
		quoteCache = cache.Noop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:     cfg,
		rates:   rates,
		fetcher: opts.Fetcher,
		cache:   quoteCache,
		log:     opts.Store,
		metrics: opts.Metrics,
		logger:  logger.With("component", "quote"),
	}, nil
}

// Config exposes the active pricing tables for the pricing endpoint.
func (s *Service) Config() *pricing.Config {
	return s.cfg
}

// Rates exposes the active currency snapshot.
func (s *Service) Rates() pricing.RateTable {
	return s.rates
}

// QuoteLink scrapes a product URL and prices it. zoneOverride, when it
// names a known zone, wins over the zone inferred from the hostname.
func (s *Service) QuoteLink(ctx context.Context, rawURL, zoneOverride string) (*models.LinkQuote, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		s.metrics.IncQuote(CodeMissingURL)
		return nil, newError(CodeMissingURL, nil)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		s.metrics.IncQuote(CodeInvalidURL)
		return nil, newError(CodeInvalidURL, err)
	}

	zone := detect.ZoneFromHost(parsed.Hostname())
	if zoneOverride != "" && s.cfg.KnownZone(zoneOverride) {
		zone = s.cfg.ResolveZone(zoneOverride).Code
	}

	key := cache.Key(rawURL, zone)
	if cached, ok := s.cache.Get(ctx, key); ok {
		s.metrics.IncCacheHit()
		s.metrics.IncQuote("ok")
		return cached, nil
	}

	start := time.Now()
	body, err := s.fetcher.Get(ctx, rawURL)
	s.metrics.ObserveFetch(time.Since(start))
	if err != nil {
		qErr := classifyFetchError(err)
		s.logger.Warn("page fetch failed", "url", rawURL, "code", qErr.Code, "error", err)
		s.metrics.IncQuote(qErr.Code)
		s.recordQuote(ctx, rawURL, zone, qErr.Code, nil)
		return nil, qErr
	}

	page, err := parser.ParsePage(body)
	if err != nil || page.Price == nil {
		s.logger.Warn("no price on page", "url", rawURL, "store", detect.StoreFromHost(parsed.Hostname()))
		s.metrics.IncQuote(CodeUnreadablePage)
		s.recordQuote(ctx, rawURL, zone, CodeUnreadablePage, nil)
		return nil, newError(CodeUnreadablePage, err)
	}
	s.metrics.IncExtraction(page.Price.Source)

	title := page.Title
	if title == "" {
		title = parsed.Hostname()
	}

	weightKg, category := detect.WeightFromTitle(title)
	priceDKK := s.rates.ToDKK(page.Price.Amount, page.Price.Currency)

	breakdown := pricing.ComputeEstimate(s.cfg, priceDKK, weightKg, zone)
	if breakdown == nil {
		s.metrics.IncQuote(CodeUnreadablePage)
		s.recordQuote(ctx, rawURL, zone, CodeUnreadablePage, nil)
		return nil, newError(CodeUnreadablePage, fmt.Errorf("extracted price %v is not positive", page.Price.Amount))
	}

	result := &models.LinkQuote{
		Detected: models.DetectedProduct{
			Title:  title,
			URL:    rawURL,
			Store:  detect.StoreFromHost(parsed.Hostname()),
			Images: page.Images,
			PriceOriginal: models.PriceOriginal{
				Amount:   page.Price.Amount,
				Currency: page.Price.Currency,
			},
			PriceDKK: breakdown.ItemDKK,
			Zone:     breakdown.ZoneCode,
			WeightKg: weightKg,
		},
		Estimate: *breakdown,
		Notes:    s.quoteNotes(breakdown.ZoneCode, category),
	}

	s.cache.Set(ctx, key, result)
	s.metrics.IncQuote("ok")
	s.recordQuote(ctx, rawURL, zone, "ok", result)
	s.logger.Info("link quoted",
		"store", result.Detected.Store,
		"zone", breakdown.ZoneCode,
		"source", page.Price.Source,
		"totalDKK", breakdown.TotalDKK,
	)
	return result, nil
}

// EstimateInput is a manually entered item: the customer types the price
// instead of pasting a link.
type EstimateInput struct {
	Price    float64
	Currency string
	ZoneCode string
	WeightKg float64
	Category string
}

// Estimate prices a manual entry. Unlike the scraping path, an unknown
// currency is rejected here: the customer typed it, so it must match the
// published rate table. A non-positive price yields no breakdown and no
// error.
func (s *Service) Estimate(input EstimateInput) (*pricing.Breakdown, error) {
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "DKK"
	}
	rate, ok := s.rates.Lookup(currency)
	if !ok {
		return nil, fmt.Errorf("unsupported currency %q", currency)
	}

	weightKg := input.WeightKg
	if weightKg <= 0 && input.Category != "" {
		weightKg, _ = detect.WeightForCategory(input.Category)
	}

	return pricing.ComputeEstimate(s.cfg, input.Price*rate, weightKg, input.ZoneCode), nil
}

func (s *Service) quoteNotes(zoneCode, category string) []string {
	notes := []string{DisclaimerNote}
	zone := s.cfg.ResolveZone(zoneCode)
	if zone.VATRate == 0 {
		notes = append(notes, "EU-køb: moms er afregnet hos forhandleren.")
	} else {
		notes = append(notes, fmt.Sprintf("Inkl. told og importmoms for %s.", zone.Label))
	}
	if category == "" {
		notes = append(notes, "Vægt anslået til 1 kg.")
	}
	if s.rates.UpdatedLabel != "" {
		notes = append(notes, s.rates.UpdatedLabel)
	}
	return notes
}

// recordQuote writes to the quote log without letting a database hiccup
// affect the response.
func (s *Service) recordQuote(ctx context.Context, rawURL, zone, outcome string, result *models.LinkQuote) {
	if s.log == nil {
		return
	}
	rec := database.QuoteRecord{URL: rawURL, Zone: zone, Outcome: outcome}
	if result != nil {
		rec.Title = result.Detected.Title
		rec.PriceDKK = result.Detected.PriceDKK
		rec.TotalDKK = result.Estimate.TotalDKK
	}
	if err := s.log.Record(ctx, rec); err != nil {
		s.logger.Warn("quote log write failed", "error", err)
	}
}

func classifyFetchError(err error) *Error {
	var timeout fetch.ErrTimeout
	if errors.As(err, &timeout) {
		return newError(CodeTimeout, err)
	}
	var bad fetch.ErrBadStatus
	if errors.As(err, &bad) {
		return newError(CodeUnreadablePage, err)
	}
	var netErr fetch.ErrNetwork
	if errors.As(err, &netErr) {
		return newError(CodeNetwork, err)
	}
	return newError(CodeNetwork, err)
}
