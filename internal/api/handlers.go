// Package api is the HTTP surface of the quote engine. Scrape and
// validation failures are part of the product, so they travel as
// 200-responses with ok=false and a stable error code; non-200 statuses
// are reserved for protocol-level problems.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"github.com/selekti/landedcost/internal/models"
	"github.com/selekti/landedcost/internal/pricing"
	"github.com/selekti/landedcost/internal/quote"
)

type Handlers struct {
	quotes *quote.Service
	logger *slog.Logger
}

func NewHandlers(quotes *quote.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		quotes: quotes,
		logger: logger.With("component", "api"),
	}
}

// LinkQuoteRequest is the body of POST /api/quote/link.
type LinkQuoteRequest struct {
	URL  string `json:"url"`
	Zone string `json:"zone,omitempty"`
}

// LinkQuoteResponse carries a quote or a business error code. Detected,
// estimate and notes are top-level fields of the success body.
type LinkQuoteResponse struct {
	OK       bool                    `json:"ok"`
	Detected *models.DetectedProduct `json:"detected,omitempty"`
	Estimate *pricing.Breakdown      `json:"estimate,omitempty"`
	Notes    []string                `json:"notes,omitempty"`
	Error    string                  `json:"error,omitempty"`
	URL      string                  `json:"url,omitempty"`
}

// QuoteLink handles POST /api/quote/link.
func (h *Handlers) QuoteLink(w http.ResponseWriter, r *http.Request) {
	var req LinkQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusOK, LinkQuoteResponse{OK: false, Error: quote.CodeMissingURL})
		return
	}

	result, err := h.quotes.QuoteLink(r.Context(), req.URL, req.Zone)
	if err != nil {
		code := quote.CodeOf(err)
		if code == quote.CodeServerError {
			h.logger.Error("link quote failed", "url", req.URL, "error", err)
		}
		h.respondJSON(w, http.StatusOK, LinkQuoteResponse{OK: false, Error: code, URL: req.URL})
		return
	}

	h.respondJSON(w, http.StatusOK, LinkQuoteResponse{
		OK:       true,
		Detected: &result.Detected,
		Estimate: &result.Estimate,
		Notes:    result.Notes,
	})
}

// EstimateRequest is the body of POST /api/estimate: a manually entered
// item instead of a pasted link.
type EstimateRequest struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Zone     string  `json:"zone"`
	WeightKg float64 `json:"weightKg,omitempty"`
	Category string  `json:"category,omitempty"`
}

// EstimateResponse carries the breakdown; Estimate is null when the
// price was not positive.
type EstimateResponse struct {
	OK       bool               `json:"ok"`
	Estimate *pricing.Breakdown `json:"estimate,omitempty"`
	Notes    []string           `json:"notes,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// Estimate handles POST /api/estimate.
func (h *Handlers) Estimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondJSON(w, http.StatusBadRequest, EstimateResponse{OK: false, Error: "INVALID_REQUEST"})
		return
	}

	breakdown, err := h.quotes.Estimate(quote.EstimateInput{
		Price:    req.Price,
		Currency: req.Currency,
		ZoneCode: req.Zone,
		WeightKg: req.WeightKg,
		Category: req.Category,
	})
	if err != nil {
		h.respondJSON(w, http.StatusOK, EstimateResponse{OK: false, Error: "UNSUPPORTED_CURRENCY"})
		return
	}

	resp := EstimateResponse{OK: true, Estimate: breakdown}
	if breakdown != nil {
		resp.Notes = []string{quote.DisclaimerNote}
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// PricingResponse is the static pricing snapshot UIs render tables from.
type PricingResponse struct {
	Zones         []pricing.Zone     `json:"zones"`
	DefaultZone   string             `json:"defaultZone"`
	WeightStepsKg []float64          `json:"weightStepsKg"`
	FreightDKK    map[string][]int   `json:"freightDKK"`
	Service       pricing.ServiceFee `json:"service"`
	Rates         map[string]float64 `json:"rates"`
	RatesUpdated  string             `json:"ratesUpdated"`
}

// Pricing handles GET /api/pricing.
func (h *Handlers) Pricing(w http.ResponseWriter, r *http.Request) {
	cfg := h.quotes.Config()
	rates := h.quotes.Rates()

	zones := make([]pricing.Zone, 0, len(cfg.Zones))
	for _, z := range cfg.Zones {
		zones = append(zones, z)
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].Code < zones[j].Code })

	h.respondJSON(w, http.StatusOK, PricingResponse{
		Zones:         zones,
		DefaultZone:   cfg.DefaultZone,
		WeightStepsKg: cfg.WeightStepsKg,
		FreightDKK:    cfg.FreightDKK,
		Service:       cfg.Service,
		Rates:         rates.Rates,
		RatesUpdated:  rates.UpdatedLabel,
	})
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
