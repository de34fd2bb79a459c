package pricing

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// minWeightKg is substituted when callers pass a zero, negative or
// non-finite weight so the tier lookup always has a usable value.
const minWeightKg = 0.01

// Zone describes a destination region and its applicable tax rates.
type Zone struct {
	Code     string  `json:"code"`
	Label    string  `json:"label"`
	VATRate  float64 `json:"vat"`
	DutyRate float64 `json:"duty_default"`
}

// ServiceFee is the platform margin: a percentage bounded below by a
// fixed minimum charge in whole DKK.
type ServiceFee struct {
	Rate   float64 `json:"rate"`
	MinDKK int     `json:"min_dkk"`
}

// Config bundles every table the cost model needs. It is injected, not
// hardcoded at call sites, so rates ship as data.
type Config struct {
	Zones         map[string]Zone  `json:"zones"`
	DefaultZone   string           `json:"default_zone"`
	WeightStepsKg []float64        `json:"weight_steps_kg"`
	FreightDKK    map[string][]int `json:"freight_dkk"`
	Service       ServiceFee       `json:"service"`
}

// Breakdown is the landed-cost quote in whole DKK. Every component is
// rounded before summing, so TotalDKK is always the exact integer sum of
// the other five fields.
type Breakdown struct {
	ItemDKK    int    `json:"itemDKK"`
	FreightDKK int    `json:"freightDKK"`
	ServiceDKK int    `json:"serviceDKK"`
	DutyDKK    int    `json:"dutyDKK"`
	VATDKK     int    `json:"vatDKK"`
	TotalDKK   int    `json:"totalDKK"`
	ZoneCode   string `json:"zoneCode"`
}

// DefaultConfig returns the pricing snapshot the service ships with.
func DefaultConfig() *Config {
	return &Config{
		Zones: map[string]Zone{
			"EU": {Code: "EU", Label: "Europa", VATRate: 0, DutyRate: 0.03},
			"UK": {Code: "UK", Label: "Storbritannien", VATRate: 0.20, DutyRate: 0.03},
			"US": {Code: "US", Label: "USA", VATRate: 0.25, DutyRate: 0.03},
			"JP": {Code: "JP", Label: "Japan", VATRate: 0.10, DutyRate: 0.03},
			"KR": {Code: "KR", Label: "Sydkorea", VATRate: 0.10, DutyRate: 0.03},
			"CN": {Code: "CN", Label: "Kina", VATRate: 0.13, DutyRate: 0.03},
			"IN": {Code: "IN", Label: "Indien", VATRate: 0.18, DutyRate: 0.03},
		},
		DefaultZone:   "US",
		WeightStepsKg: []float64{0.5, 1, 2, 5, 10, 15},
		FreightDKK: map[string][]int{
			"EU": {79, 99, 129, 199, 299, 399},
			"UK": {99, 129, 179, 259, 359, 499},
			"US": {129, 169, 219, 329, 479, 699},
			"JP": {129, 169, 229, 339, 499, 749},
			"KR": {129, 169, 229, 339, 499, 749},
			"CN": {129, 169, 229, 339, 499, 749},
			"IN": {139, 179, 239, 359, 519, 799},
		},
		Service: ServiceFee{Rate: 0.12, MinDKK: 49},
	}
}

// Validate checks the structural invariants of the tables: ascending
// weight breakpoints, freight rows parallel to them, and a resolvable
// default zone.
func (c *Config) Validate() error {
	if len(c.Zones) == 0 {
		return fmt.Errorf("no zones configured")
	}
	if _, ok := c.Zones[c.DefaultZone]; !ok {
		return fmt.Errorf("default zone %q is not in the zone registry", c.DefaultZone)
	}
	for code := range c.Zones {
		if _, ok := c.FreightDKK[code]; !ok {
			return fmt.Errorf("zone %s has no freight table", code)
		}
	}
	if len(c.WeightStepsKg) == 0 {
		return fmt.Errorf("no weight breakpoints configured")
	}
	if !sort.Float64sAreSorted(c.WeightStepsKg) {
		return fmt.Errorf("weight breakpoints must be ascending")
	}
	for i := 1; i < len(c.WeightStepsKg); i++ {
		if c.WeightStepsKg[i] == c.WeightStepsKg[i-1] {
			return fmt.Errorf("duplicate weight breakpoint %v", c.WeightStepsKg[i])
		}
	}
	for zone, table := range c.FreightDKK {
		if len(table) != len(c.WeightStepsKg) {
			return fmt.Errorf("freight table for %s has %d entries, want %d", zone, len(table), len(c.WeightStepsKg))
		}
	}
	if c.Service.Rate < 0 || c.Service.MinDKK < 0 {
		return fmt.Errorf("service fee must be non-negative")
	}
	return nil
}

// ResolveZone normalizes a zone code and falls back to the default zone
// for unknown codes. It never fails.
func (c *Config) ResolveZone(code string) Zone {
	code = strings.ToUpper(strings.TrimSpace(code))
	if z, ok := c.Zones[code]; ok {
		return z
	}
	return c.Zones[c.DefaultZone]
}

// KnownZone reports whether code names a zone in the registry.
func (c *Config) KnownZone(code string) bool {
	_, ok := c.Zones[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Freight looks up the tiered freight cost for a zone and weight: the
// first breakpoint >= weightKg selects the tier, weights beyond the last
// breakpoint get the heaviest tier. The result is defined for any weight.
func (c *Config) Freight(zoneCode string, weightKg float64) int {
	zone := c.ResolveZone(zoneCode)
	table, ok := c.FreightDKK[zone.Code]
	if !ok {
		table = c.FreightDKK[c.DefaultZone]
	}
	if weightKg <= 0 || math.IsNaN(weightKg) || math.IsInf(weightKg, 0) {
		weightKg = minWeightKg
	}
	for i, limit := range c.WeightStepsKg {
		if weightKg <= limit {
			return table[i]
		}
	}
	return table[len(table)-1]
}

// ComputeEstimate produces the landed-cost breakdown for an item already
// converted to DKK. A zero or negative item price yields no breakdown
// (nil), not a zero-total one. Duty is levied on item+freight, VAT on the
// full landed cost including duty and service. Each line is rounded to
// whole DKK before summing.
func ComputeEstimate(cfg *Config, itemDKK, weightKg float64, zoneCode string) *Breakdown {
	if itemDKK <= 0 || math.IsNaN(itemDKK) || math.IsInf(itemDKK, 0) {
		return nil
	}
	zone := cfg.ResolveZone(zoneCode)

	item := roundDKK(itemDKK)
	freight := cfg.Freight(zoneCode, weightKg)

	service := roundDKK(itemDKK * cfg.Service.Rate)
	if service < cfg.Service.MinDKK {
		service = cfg.Service.MinDKK
	}

	duty := roundDKK(float64(item+freight) * zone.DutyRate)
	vat := roundDKK(float64(item+freight+duty+service) * zone.VATRate)

	return &Breakdown{
		ItemDKK:    item,
		FreightDKK: freight,
		ServiceDKK: service,
		DutyDKK:    duty,
		VATDKK:     vat,
		TotalDKK:   item + freight + service + duty + vat,
		ZoneCode:   zone.Code,
	}
}

func roundDKK(v float64) int {
	return int(math.Round(v))
}
