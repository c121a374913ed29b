package service

import (
	"strconv"
	"strings"

	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
)

// ParseQuantity coerces raw user input to a quantity. Absent, non-numeric,
// or negative input degrades to 0 rather than propagating an error.
func ParseQuantity(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

// EvaluateCharge computes a single charge's price for a quantity and currency.
// Malformed catalog data (no pricing entries, unknown model, empty tier list)
// resolves to 0 so a broken entry degrades to free instead of failing the
// whole configuration.
func EvaluateCharge(charge catalogdomain.Charge, quantity float64, currency string) float64 {
	pricing := selectPricing(charge, currency)
	if pricing == nil {
		return 0
	}

	switch charge.Model {
	case catalogdomain.ModelFlatFee:
		return pricing.Price
	case catalogdomain.ModelPerUnit:
		return quantity * pricing.Price
	case catalogdomain.ModelVolume:
		return evaluateVolume(pricing.Tiers, quantity)
	default:
		return 0
	}
}

// selectPricing picks the entry matching currency, falling back to the first
// entry when the requested currency is not listed.
func selectPricing(charge catalogdomain.Charge, currency string) *catalogdomain.Pricing {
	if len(charge.Pricings) == 0 {
		return nil
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	for i := range charge.Pricings {
		if strings.ToUpper(charge.Pricings[i].Currency) == currency {
			return &charge.Pricings[i]
		}
	}
	return &charge.Pricings[0]
}

// evaluateVolume returns the price of the tier containing quantity. A quantity
// of 0 or below never matches, and a quantity beyond the last bounded tier
// returns 0 rather than clamping to the last tier's price.
func evaluateVolume(tiers []catalogdomain.Tier, quantity float64) float64 {
	if quantity <= 0 {
		return 0
	}
	for _, tier := range tiers {
		if tier.Contains(quantity) {
			return tier.Price
		}
	}
	return 0
}
