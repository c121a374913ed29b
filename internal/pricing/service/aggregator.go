package service

import (
	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
	"github.com/smallbiznis/quotient/internal/pricing/domain"
)

// PlanTotal sums the evaluated price of every charge in the plan. Charges with
// no entered quantity evaluate against 0.
func PlanTotal(plan catalogdomain.RatePlan, values domain.ChargeValues, currency string) float64 {
	var total float64
	for _, charge := range plan.Charges {
		total += EvaluateCharge(charge, ParseQuantity(values[charge.ID]), currency)
	}
	return total
}

// QuoteTotal sums selector(product) * quantity over the configured products.
// The sum is plain accumulation with no running state, so it is associative
// and invariant under reordering.
func QuoteTotal(products []domain.ConfiguredProduct, selector domain.PriceSelector) float64 {
	if selector == nil {
		selector = domain.ListPrice
	}
	var total float64
	for _, product := range products {
		total += selector(product) * product.UnitQuantity()
	}
	return total
}

// ComputeCharges evaluates every charge of the plan into its persisted shape.
func ComputeCharges(plan catalogdomain.RatePlan, values domain.ChargeValues, currency string) []domain.ComputedCharge {
	charges := make([]domain.ComputedCharge, 0, len(plan.Charges))
	for _, charge := range plan.Charges {
		quantity := ParseQuantity(values[charge.ID])
		charges = append(charges, domain.ComputedCharge{
			ID:              charge.ID,
			Name:            charge.Name,
			Type:            charge.Type,
			Model:           charge.Model,
			UOM:             charge.UOM,
			Value:           quantity,
			CalculatedPrice: EvaluateCharge(charge, quantity, currency),
		})
	}
	return charges
}
