package service

import (
	"testing"

	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func flatFeeCharge(price float64, currency string) catalogdomain.Charge {
	return catalogdomain.Charge{
		ID:    1,
		Name:  "Platform Fee",
		Type:  catalogdomain.ChargeRecurring,
		Model: catalogdomain.ModelFlatFee,
		Pricings: []catalogdomain.Pricing{
			{Currency: currency, Price: price},
		},
	}
}

func TestEvaluateCharge_FlatFeeIgnoresQuantity(t *testing.T) {
	charge := flatFeeCharge(5000, "USD")

	for _, quantity := range []float64{0, 1, 7, 9999} {
		assert.Equal(t, 5000.0, EvaluateCharge(charge, quantity, "USD"))
	}
}

func TestEvaluateCharge_PerUnit(t *testing.T) {
	charge := catalogdomain.Charge{
		ID:    2,
		Name:  "Seats",
		Type:  catalogdomain.ChargeRecurring,
		Model: catalogdomain.ModelPerUnit,
		Pricings: []catalogdomain.Pricing{
			{Currency: "USD", Price: 12.5},
		},
	}

	assert.Equal(t, 0.0, EvaluateCharge(charge, 0, "USD"))
	assert.Equal(t, 12.5, EvaluateCharge(charge, 1, "USD"))
	assert.Equal(t, 125.0, EvaluateCharge(charge, 10, "USD"))
}

func TestEvaluateCharge_VolumeTiers(t *testing.T) {
	charge := catalogdomain.Charge{
		ID:    3,
		Name:  "API Calls",
		Type:  catalogdomain.ChargeUsage,
		Model: catalogdomain.ModelVolume,
		Pricings: []catalogdomain.Pricing{
			{
				Currency: "USD",
				Tiers: []catalogdomain.Tier{
					{StartingUnit: 1, EndingUnit: floatPtr(5), Price: 100},
					{StartingUnit: 6, EndingUnit: floatPtr(10), Price: 180},
				},
			},
		},
	}

	assert.Equal(t, 100.0, EvaluateCharge(charge, 1, "USD"))
	assert.Equal(t, 100.0, EvaluateCharge(charge, 5, "USD"))
	assert.Equal(t, 180.0, EvaluateCharge(charge, 6, "USD"))
	assert.Equal(t, 180.0, EvaluateCharge(charge, 10, "USD"))

	// Beyond the last bounded tier there is no price, not a clamp.
	assert.Equal(t, 0.0, EvaluateCharge(charge, 11, "USD"))
	assert.Equal(t, 0.0, EvaluateCharge(charge, 0, "USD"))
	assert.Equal(t, 0.0, EvaluateCharge(charge, -3, "USD"))
}

func TestEvaluateCharge_VolumeUnboundedTier(t *testing.T) {
	charge := catalogdomain.Charge{
		ID:    4,
		Model: catalogdomain.ModelVolume,
		Pricings: []catalogdomain.Pricing{
			{
				Currency: "USD",
				Tiers: []catalogdomain.Tier{
					{StartingUnit: 1, EndingUnit: floatPtr(100), Price: 50},
					{StartingUnit: 101, EndingUnit: nil, Price: 40},
				},
			},
		},
	}

	assert.Equal(t, 40.0, EvaluateCharge(charge, 101, "USD"))
	assert.Equal(t, 40.0, EvaluateCharge(charge, 1_000_000, "USD"))
}

func TestEvaluateCharge_VolumeGapReturnsZero(t *testing.T) {
	charge := catalogdomain.Charge{
		ID:    5,
		Model: catalogdomain.ModelVolume,
		Pricings: []catalogdomain.Pricing{
			{
				Currency: "USD",
				Tiers: []catalogdomain.Tier{
					{StartingUnit: 1, EndingUnit: floatPtr(5), Price: 100},
					{StartingUnit: 10, EndingUnit: floatPtr(20), Price: 150},
				},
			},
		},
	}

	assert.Equal(t, 0.0, EvaluateCharge(charge, 7, "USD"))
}

func TestEvaluateCharge_CurrencyFallback(t *testing.T) {
	charge := catalogdomain.Charge{
		ID:    6,
		Model: catalogdomain.ModelFlatFee,
		Pricings: []catalogdomain.Pricing{
			{Currency: "USD", Price: 5000},
			{Currency: "EUR", Price: 4600},
		},
	}

	assert.Equal(t, 4600.0, EvaluateCharge(charge, 1, "EUR"))
	assert.Equal(t, 4600.0, EvaluateCharge(charge, 1, "eur"))
	// No GBP price list: fall back to the first entry, never convert.
	assert.Equal(t, 5000.0, EvaluateCharge(charge, 1, "GBP"))
}

func TestEvaluateCharge_DegradedCatalogData(t *testing.T) {
	noPricing := catalogdomain.Charge{ID: 7, Model: catalogdomain.ModelFlatFee}
	assert.Equal(t, 0.0, EvaluateCharge(noPricing, 3, "USD"))

	unknownModel := catalogdomain.Charge{
		ID:       8,
		Model:    catalogdomain.ChargeModel("SUBSCRIPTION"),
		Pricings: []catalogdomain.Pricing{{Currency: "USD", Price: 10}},
	}
	assert.Equal(t, 0.0, EvaluateCharge(unknownModel, 3, "USD"))

	emptyTiers := catalogdomain.Charge{
		ID:       9,
		Model:    catalogdomain.ModelVolume,
		Pricings: []catalogdomain.Pricing{{Currency: "USD"}},
	}
	assert.Equal(t, 0.0, EvaluateCharge(emptyTiers, 3, "USD"))
}

func TestEvaluateCharge_Deterministic(t *testing.T) {
	charge := flatFeeCharge(1234.56, "USD")

	first := EvaluateCharge(charge, 2, "USD")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, EvaluateCharge(charge, 2, "USD"))
	}
}

func TestParseQuantity(t *testing.T) {
	assert.Equal(t, 0.0, ParseQuantity(""))
	assert.Equal(t, 0.0, ParseQuantity("  "))
	assert.Equal(t, 0.0, ParseQuantity("abc"))
	assert.Equal(t, 0.0, ParseQuantity("-4"))
	assert.Equal(t, 4.0, ParseQuantity("4"))
	assert.Equal(t, 2.5, ParseQuantity(" 2.5 "))
}
