package service

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
	"github.com/smallbiznis/quotient/internal/pricing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() catalogdomain.RatePlan {
	return catalogdomain.RatePlan{
		ID:   100,
		Name: "Enterprise Annual",
		Charges: []catalogdomain.Charge{
			{
				ID:    1,
				Name:  "Base Fee",
				Type:  catalogdomain.ChargeRecurring,
				Model: catalogdomain.ModelFlatFee,
				Pricings: []catalogdomain.Pricing{
					{Currency: "USD", Price: 5000},
				},
			},
			{
				ID:    2,
				Name:  "Seats",
				Type:  catalogdomain.ChargeRecurring,
				Model: catalogdomain.ModelPerUnit,
				Pricings: []catalogdomain.Pricing{
					{Currency: "USD", Price: 25},
				},
			},
		},
	}
}

func TestPlanTotal(t *testing.T) {
	plan := testPlan()

	total := PlanTotal(plan, domain.ChargeValues{2: "10"}, "USD")
	assert.Equal(t, 5250.0, total)

	// Per-unit charges without an entered quantity evaluate against 0.
	assert.Equal(t, 5000.0, PlanTotal(plan, nil, "USD"))
}

func TestComputeCharges(t *testing.T) {
	charges := ComputeCharges(testPlan(), domain.ChargeValues{2: "4"}, "USD")

	require.Len(t, charges, 2)
	assert.Equal(t, snowflake.ID(1), charges[0].ID)
	assert.Equal(t, 0.0, charges[0].Value)
	assert.Equal(t, 5000.0, charges[0].CalculatedPrice)
	assert.Equal(t, 4.0, charges[1].Value)
	assert.Equal(t, 100.0, charges[1].CalculatedPrice)
}

func configured(id int64, price float64, customer *float64, quantity float64) domain.ConfiguredProduct {
	return domain.ConfiguredProduct{
		ProductID:     snowflake.ID(id),
		Price:         price,
		CustomerPrice: customer,
		Quantity:      quantity,
	}
}

func TestQuoteTotal_ListPrice(t *testing.T) {
	products := []domain.ConfiguredProduct{
		configured(1, 5000, nil, 1),
		configured(2, 120, nil, 3),
	}

	assert.Equal(t, 5360.0, QuoteTotal(products, domain.ListPrice))
	// nil selector defaults to list price
	assert.Equal(t, 5360.0, QuoteTotal(products, nil))
}

func TestQuoteTotal_EffectivePrice(t *testing.T) {
	override := 4500.0
	products := []domain.ConfiguredProduct{
		configured(1, 5000, &override, 1),
		configured(2, 120, nil, 3),
	}

	assert.Equal(t, 4860.0, QuoteTotal(products, domain.EffectivePrice))
}

func TestQuoteTotal_ReorderInvariant(t *testing.T) {
	products := []domain.ConfiguredProduct{
		configured(1, 5000, nil, 1),
		configured(2, 120, nil, 3),
		configured(3, 0.1, nil, 7),
	}
	reversed := []domain.ConfiguredProduct{products[2], products[1], products[0]}

	assert.Equal(t, QuoteTotal(products, domain.ListPrice), QuoteTotal(reversed, domain.ListPrice))
}

func TestQuoteTotal_QuantityDefaultsToOne(t *testing.T) {
	products := []domain.ConfiguredProduct{
		configured(1, 200, nil, 0),
		configured(2, 300, nil, -5),
	}

	assert.Equal(t, 500.0, QuoteTotal(products, domain.ListPrice))
	assert.Equal(t, 0.0, QuoteTotal(nil, domain.ListPrice))
}
