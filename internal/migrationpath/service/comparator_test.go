package service

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/smallbiznis/quotient/internal/pricing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func source(id int64, price float64, customer *float64) pricingdomain.ConfiguredProduct {
	return pricingdomain.ConfiguredProduct{
		ProductID:     snowflake.ID(id),
		Price:         price,
		CustomerPrice: customer,
		Quantity:      1,
	}
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, -2.5, PercentChange(12000, 11700))
	assert.Equal(t, 10.0, PercentChange(1000, 1100))
	assert.Equal(t, -33.3, PercentChange(3000, 2000))
	assert.Equal(t, 0.0, PercentChange(5000, 5000))
}

func TestPercentChange_ZeroCurrentGuard(t *testing.T) {
	assert.Equal(t, 0.0, PercentChange(0, 11700))
	assert.Equal(t, 0.0, PercentChange(0, 0))
}

func TestBuildSummary(t *testing.T) {
	// Four current products totaling 12000 against a path totaling 11700.
	current := []pricingdomain.ConfiguredProduct{
		source(1, 5000, nil),
		source(2, 2500, nil),
		source(3, 3000, nil),
		source(4, 1500, nil),
	}
	paths := []CandidateSet{
		{
			ID:    100,
			Title: "Cloud Consolidation",
			Products: []pricingdomain.ConfiguredProduct{
				source(10, 7700, nil),
				source(11, 4000, nil),
			},
		},
	}

	summary := BuildSummary(current, paths)

	assert.Equal(t, 12000.0, summary.CurrentValue)
	assert.Equal(t, 12000.0, summary.CurrentCustomerValue)
	require.Len(t, summary.Paths, 1)
	assert.Equal(t, snowflake.ID(100), summary.Paths[0].ID)
	assert.Equal(t, 11700.0, summary.Paths[0].TotalValue)
	assert.Equal(t, -2.5, summary.Paths[0].PercentChange)
}

func TestBuildSummary_CustomerValueUsesEffectivePrice(t *testing.T) {
	override := 4500.0
	current := []pricingdomain.ConfiguredProduct{
		source(1, 5000, &override),
		source(2, 2500, nil),
	}

	summary := BuildSummary(current, nil)

	assert.Equal(t, 7500.0, summary.CurrentValue)
	assert.Equal(t, 7000.0, summary.CurrentCustomerValue)
	assert.Empty(t, summary.Paths)
}

func TestBuildSummary_PathTotalsIgnoreCandidateOverrides(t *testing.T) {
	// Candidates are new list offers; a stray override must not leak in.
	override := 1.0
	paths := []CandidateSet{
		{ID: 100, Title: "Offer", Products: []pricingdomain.ConfiguredProduct{
			source(10, 9000, &override),
		}},
	}

	summary := BuildSummary([]pricingdomain.ConfiguredProduct{source(1, 10000, nil)}, paths)
	assert.Equal(t, 9000.0, summary.Paths[0].TotalValue)
	assert.Equal(t, -10.0, summary.Paths[0].PercentChange)
}

func TestBuildSummary_EmptySource(t *testing.T) {
	paths := []CandidateSet{
		{ID: 100, Title: "Offer", Products: []pricingdomain.ConfiguredProduct{source(10, 9000, nil)}},
	}

	summary := BuildSummary(nil, paths)

	assert.Equal(t, 0.0, summary.CurrentValue)
	// No division against a zero current value.
	assert.Equal(t, 0.0, summary.Paths[0].PercentChange)
	assert.Equal(t, 9000.0, summary.Paths[0].TotalValue)
}

func TestIsMigratable(t *testing.T) {
	reasons := map[snowflake.ID]string{42: "Discontinued platform"}

	assert.False(t, IsMigratable(42, reasons))
	assert.True(t, IsMigratable(7, reasons))
	assert.True(t, IsMigratable(42, nil))
}

func TestReasonFor_DefaultAppliedToBlankEntries(t *testing.T) {
	const fallback = "No supported migration path."
	reasons := map[snowflake.ID]string{
		42: "Discontinued platform",
		43: "",
		44: "   ",
	}

	assert.Equal(t, "Discontinued platform", ReasonFor(42, reasons, fallback))
	assert.Equal(t, fallback, ReasonFor(43, reasons, fallback))
	assert.Equal(t, fallback, ReasonFor(44, reasons, fallback))
	assert.Empty(t, ReasonFor(7, reasons, fallback))
}
