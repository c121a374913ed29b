package service

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/quotient/internal/migrationpath/domain"
	pricingdomain "github.com/smallbiznis/quotient/internal/pricing/domain"
	pricingservice "github.com/smallbiznis/quotient/internal/pricing/service"
)

// CandidateSet is one path's identity plus its candidate products.
type CandidateSet struct {
	ID       snowflake.ID
	Title    string
	Products []pricingdomain.ConfiguredProduct
}

// PercentChange reports (next - current) / current * 100 at one-decimal
// precision, signed. A current value of 0 reports 0 rather than dividing.
func PercentChange(current, next float64) float64 {
	if current == 0 {
		return 0
	}

	cur := decimal.NewFromFloat(current)
	percent := decimal.NewFromFloat(next).Sub(cur).Div(cur).Mul(decimal.NewFromInt(100))
	value, _ := percent.Round(1).Float64()
	return value
}

// IsMigratable reports whether productID has a replacement path.
func IsMigratable(productID snowflake.ID, reasons map[snowflake.ID]string) bool {
	_, blocked := reasons[productID]
	return !blocked
}

// ReasonFor returns the recorded reason for a non-migratable product, with
// defaultText filling in blank entries. The default is applied here, once,
// instead of at every call site.
func ReasonFor(productID snowflake.ID, reasons map[snowflake.ID]string, defaultText string) string {
	reason, ok := reasons[productID]
	if !ok {
		return ""
	}
	if strings.TrimSpace(reason) == "" {
		return defaultText
	}
	return reason
}

// BuildSummary compares the source product set against candidate paths.
// Source totals use both selectors; path totals use list price only, since
// candidates are new list offers with no customer discount.
func BuildSummary(source []pricingdomain.ConfiguredProduct, paths []CandidateSet) domain.MigrationSummary {
	currentValue := pricingservice.QuoteTotal(source, pricingdomain.ListPrice)
	currentCustomerValue := pricingservice.QuoteTotal(source, pricingdomain.EffectivePrice)

	summaries := make([]domain.PathSummary, 0, len(paths))
	for _, path := range paths {
		totalValue := pricingservice.QuoteTotal(path.Products, pricingdomain.ListPrice)
		summaries = append(summaries, domain.PathSummary{
			ID:            path.ID,
			Title:         path.Title,
			TotalValue:    totalValue,
			PercentChange: PercentChange(currentValue, totalValue),
		})
	}

	return domain.MigrationSummary{
		CurrentValue:         currentValue,
		CurrentCustomerValue: currentCustomerValue,
		Paths:                summaries,
	}
}
