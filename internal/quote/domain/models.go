// Package domain holds the persisted quote shapes. A quote owns configured
// products as plain data; totals are always derived from the items.
package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
	pricingdomain "github.com/smallbiznis/quotient/internal/pricing/domain"
	"gorm.io/datatypes"
)

type QuoteStatus string

var (
	QuoteDraft    QuoteStatus = "DRAFT"
	QuoteAccepted QuoteStatus = "ACCEPTED"
	QuoteExpired  QuoteStatus = "EXPIRED"
)

type Quote struct {
	ID        snowflake.ID      `json:"id" gorm:"primaryKey"`
	Reference string            `json:"reference" gorm:"type:text;not null;uniqueIndex"`
	Name      string            `json:"name" gorm:"type:text;not null"`
	Status    QuoteStatus       `json:"status" gorm:"type:text;not null;default:DRAFT"`
	Currency  string            `json:"currency" gorm:"type:text;not null"`
	Items     []QuoteItem       `json:"items,omitempty" gorm:"foreignKey:QuoteID"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Quote) TableName() string { return "quotes" }

// QuoteItem persists one configured product inside a quote. Computed charges
// are stored as JSON; they are display data, never re-read for pricing.
type QuoteItem struct {
	ID                snowflake.ID                  `json:"id" gorm:"primaryKey"`
	QuoteID           snowflake.ID                  `json:"quote_id" gorm:"column:quote_id;not null;index"`
	ProductID         snowflake.ID                  `json:"product_id" gorm:"column:product_id;not null"`
	Name              string                        `json:"name" gorm:"type:text;not null"`
	Description       string                        `json:"description,omitempty" gorm:"type:text"`
	Category          catalogdomain.ProductCategory `json:"category" gorm:"type:text"`
	RatePlanID        snowflake.ID                  `json:"rate_plan_id" gorm:"column:rate_plan_id;not null"`
	RatePlanName      string                        `json:"rate_plan_name" gorm:"type:text"`
	Charges           datatypes.JSON                `json:"charges,omitempty" gorm:"type:jsonb"`
	Price             float64                       `json:"price" gorm:"type:numeric;not null;default:0"`
	CustomerPrice     *float64                      `json:"customer_price,omitempty" gorm:"type:numeric"`
	Quantity          float64                       `json:"quantity" gorm:"type:numeric;not null;default:1"`
	ReplacesProductID *snowflake.ID                 `json:"replaces_product_id,omitempty" gorm:"column:replaces_product_id"`
	Position          int32                         `json:"position" gorm:"not null;default:0"`
	CreatedAt         time.Time                     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time                     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (QuoteItem) TableName() string { return "quote_items" }

// Configured rebuilds the computed-product shape from the persisted row.
func (i QuoteItem) Configured() pricingdomain.ConfiguredProduct {
	var charges []pricingdomain.ComputedCharge
	if len(i.Charges) > 0 {
		_ = json.Unmarshal(i.Charges, &charges)
	}
	return pricingdomain.ConfiguredProduct{
		ProductID:   i.ProductID,
		Name:        i.Name,
		Description: i.Description,
		Category:    i.Category,
		RatePlan: pricingdomain.RatePlanRef{
			ID:   i.RatePlanID,
			Name: i.RatePlanName,
		},
		Charges:           charges,
		Price:             i.Price,
		CustomerPrice:     i.CustomerPrice,
		Quantity:          i.Quantity,
		ReplacesProductID: i.ReplacesProductID,
	}
}

// ItemFromConfigured persists a computed product as a quote row.
func ItemFromConfigured(p pricingdomain.ConfiguredProduct, position int32) QuoteItem {
	charges, _ := json.Marshal(p.Charges)
	return QuoteItem{
		ProductID:         p.ProductID,
		Name:              p.Name,
		Description:       p.Description,
		Category:          p.Category,
		RatePlanID:        p.RatePlan.ID,
		RatePlanName:      p.RatePlan.Name,
		Charges:           charges,
		Price:             p.Price,
		CustomerPrice:     p.CustomerPrice,
		Quantity:          p.Quantity,
		ReplacesProductID: p.ReplacesProductID,
		Position:          position,
	}
}

// ConfiguredProducts rebuilds every item in position order.
func (q Quote) ConfiguredProducts() []pricingdomain.ConfiguredProduct {
	products := make([]pricingdomain.ConfiguredProduct, 0, len(q.Items))
	for _, item := range q.Items {
		products = append(products, item.Configured())
	}
	return products
}

// Totals are derived on every read, never stored.
type QuoteTotals struct {
	ListTotal       float64 `json:"listTotal"`
	CustomerTotal   float64 `json:"customerTotal"`
	DiscountPercent float64 `json:"discountPercent"`
}
