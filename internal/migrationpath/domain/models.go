// Package domain holds migration paths: named bundles of replacement products
// offered in place of a customer's current product set. Path totals and
// percent changes are derived on read, never stored.
package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
	pricingdomain "github.com/smallbiznis/quotient/internal/pricing/domain"
	"gorm.io/datatypes"
)

type MigrationPath struct {
	ID          snowflake.ID               `json:"id" gorm:"primaryKey"`
	Code        string                     `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Title       string                     `json:"title" gorm:"type:text;not null"`
	Description string                     `json:"description,omitempty" gorm:"type:text"`
	Benefits    datatypes.JSONSlice[string] `json:"benefits,omitempty" gorm:"type:jsonb"`
	Products    []PathProduct              `json:"products,omitempty" gorm:"foreignKey:PathID"`
	Position    int32                      `json:"position" gorm:"not null;default:0"`
	CreatedAt   time.Time                  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time                  `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (MigrationPath) TableName() string { return "migration_paths" }

// PathProduct is one candidate target product inside a path. Candidates carry
// list prices only; ReplacesProductID is an advisory link back to a source
// product and is passed through untouched.
type PathProduct struct {
	ID                snowflake.ID                  `json:"id" gorm:"primaryKey"`
	PathID            snowflake.ID                  `json:"path_id" gorm:"column:path_id;not null;index"`
	ProductID         snowflake.ID                  `json:"product_id" gorm:"column:product_id;not null"`
	Name              string                        `json:"name" gorm:"type:text;not null"`
	Description       string                        `json:"description,omitempty" gorm:"type:text"`
	Category          catalogdomain.ProductCategory `json:"category" gorm:"type:text"`
	RatePlanID        snowflake.ID                  `json:"rate_plan_id" gorm:"column:rate_plan_id"`
	RatePlanName      string                        `json:"rate_plan_name" gorm:"type:text"`
	Charges           datatypes.JSON                `json:"charges,omitempty" gorm:"type:jsonb"`
	Price             float64                       `json:"price" gorm:"type:numeric;not null;default:0"`
	Quantity          float64                       `json:"quantity" gorm:"type:numeric;not null;default:1"`
	ReplacesProductID *snowflake.ID                 `json:"replaces_product_id,omitempty" gorm:"column:replaces_product_id"`
	Position          int32                         `json:"position" gorm:"not null;default:0"`
	CreatedAt         time.Time                     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time                     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PathProduct) TableName() string { return "migration_path_products" }

// Configured rebuilds the computed-product shape from the persisted row.
func (p PathProduct) Configured() pricingdomain.ConfiguredProduct {
	var charges []pricingdomain.ComputedCharge
	if len(p.Charges) > 0 {
		_ = json.Unmarshal(p.Charges, &charges)
	}
	return pricingdomain.ConfiguredProduct{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		RatePlan: pricingdomain.RatePlanRef{
			ID:   p.RatePlanID,
			Name: p.RatePlanName,
		},
		Charges:           charges,
		Price:             p.Price,
		Quantity:          p.Quantity,
		ReplacesProductID: p.ReplacesProductID,
	}
}

// ConfiguredProducts rebuilds every candidate in position order.
func (m MigrationPath) ConfiguredProducts() []pricingdomain.ConfiguredProduct {
	products := make([]pricingdomain.ConfiguredProduct, 0, len(m.Products))
	for _, product := range m.Products {
		products = append(products, product.Configured())
	}
	return products
}

// NonMigratableReason records why a source product has no replacement path.
// Products without a row are migratable; rows with empty text fall back to the
// configured default at the service boundary.
type NonMigratableReason struct {
	ProductID snowflake.ID `json:"product_id" gorm:"primaryKey;column:product_id"`
	Reason    string       `json:"reason" gorm:"type:text"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (NonMigratableReason) TableName() string { return "non_migratable_reasons" }

// PathView is a path plus its derived list total.
type PathView struct {
	MigrationPath
	TotalValue float64 `json:"totalValue"`
}

type PathSummary struct {
	ID            snowflake.ID `json:"id"`
	Title         string       `json:"title"`
	TotalValue    float64      `json:"totalValue"`
	PercentChange float64      `json:"percentChange"`
}

type NonMigratableProduct struct {
	ProductID snowflake.ID `json:"productId"`
	Name      string       `json:"name,omitempty"`
	Reason    string       `json:"reason"`
}

type MigrationSummary struct {
	CurrentValue         float64                `json:"currentValue"`
	CurrentCustomerValue float64                `json:"currentCustomerValue"`
	Paths                []PathSummary          `json:"paths"`
	NonMigratable        []NonMigratableProduct `json:"nonMigratable,omitempty"`
}
