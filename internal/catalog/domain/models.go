// Package domain contains the read-only catalog entities.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type ProductCategory string

var (
	CategoryEnterprise   ProductCategory = "ENTERPRISE"
	CategoryProfessional ProductCategory = "PROFESSIONAL"
	CategoryHR           ProductCategory = "HR"
	CategoryCross        ProductCategory = "CROSS"
)

type RatePlanStatus string

var (
	RatePlanActive  RatePlanStatus = "ACTIVE"
	RatePlanExpired RatePlanStatus = "EXPIRED"
)

type ChargeType string

var (
	ChargeRecurring ChargeType = "RECURRING"
	ChargeOneTime   ChargeType = "ONE_TIME"
	ChargeUsage     ChargeType = "USAGE"
)

// ChargeModel is the closed set of pricing models a charge can carry.
type ChargeModel string

var (
	ModelFlatFee ChargeModel = "FLAT_FEE"
	ModelPerUnit ChargeModel = "PER_UNIT"
	ModelVolume  ChargeModel = "VOLUME"
)

// TechnologyOther groups rate plans that carry no technology tag.
const TechnologyOther = "Other"

type Product struct {
	ID          snowflake.ID      `json:"id" gorm:"primaryKey"`
	Code        string            `json:"code" gorm:"type:text;not null;uniqueIndex"`
	Name        string            `json:"name" gorm:"type:text;not null"`
	Description string            `json:"description,omitempty" gorm:"type:text"`
	Category    ProductCategory   `json:"category" gorm:"type:text;not null"`
	Active      bool              `json:"active" gorm:"not null;default:true"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	RatePlans   []RatePlan        `json:"rate_plans,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

type RatePlan struct {
	ID          snowflake.ID   `json:"id" gorm:"primaryKey"`
	ProductID   snowflake.ID   `json:"product_id" gorm:"column:product_id;not null;index"`
	Name        string         `json:"name" gorm:"type:text;not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Technology  string         `json:"technology,omitempty" gorm:"type:text"`
	Status      RatePlanStatus `json:"status" gorm:"type:text;not null;default:ACTIVE"`
	Position    int32          `json:"position" gorm:"not null;default:0"`
	Charges     []Charge       `json:"charges,omitempty" gorm:"foreignKey:RatePlanID"`
	CreatedAt   time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RatePlan) TableName() string { return "rate_plans" }

// TechnologyGroup returns the grouping key for the plan's technology tag.
func (p RatePlan) TechnologyGroup() string {
	if p.Technology == "" {
		return TechnologyOther
	}
	return p.Technology
}

type Charge struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	RatePlanID snowflake.ID `json:"rate_plan_id" gorm:"column:rate_plan_id;not null;index"`
	Name       string       `json:"name" gorm:"type:text;not null"`
	Type       ChargeType   `json:"type" gorm:"type:text;not null"`
	Model      ChargeModel  `json:"model" gorm:"type:text;not null"`
	UOM        *string      `json:"uom,omitempty" gorm:"column:uom;type:text"`
	Position   int32        `json:"position" gorm:"not null;default:0"`
	Pricings   []Pricing    `json:"pricing,omitempty" gorm:"foreignKey:ChargeID"`
	CreatedAt  time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Charge) TableName() string { return "charges" }

type Pricing struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	ChargeID  snowflake.ID `json:"charge_id" gorm:"column:charge_id;not null;index"`
	Currency  string       `json:"currency" gorm:"type:text;not null"`
	Price     float64      `json:"price" gorm:"type:numeric;not null;default:0"`
	Tiers     []Tier       `json:"tiers,omitempty" gorm:"foreignKey:PricingID"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Pricing) TableName() string { return "pricings" }

// Tier maps an inclusive quantity range to a single price. A nil EndingUnit
// means the range is unbounded above. Tiers are ordered by StartingUnit and
// must not overlap; gaps mean "no price" for that range.
type Tier struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	PricingID    snowflake.ID `json:"pricing_id" gorm:"column:pricing_id;not null;index"`
	StartingUnit float64      `json:"starting_unit" gorm:"type:numeric;not null"`
	EndingUnit   *float64     `json:"ending_unit,omitempty" gorm:"type:numeric"`
	Price        float64      `json:"price" gorm:"type:numeric;not null"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Tier) TableName() string { return "tiers" }

// Contains reports whether quantity falls inside the tier's range.
func (t Tier) Contains(quantity float64) bool {
	if quantity < t.StartingUnit {
		return false
	}
	if t.EndingUnit == nil {
		return true
	}
	return quantity <= *t.EndingUnit
}
