// Package domain contains the computed pricing shapes handed to quotes and
// migration paths. Everything here is derived data; the catalog stays untouched.
package domain

import (
	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
)

// ChargeValues carries raw user-entered quantities keyed by charge id.
// Values are kept as entered; coercion happens at evaluation time.
type ChargeValues map[snowflake.ID]string

// ComputedCharge is one priced line of a configured product.
type ComputedCharge struct {
	ID              snowflake.ID              `json:"id"`
	Name            string                    `json:"name"`
	Type            catalogdomain.ChargeType  `json:"type"`
	Model           catalogdomain.ChargeModel `json:"model"`
	UOM             *string                   `json:"uom,omitempty"`
	Value           float64                   `json:"value"`
	CalculatedPrice float64                   `json:"calculatedPrice"`
}

// RatePlanRef identifies the plan a product was configured with.
type RatePlanRef struct {
	ID          snowflake.ID `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
}

// ConfiguredProduct is the computed result of pricing one product against a
// selected rate plan and user quantities.
type ConfiguredProduct struct {
	ProductID         snowflake.ID                  `json:"id"`
	Name              string                        `json:"name"`
	Description       string                        `json:"description,omitempty"`
	Category          catalogdomain.ProductCategory `json:"category"`
	RatePlan          RatePlanRef                   `json:"ratePlan"`
	Charges           []ComputedCharge              `json:"charges"`
	Price             float64                       `json:"price"`
	CustomerPrice     *float64                      `json:"customerPrice,omitempty"`
	Quantity          float64                       `json:"quantity"`
	ReplacesProductID *snowflake.ID                 `json:"replacesProductId,omitempty"`
}

// EffectiveUnitPrice returns the customer price when a positive override is
// set, otherwise the list price. Zero or unset overrides are "no override",
// not a 100% discount.
func (p ConfiguredProduct) EffectiveUnitPrice() float64 {
	if p.CustomerPrice != nil && *p.CustomerPrice > 0 {
		return *p.CustomerPrice
	}
	return p.Price
}

// UnitQuantity returns the product quantity, defaulting to 1.
func (p ConfiguredProduct) UnitQuantity() float64 {
	if p.Quantity <= 0 {
		return 1
	}
	return p.Quantity
}

// PriceSelector picks which per-product price an aggregation sums.
type PriceSelector func(ConfiguredProduct) float64

// ListPrice selects the catalog-derived price.
func ListPrice(p ConfiguredProduct) float64 { return p.Price }

// EffectivePrice selects the customer price with list-price fallback.
func EffectivePrice(p ConfiguredProduct) float64 { return p.EffectiveUnitPrice() }

// TechnologyGroup is one resolver bucket, in catalog encounter order.
type TechnologyGroup struct {
	Technology string                   `json:"technology"`
	Plans      []catalogdomain.RatePlan `json:"plans"`
}
