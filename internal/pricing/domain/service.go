package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Configure(ctx context.Context, req ConfigureRequest) (*ConfiguredProduct, error)
}

// ConfigureRequest prices one product for a configuration session.
// RatePlanID wins over Technology when both are set; with neither, the first
// plan of the first technology group is used.
type ConfigureRequest struct {
	ProductID      snowflake.ID
	RatePlanID     *snowflake.ID
	Technology     string
	IncludeExpired *bool
	Currency       string
	Quantities     ChargeValues
	Quantity       float64
	CustomerPrice  *string
}

var (
	ErrInvalidProduct  = errors.New("invalid_product")
	ErrProductNotFound = errors.New("product_not_found")
	ErrPlanNotFound    = errors.New("rate_plan_not_found")
)
