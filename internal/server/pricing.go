package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	pricingdomain "github.com/smallbiznis/quotient/internal/pricing/domain"
	pricingservice "github.com/smallbiznis/quotient/internal/pricing/service"
)

type previewPriceRequest struct {
	ProductID      string            `json:"product_id"`
	RatePlanID     string            `json:"rate_plan_id,omitempty"`
	Technology     string            `json:"technology,omitempty"`
	IncludeExpired *bool             `json:"include_expired,omitempty"`
	Currency       string            `json:"currency,omitempty"`
	Quantities     map[string]string `json:"quantities,omitempty"`
	Quantity       float64           `json:"quantity,omitempty"`
	CustomerPrice  *string           `json:"customer_price,omitempty"`
}

type previewTotals struct {
	ListPrice       float64 `json:"listPrice"`
	EffectivePrice  float64 `json:"effectivePrice"`
	DiscountPercent float64 `json:"discountPercent"`
}

func (s *Server) PreviewPrice(c *gin.Context) {
	var req previewPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
	if err != nil {
		AbortWithError(c, newValidationError("product_id", "invalid_product", "must be a valid product id"))
		return
	}

	ratePlanID, err := parseOptionalSnowflakeID(req.RatePlanID)
	if err != nil {
		AbortWithError(c, newValidationError("rate_plan_id", "invalid_rate_plan", "must be a valid rate plan id"))
		return
	}

	quantities := make(pricingdomain.ChargeValues, len(req.Quantities))
	for rawID, value := range req.Quantities {
		chargeID, err := snowflake.ParseString(strings.TrimSpace(rawID))
		if err != nil {
			continue
		}
		quantities[chargeID] = value
	}

	configured, err := s.pricingSvc.Configure(c.Request.Context(), pricingdomain.ConfigureRequest{
		ProductID:      productID,
		RatePlanID:     ratePlanID,
		Technology:     req.Technology,
		IncludeExpired: req.IncludeExpired,
		Currency:       req.Currency,
		Quantities:     quantities,
		Quantity:       req.Quantity,
		CustomerPrice:  req.CustomerPrice,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	effective := configured.EffectiveUnitPrice()
	c.JSON(http.StatusOK, gin.H{
		"data": configured,
		"totals": previewTotals{
			ListPrice:       configured.Price,
			EffectivePrice:  effective,
			DiscountPercent: pricingservice.DiscountPercent(configured.Price, effective),
		},
	})
}
