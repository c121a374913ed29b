package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	pricingdomain "github.com/smallbiznis/quotient/internal/pricing/domain"
	quotedomain "github.com/smallbiznis/quotient/internal/quote/domain"
	"github.com/smallbiznis/quotient/pkg/db/pagination"
)

type createQuoteRequest struct {
	Name     string         `json:"name"`
	Currency string         `json:"currency,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type addQuoteProductRequest struct {
	ProductID      string            `json:"product_id"`
	RatePlanID     string            `json:"rate_plan_id,omitempty"`
	Technology     string            `json:"technology,omitempty"`
	IncludeExpired *bool             `json:"include_expired,omitempty"`
	Quantities     map[string]string `json:"quantities,omitempty"`
	Quantity       float64           `json:"quantity,omitempty"`
	CustomerPrice  *string           `json:"customer_price,omitempty"`
}

type setQuoteCustomerPriceRequest struct {
	ItemID        string `json:"item_id"`
	CustomerPrice string `json:"customer_price"`
}

func (s *Server) ListQuotes(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, newValidationError("page_size", "invalid_pagination", "must be a positive integer"))
		return
	}

	resp, err := s.quoteSvc.List(c.Request.Context(), quotedomain.ListQuoteRequest{
		Status:    c.Query("status"),
		PageToken: page.PageToken,
		PageSize:  int32(page.PageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Quotes, "page_info": resp.PageInfo})
}

func (s *Server) CreateQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	quote, err := s.quoteSvc.Create(c.Request.Context(), quotedomain.CreateQuoteRequest{
		Name:     req.Name,
		Currency: req.Currency,
		Metadata: req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": quote})
}

func (s *Server) GetQuote(c *gin.Context) {
	quote, err := s.quoteSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) DeleteQuote(c *gin.Context) {
	if err := s.quoteSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) AddQuoteProduct(c *gin.Context) {
	var req addQuoteProductRequest
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

	quote, err := s.quoteSvc.AddProduct(c.Request.Context(), c.Param("id"), pricingdomain.ConfigureRequest{
		ProductID:      productID,
		RatePlanID:     ratePlanID,
		Technology:     req.Technology,
		IncludeExpired: req.IncludeExpired,
		Quantities:     quantities,
		Quantity:       req.Quantity,
		CustomerPrice:  req.CustomerPrice,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) RemoveQuoteProduct(c *gin.Context) {
	quote, err := s.quoteSvc.RemoveProduct(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) SetQuoteCustomerPrice(c *gin.Context) {
	var req setQuoteCustomerPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	quote, err := s.quoteSvc.SetCustomerPrice(c.Request.Context(), c.Param("id"), quotedomain.SetCustomerPriceRequest{
		ItemID:        req.ItemID,
		CustomerPrice: req.CustomerPrice,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}
