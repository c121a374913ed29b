package domain

import (
	"context"
	"errors"

	pricingdomain "github.com/smallbiznis/quotient/internal/pricing/domain"
	"github.com/smallbiznis/quotient/pkg/db/pagination"
)

type ListQuoteRequest struct {
	Status    string
	PageToken string
	PageSize  int32
}

type CreateQuoteRequest struct {
	Name     string         `json:"name"`
	Currency string         `json:"currency,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type SetCustomerPriceRequest struct {
	ItemID        string `json:"item_id"`
	CustomerPrice string `json:"customer_price"`
}

// QuoteView is a quote plus its derived totals.
type QuoteView struct {
	Quote
	Totals QuoteTotals `json:"totals"`
}

type ListQuoteResponse struct {
	Quotes   []QuoteView         `json:"quotes"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type Service interface {
	List(ctx context.Context, req ListQuoteRequest) (ListQuoteResponse, error)
	Create(ctx context.Context, req CreateQuoteRequest) (*QuoteView, error)
	Get(ctx context.Context, id string) (*QuoteView, error)
	AddProduct(ctx context.Context, quoteID string, req pricingdomain.ConfigureRequest) (*QuoteView, error)
	SetCustomerPrice(ctx context.Context, quoteID string, req SetCustomerPriceRequest) (*QuoteView, error)
	RemoveProduct(ctx context.Context, quoteID, itemID string) (*QuoteView, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidID    = errors.New("invalid_quote_id")
	ErrNotFound     = errors.New("quote_not_found")
	ErrItemNotFound = errors.New("quote_item_not_found")
	ErrNameRequired = errors.New("quote_name_required")
)
