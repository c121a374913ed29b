package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/smallbiznis/quotient/internal/pricing/domain"
)

type ListRequest struct {
	PathIDs []snowflake.ID
}

// SummaryRequest names the source product set either by quote or inline.
// QuoteID wins when both are present. An empty PathIDs compares against
// every path.
type SummaryRequest struct {
	QuoteID  string                            `json:"quote_id,omitempty"`
	Products []pricingdomain.ConfiguredProduct `json:"products,omitempty"`
	PathIDs  []snowflake.ID                    `json:"path_ids,omitempty"`
}

type Service interface {
	List(ctx context.Context, req ListRequest) ([]PathView, error)
	Summary(ctx context.Context, req SummaryRequest) (*MigrationSummary, error)
}

var (
	ErrNoSource = errors.New("migration_source_required")
)
