package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	migrationpathdomain "github.com/smallbiznis/quotient/internal/migrationpath/domain"
	pricingdomain "github.com/smallbiznis/quotient/internal/pricing/domain"
)

type migrationSummaryRequest struct {
	QuoteID  string                            `json:"quote_id,omitempty"`
	Products []pricingdomain.ConfiguredProduct `json:"products,omitempty"`
	PathIDs  []string                          `json:"path_ids,omitempty"`
}

func (s *Server) ListMigrationPaths(c *gin.Context) {
	ids, err := parseSnowflakeIDList(c.Query("ids"))
	if err != nil {
		AbortWithError(c, newValidationError("ids", "invalid_path_ids", "must be a comma-separated list of ids"))
		return
	}

	paths, err := s.migrationPathSvc.List(c.Request.Context(), migrationpathdomain.ListRequest{
		PathIDs: ids,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": paths})
}

func (s *Server) MigrationSummary(c *gin.Context) {
	var req migrationSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	pathIDs := make([]snowflake.ID, 0, len(req.PathIDs))
	for _, raw := range req.PathIDs {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			AbortWithError(c, newValidationError("path_ids", "invalid_path_ids", "must be valid path ids"))
			return
		}
		pathIDs = append(pathIDs, id)
	}

	summary, err := s.migrationPathSvc.Summary(c.Request.Context(), migrationpathdomain.SummaryRequest{
		QuoteID:  req.QuoteID,
		Products: req.Products,
		PathIDs:  pathIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}
