package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/quotient/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/quotient/internal/observability/metrics"
	"go.uber.org/zap"
)

const (
	rateLimitReasonClientRate         = "client-rate"
	rateLimitReasonGlobalRate         = "global-rate"
	rateLimitReasonPreviewConcurrency = "preview-concurrency"
)

type previewRateLimitKey struct {
	ProductID string `json:"product_id"`
}

// PreviewRateLimit throttles preview traffic per client and globally, and
// serializes concurrent previews of the same product by the same client.
// Fails open when the limiter is disabled.
func (s *Server) PreviewRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.previewLimiter == nil || !s.previewLimiter.Enabled() {
			c.Next()
			return
		}

		endpoint := normalizeRateLimitEndpoint(c)
		clientID := c.ClientIP()
		ctx := c.Request.Context()

		allowed, err := s.previewLimiter.AllowClient(ctx, clientID)
		if err != nil {
			logger.FromContext(ctx).Warn("preview client rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !allowed {
			denyPreviewRateLimit(c, endpoint, rateLimitReasonClientRate, s.obsMetrics)
			return
		}

		allowed, err = s.previewLimiter.AllowGlobal(ctx)
		if err != nil {
			logger.FromContext(ctx).Warn("preview global rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !allowed {
			denyPreviewRateLimit(c, endpoint, rateLimitReasonGlobalRate, s.obsMetrics)
			return
		}

		productID, err := readPreviewKey(c)
		if err != nil {
			logger.FromContext(ctx).Warn("preview rate limit read body failed", zap.Error(err))
			AbortWithError(c, invalidRequestError())
			return
		}

		if productID != "" {
			lockToken, allowed, err := s.previewLimiter.TryLockPreview(ctx, clientID, productID)
			if err != nil {
				logger.FromContext(ctx).Warn("preview concurrency lock failed", zap.Error(err))
				AbortWithError(c, ErrServiceUnavailable)
				return
			}
			if !allowed {
				denyPreviewRateLimit(c, endpoint, rateLimitReasonPreviewConcurrency, s.obsMetrics)
				return
			}
			defer func() {
				if err := s.previewLimiter.ReleasePreview(ctx, clientID, productID, lockToken); err != nil {
					logger.FromContext(ctx).Warn("preview concurrency unlock failed", zap.Error(err))
				}
			}()
		}

		recordRateLimitAllowed(ctx, endpoint, s.obsMetrics)
		c.Next()
	}
}

func denyPreviewRateLimit(c *gin.Context, endpoint, reason string, metrics *obsmetrics.Metrics) {
	ctx := c.Request.Context()
	logger.FromContext(ctx).Warn("preview rate limit exceeded",
		zap.String("reason", reason),
		zap.String("endpoint", endpoint),
	)
	recordRateLimitDenied(ctx, endpoint, reason, metrics)

	c.Header("Retry-After", "1")
	c.Header("X-Rate-Limited-Reason", reason)
	AbortWithError(c, ErrRateLimited)
}

func recordRateLimitAllowed(ctx context.Context, endpoint string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitAllowed(ctx, endpoint)
}

func recordRateLimitDenied(ctx context.Context, endpoint, reason string, metrics *obsmetrics.Metrics) {
	if metrics == nil {
		return
	}
	metrics.RecordRateLimitDenied(ctx, endpoint, reason)
}

func readPreviewKey(c *gin.Context) (string, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	if len(body) == 0 {
		return "", nil
	}

	var payload previewRateLimitKey
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", nil
	}

	return strings.TrimSpace(payload.ProductID), nil
}

func normalizeRateLimitEndpoint(c *gin.Context) string {
	if c == nil {
		return "unknown"
	}
	endpoint := strings.TrimSpace(c.FullPath())
	if endpoint == "" {
		endpoint = strings.TrimSpace(c.Request.URL.Path)
	}
	if endpoint == "" {
		endpoint = "unknown"
	}
	return endpoint
}
