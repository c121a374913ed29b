package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/quotient/internal/config"
)

const (
	keyPreviewClient = "pricing:preview:client:%s"
	keyPreviewGlobal = "pricing:preview:global"
	keyPreviewLock   = "pricing:preview:lock:%s:%s"

	previewLockTTL = 5 * time.Second
)

// PreviewLimiter throttles the pricing preview endpoint: a per-client token
// bucket, a global bucket, and a per-client-per-product lock that serializes
// identical previews. Returns nil when disabled; callers must treat a nil
// limiter as fail-open.
type PreviewLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker

	clientRate  float64
	clientBurst int
	globalRate  float64
	globalBurst int
}

func NewPreviewLimiter(cfg config.Config) (*PreviewLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.PreviewRate <= 0 || limitCfg.PreviewBurst <= 0 {
		return nil, errors.New("preview rate limit must be positive")
	}
	if limitCfg.PreviewGlobalRate <= 0 || limitCfg.PreviewGlobalBurst <= 0 {
		return nil, errors.New("preview global rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &PreviewLimiter{
		enabled:     true,
		bucket:      NewTokenBucket(client),
		locker:      NewLocker(client),
		clientRate:  limitCfg.PreviewRate,
		clientBurst: limitCfg.PreviewBurst,
		globalRate:  limitCfg.PreviewGlobalRate,
		globalBurst: limitCfg.PreviewGlobalBurst,
	}, nil
}

func (l *PreviewLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *PreviewLimiter) AllowClient(ctx context.Context, clientID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyPreviewClient, strings.TrimSpace(clientID)), l.clientRate, l.clientBurst)
}

func (l *PreviewLimiter) AllowGlobal(ctx context.Context) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, keyPreviewGlobal, l.globalRate, l.globalBurst)
}

func (l *PreviewLimiter) TryLockPreview(ctx context.Context, clientID, productID string) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	key := fmt.Sprintf(keyPreviewLock, strings.TrimSpace(clientID), strings.TrimSpace(productID))
	return l.locker.TryLock(ctx, key, previewLockTTL)
}

func (l *PreviewLimiter) ReleasePreview(ctx context.Context, clientID, productID, token string) error {
	if !l.Enabled() {
		return nil
	}
	key := fmt.Sprintf(keyPreviewLock, strings.TrimSpace(clientID), strings.TrimSpace(productID))
	return l.locker.Release(ctx, key, token)
}
