package cloudmetrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/quotient/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pushInterval = 30 * time.Minute

var Module = fx.Module("cloud.metrics",
	fx.Provide(func() *prometheus.Registry {
		return prometheus.NewRegistry()
	}),
	fx.Provide(NewPusher),
	fx.Provide(func(cfg config.Config, registry *prometheus.Registry, pusher Pusher, logger *zap.Logger) *CloudMetrics {
		if pusher == nil {
			return nil
		}
		c := New(registry, pusher, cfg.Cloud.OrganizationID, cfg.Cloud.OrganizationName, logger)
		setRecorder(&recorder{metrics: c.metrics})
		return c
	}),
	fx.Invoke(runPushLoop),
)

func runPushLoop(lc fx.Lifecycle, c *CloudMetrics, logger *zap.Logger, db *gorm.DB) {
	if c == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("starting cloud metrics background worker")
			go func() {
				ticker := time.NewTicker(pushInterval)
				defer ticker.Stop()

				pushOnce(ctx, c, db, logger)
				for {
					select {
					case <-ticker.C:
						pushOnce(ctx, c, db, logger)
					case <-ctx.Done():
						logger.Info("stopping cloud metrics background worker")
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func pushOnce(ctx context.Context, c *CloudMetrics, db *gorm.DB, logger *zap.Logger) {
	updateSystemMetrics(c)
	updateQuoteCount(ctx, c, db)
	if err := c.Push(ctx); err != nil {
		logger.Warn("cloud metrics push failed", zap.Error(err))
	}
}

func updateSystemMetrics(c *CloudMetrics) {
	if c == nil {
		return
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	c.SetMemoryUsage(m.Sys)
}

func updateQuoteCount(ctx context.Context, c *CloudMetrics, db *gorm.DB) {
	if c == nil || db == nil {
		return
	}
	var count int64
	if err := db.WithContext(ctx).Table("quotes").Count(&count).Error; err != nil {
		return
	}
	c.SetQuotesTotal(count)
}
