// Package cloudmetrics pushes aggregate pricing counters from a self-hosted
// instance to a cloud accounting endpoint. It owns a private registry so the
// pushed series never mix with the instance's own /metrics.
package cloudmetrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type metrics struct {
	chargeEvaluations  *prometheus.CounterVec
	quotePricings      *prometheus.CounterVec
	migrationSummaries prometheus.Counter
	engineErrors       *prometheus.CounterVec
	quotesTotal        prometheus.Gauge
	memoryBytes        prometheus.Gauge
}

func newMetrics(registry *prometheus.Registry, organizationID, organizationName string) *metrics {
	constLabels := prometheus.Labels{}
	if organizationID != "" {
		constLabels["organization_id"] = organizationID
	}
	if organizationName != "" {
		constLabels["organization_name"] = organizationName
	}

	m := &metrics{
		chargeEvaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "quotient_cloud_charge_evaluations_total",
			Help:        "Charge evaluations by pricing model.",
			ConstLabels: constLabels,
		}, []string{"model"}),
		quotePricings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "quotient_cloud_quote_pricings_total",
			Help:        "Quote total computations by price selector.",
			ConstLabels: constLabels,
		}, []string{"selector"}),
		migrationSummaries: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "quotient_cloud_migration_summaries_total",
			Help:        "Migration summaries built.",
			ConstLabels: constLabels,
		}),
		engineErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "quotient_cloud_engine_errors_total",
			Help:        "Engine errors by operation.",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		quotesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "quotient_cloud_quotes_total",
			Help:        "Persisted quotes on this instance.",
			ConstLabels: constLabels,
		}),
		memoryBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "quotient_cloud_memory_bytes",
			Help:        "Memory obtained from the OS.",
			ConstLabels: constLabels,
		}),
	}

	registry.MustRegister(
		m.chargeEvaluations,
		m.quotePricings,
		m.migrationSummaries,
		m.engineErrors,
		m.quotesTotal,
		m.memoryBytes,
	)
	return m
}

// CloudMetrics couples the private registry with its pusher.
type CloudMetrics struct {
	registry *prometheus.Registry
	pusher   Pusher
	metrics  *metrics
	logger   *zap.Logger
}

func New(registry *prometheus.Registry, pusher Pusher, organizationID, organizationName string, logger *zap.Logger) *CloudMetrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CloudMetrics{
		registry: registry,
		pusher:   pusher,
		metrics:  newMetrics(registry, organizationID, organizationName),
		logger:   logger,
	}
}

func (c *CloudMetrics) Push(ctx context.Context) error {
	if c == nil || c.pusher == nil {
		return nil
	}
	return c.pusher.Push(ctx, c.registry)
}

func (c *CloudMetrics) SetMemoryUsage(bytes uint64) {
	if c == nil {
		return
	}
	c.metrics.memoryBytes.Set(float64(bytes))
}

func (c *CloudMetrics) SetQuotesTotal(count int64) {
	if c == nil {
		return
	}
	if count < 0 {
		count = 0
	}
	c.metrics.quotesTotal.Set(float64(count))
}
