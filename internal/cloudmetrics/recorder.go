package cloudmetrics

import (
	"strings"
	"sync"
)

// Recorder receives domain events for cloud accounting. The package-level
// functions dispatch to a noop recorder until cloud metrics are enabled, so
// call sites never need to know whether this instance reports upstream.
type Recorder interface {
	RecordChargeEvaluation(model string)
	RecordQuotePricing(selector string)
	RecordMigrationSummary()
	RecordEngineError(operation string)
}

type noopRecorder struct{}

func (noopRecorder) RecordChargeEvaluation(string) {}
func (noopRecorder) RecordQuotePricing(string)    {}
func (noopRecorder) RecordMigrationSummary()      {}
func (noopRecorder) RecordEngineError(string)     {}

var (
	activeRecorder Recorder = noopRecorder{}
	recorderMu     sync.RWMutex
)

func setRecorder(rec Recorder) {
	if rec == nil {
		return
	}
	recorderMu.Lock()
	activeRecorder = rec
	recorderMu.Unlock()
}

func RecordChargeEvaluation(model string) {
	recorderMu.RLock()
	rec := activeRecorder
	recorderMu.RUnlock()
	rec.RecordChargeEvaluation(model)
}

func RecordQuotePricing(selector string) {
	recorderMu.RLock()
	rec := activeRecorder
	recorderMu.RUnlock()
	rec.RecordQuotePricing(selector)
}

func RecordMigrationSummary() {
	recorderMu.RLock()
	rec := activeRecorder
	recorderMu.RUnlock()
	rec.RecordMigrationSummary()
}

func RecordEngineError(operation string) {
	recorderMu.RLock()
	rec := activeRecorder
	recorderMu.RUnlock()
	rec.RecordEngineError(operation)
}

type recorder struct {
	metrics *metrics
}

func (r *recorder) RecordChargeEvaluation(model string) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.chargeEvaluations.WithLabelValues(normalizeLabel(model)).Inc()
}

func (r *recorder) RecordQuotePricing(selector string) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.quotePricings.WithLabelValues(normalizeLabel(selector)).Inc()
}

func (r *recorder) RecordMigrationSummary() {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.migrationSummaries.Inc()
}

func (r *recorder) RecordEngineError(operation string) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.engineErrors.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
