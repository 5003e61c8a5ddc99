package metrics

import (
	"fmt"
	"sync"
	"time"

	"convoguard/verdict/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the orchestrator for all Prometheus metrics in ConvoGuard
// Verdict. It owns the registry and provides a unified interface for
// recording metrics across components. All methods are safe for concurrent
// use and become no-ops when metrics are disabled, so callers never need
// to branch on configuration.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Evaluation metrics
	evaluationMetrics *EvaluationMetrics

	// Gate and audit reliability metrics
	reliabilityMetrics *ReliabilityMetrics

	// Cardinality tracking for the pack label (overlay packs may carry
	// arbitrary ids)
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a metrics collector with the specified configuration
// and Prometheus registry. If registry is nil a fresh registry is used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(cfg.EvaluationDurationBuckets) == 0 {
		cfg.EvaluationDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0, 30.0}
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}

	c.evaluationMetrics = NewEvaluationMetrics(cfg, registry)
	c.reliabilityMetrics = NewReliabilityMetrics(cfg, registry)

	return c
}

// RecordEvaluation records one completed evaluation.
//
// Parameters:
//   - packID: policy pack id (e.g., "mental-health-de")
//   - compliant: the overall verdict
//   - duration: wall-clock evaluation time
func (c *Collector) RecordEvaluation(packID string, compliant bool, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	labelSet := fmt.Sprintf("evaluation:%s", packID)
	if !c.cardinalityLimiter.Allow(labelSet) {
		// Aggregate into "other" to prevent cardinality explosion
		packID = "other"
	}

	c.evaluationMetrics.RecordEvaluation(packID, compliant, duration)
}

// RecordViolation records one violation carried by an evaluation result.
//
// Parameters:
//   - category: violation category (e.g., "SUICIDE_SELF_HARM")
//   - severity: "HIGH", "MEDIUM", or "LOW"
func (c *Collector) RecordViolation(category, severity string) {
	if !c.config.Enabled {
		return
	}

	c.evaluationMetrics.RecordViolation(category, severity)
}

// RecordEvaluationError records an evaluation that failed with a caller
// or internal error before producing a result.
func (c *Collector) RecordEvaluationError(reason string) {
	if !c.config.Enabled {
		return
	}

	c.evaluationMetrics.RecordError(reason)
}

// RecordGateFailure records a fail-closed outcome of the external
// risk-analysis gate.
func (c *Collector) RecordGateFailure() {
	if !c.config.Enabled {
		return
	}

	c.reliabilityMetrics.RecordGateFailure()
}

// RecordAuditWriteFailure records a failed best-effort audit persistence
// attempt.
func (c *Collector) RecordAuditWriteFailure() {
	if !c.config.Enabled {
		return
	}

	c.reliabilityMetrics.RecordAuditWriteFailure()
}

// Registry returns the Prometheus registry used by this collector. It can
// be used to create an HTTP handler for the metrics endpoint:
//
//	http.Handle("/metrics", promhttp.HandlerFor(
//		collector.Registry(),
//		promhttp.HandlerOpts{},
//	))
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if the cardinality limit has not been reached yet.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
