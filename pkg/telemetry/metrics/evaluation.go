package metrics

import (
	"time"

	"convoguard/verdict/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// EvaluationMetrics tracks metrics related to compliance evaluations.
//
// Metrics:
//   - convoguard_verdict_evaluations_total: evaluation count by pack, verdict
//   - convoguard_verdict_evaluation_duration_seconds: evaluation latency histogram
//   - convoguard_verdict_violations_total: violation count by category, severity
//   - convoguard_verdict_evaluation_errors_total: failed evaluations by reason
type EvaluationMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	violationsTotal    *prometheus.CounterVec
	errorsTotal        *prometheus.CounterVec
}

// NewEvaluationMetrics creates and registers evaluation metrics with the
// provided registry.
func NewEvaluationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *EvaluationMetrics {
	em := &EvaluationMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of conversation evaluations",
			},
			[]string{"pack", "verdict"},
		),

		evaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of conversation evaluations in seconds",
				Buckets:   cfg.EvaluationDurationBuckets,
			},
			[]string{"pack"},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "violations_total",
				Help:      "Total number of violations found, by category and severity",
			},
			[]string{"category", "severity"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_errors_total",
				Help:      "Total number of evaluations that failed before producing a result",
			},
			[]string{"reason"},
		),
	}

	registry.MustRegister(
		em.evaluationsTotal,
		em.evaluationDuration,
		em.violationsTotal,
		em.errorsTotal,
	)

	return em
}

// RecordEvaluation records one completed evaluation.
func (em *EvaluationMetrics) RecordEvaluation(packID string, compliant bool, duration time.Duration) {
	verdict := "non_compliant"
	if compliant {
		verdict = "compliant"
	}

	em.evaluationsTotal.WithLabelValues(packID, verdict).Inc()
	em.evaluationDuration.WithLabelValues(packID).Observe(duration.Seconds())
}

// RecordViolation records one violation.
func (em *EvaluationMetrics) RecordViolation(category, severity string) {
	em.violationsTotal.WithLabelValues(category, severity).Inc()
}

// RecordError records a failed evaluation.
//
// Parameters:
//   - reason: "invalid_conversation", "pack_not_found", or "internal"
func (em *EvaluationMetrics) RecordError(reason string) {
	em.errorsTotal.WithLabelValues(reason).Inc()
}

// ReliabilityMetrics tracks failures of the evaluation pipeline's external
// collaborators.
//
// Metrics:
//   - convoguard_verdict_gate_failures_total: fail-closed gate outcomes
//   - convoguard_verdict_audit_write_failures_total: failed audit writes
type ReliabilityMetrics struct {
	gateFailures       prometheus.Counter
	auditWriteFailures prometheus.Counter
}

// NewReliabilityMetrics creates and registers reliability metrics with the
// provided registry.
func NewReliabilityMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ReliabilityMetrics {
	rm := &ReliabilityMetrics{
		gateFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "gate_failures_total",
				Help:      "Total number of fail-closed external risk-analysis outcomes",
			},
		),

		auditWriteFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "audit_write_failures_total",
				Help:      "Total number of failed best-effort audit record writes",
			},
		),
	}

	registry.MustRegister(rm.gateFailures, rm.auditWriteFailures)

	return rm
}

// RecordGateFailure records a fail-closed gate outcome.
func (rm *ReliabilityMetrics) RecordGateFailure() {
	rm.gateFailures.Inc()
}

// RecordAuditWriteFailure records a failed audit record write.
func (rm *ReliabilityMetrics) RecordAuditWriteFailure() {
	rm.auditWriteFailures.Inc()
}
