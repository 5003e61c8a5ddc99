// Package metrics provides Prometheus instrumentation for ConvoGuard
// Verdict.
//
// The Collector owns a private registry and exposes typed recording
// methods for the evaluation pipeline: evaluation counts and latency by
// pack, violation counts by category and severity, and failure counters
// for the external risk-analysis gate and the audit writer. A cardinality
// limiter folds unexpectedly many pack ids into an "other" bucket, since
// overlay directories may introduce arbitrary pack ids at runtime.
//
// All recording methods are no-ops when metrics are disabled in the
// configuration, so instrumented code paths never branch on it.
package metrics
