// Package engine wires detectors, rules, the external risk gate, scoring,
// auditing, and telemetry into the single evaluation entry point.
package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"convoguard/verdict/pkg/audit"
	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/compliance/detector"
	"convoguard/verdict/pkg/compliance/packs"
	"convoguard/verdict/pkg/compliance/rules"
	"convoguard/verdict/pkg/compliance/scoring"
	"convoguard/verdict/pkg/conversation"
	"convoguard/verdict/pkg/riskgate"
	"convoguard/verdict/pkg/telemetry/metrics"
)

// Options holds the optional collaborators of an engine. Every field may
// be nil: a nil gate skips external analysis, a nil recorder skips audit
// persistence, a nil collector skips metrics.
type Options struct {
	Gate     *riskgate.Gate
	Recorder *audit.Recorder
	Metrics  *metrics.Collector
	Logger   *slog.Logger
}

// Engine evaluates conversations against policy packs. It is safe for
// concurrent use; the pack registry can be swapped at runtime without
// affecting evaluations already in flight.
type Engine struct {
	registry atomic.Pointer[packs.Registry]
	runner   *detector.Runner
	gate     *riskgate.Gate
	recorder *audit.Recorder
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// New creates an engine over the given pack registry.
func New(registry *packs.Registry, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		runner:   detector.NewRunner(logger),
		gate:     opts.Gate,
		recorder: opts.Recorder,
		metrics:  opts.Metrics,
		logger:   logger.With("component", "engine"),
	}
	e.registry.Store(registry)
	return e
}

// Registry returns the currently active pack registry.
func (e *Engine) Registry() *packs.Registry {
	return e.registry.Load()
}

// SwapRegistry atomically replaces the pack registry. Evaluations that
// already resolved their pack finish against the old definitions.
func (e *Engine) SwapRegistry(registry *packs.Registry) {
	e.registry.Store(registry)
}

// Evaluate runs the full compliance evaluation of a conversation against
// the named pack. Local detection and the external risk gate run
// concurrently; their violations are merged before scoring. The audit
// record is written asynchronously and never blocks or fails the
// evaluation.
func (e *Engine) Evaluate(ctx context.Context, conv *conversation.Conversation, packID string) (*compliance.EvaluationResult, error) {
	start := time.Now()

	if conv == nil || conv.Empty() {
		e.recordError("invalid_conversation")
		return nil, &compliance.InvalidConversationError{Reason: "conversation has no messages"}
	}

	pack, err := e.Registry().Resolve(packID)
	if err != nil {
		e.recordError("pack_not_found")
		return nil, err
	}

	gateCh := make(chan riskgate.Result, 1)
	if e.gate != nil && e.gate.Enabled() {
		go func() {
			gateCh <- e.gate.Analyze(ctx, conv.Transcript(), policyTexts(pack), pack)
		}()
	} else {
		gateCh <- riskgate.Result{}
	}

	signals := e.runner.Run(pack.Detectors, conv)
	violations := rules.Evaluate(pack.DirectRules, pack.SequenceRules, signals)

	gateResult := <-gateCh
	if gateResult.Failed && e.metrics != nil {
		e.metrics.RecordGateFailure()
	}
	violations = append(violations, gateResult.Violations...)

	score, compliant := scoring.Decide(violations, pack.ComplianceThreshold)

	if violations == nil {
		violations = []compliance.Violation{}
	}
	if signals == nil {
		signals = []compliance.Signal{}
	}

	result := &compliance.EvaluationResult{
		AuditID:         uuid.New().String(),
		PackID:          pack.ID,
		ConversationID:  conv.ID(),
		Compliant:       compliant,
		Score:           score,
		Violations:      violations,
		Signals:         signals,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}

	if e.metrics != nil {
		e.metrics.RecordEvaluation(pack.ID, compliant, time.Since(start))
		for _, v := range violations {
			e.metrics.RecordViolation(string(v.Category), string(v.Severity))
		}
	}

	if e.recorder != nil {
		e.recorder.Record(audit.NewRecord(conv, result))
	}

	e.logger.Info("evaluation completed",
		"audit_id", result.AuditID,
		"pack", pack.ID,
		"compliant", compliant,
		"score", score,
		"violations", len(violations),
		"signals", len(signals),
		"gate_failed", gateResult.Failed,
	)

	return result, nil
}

func (e *Engine) recordError(reason string) {
	if e.metrics != nil {
		e.metrics.RecordEvaluationError(reason)
	}
}

// policyTexts collects the pack's rule messages as the policy context sent
// to the external analysis service.
func policyTexts(pack *packs.Pack) []string {
	texts := make([]string, 0, pack.RuleCount())
	for _, r := range pack.DirectRules {
		texts = append(texts, r.Message)
	}
	for _, r := range pack.SequenceRules {
		texts = append(texts, r.Message)
	}
	return texts
}
