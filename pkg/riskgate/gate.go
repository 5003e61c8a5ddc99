package riskgate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"convoguard/verdict/pkg/compliance"
	"convoguard/verdict/pkg/compliance/packs"
)

const (
	// DefaultTimeout bounds one analysis call end to end.
	DefaultTimeout = 10 * time.Second

	// failClosedWeight forces any score to zero, and with it the verdict
	// to non-compliant, whenever verification was impossible.
	failClosedWeight = -100

	// maxResponseBody caps how much of the service response is read.
	maxResponseBody = 1 << 20 // 1MB
)

// Config configures the gate client.
type Config struct {
	// BaseURL is the analysis service endpoint (e.g. "https://.../v1/analyze").
	BaseURL string

	// APIKey authenticates the call. An empty key disables the gate.
	APIKey string

	// Timeout bounds one analysis call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Gate is the external risk-analysis client.
type Gate struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// New creates a gate client. The underlying HTTP client pools connections
// and enforces the configured timeout on top of per-call context deadlines.
func New(config Config, logger *slog.Logger) *Gate {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Gate{
		config: config,
		client: &http.Client{Transport: transport, Timeout: config.Timeout},
		logger: logger.With("component", "riskgate"),
	}
}

// Enabled reports whether the gate is configured to run. A missing API key
// or base URL is a deliberate operator choice, distinct from a runtime
// failure, and must not trigger the fail-closed violation.
func (g *Gate) Enabled() bool {
	return g.config.BaseURL != "" && g.config.APIKey != ""
}

// analyzeRequest is the wire request.
type analyzeRequest struct {
	Transcript string   `json:"transcript"`
	Policies   []string `json:"policies"`
}

// analyzeResponse is the wire response.
type analyzeResponse struct {
	Risks      []riskFinding `json:"risks"`
	Confidence float64       `json:"confidence"`
}

// riskFinding is one finding reported by the service. Category and
// severity are free-form strings and are mapped onto the fixed enums.
type riskFinding struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Trigger     string `json:"trigger"`
}

// Result is the gate's contribution to one evaluation.
type Result struct {
	// Violations are the mapped findings, or the single fail-closed
	// SYSTEM_ERROR violation after a failure.
	Violations []compliance.Violation

	// Confidence is the service's self-reported confidence; zero when the
	// gate failed or was disabled.
	Confidence float64

	// Failed reports whether the fail-closed path was taken.
	Failed bool
}

// Analyze calls the external service and maps its findings onto the active
// pack's weight table. Any failure mode (unreachable service, non-2xx
// status, unparseable payload) yields the fail-closed result instead of
// an error: the caller always merges a well-formed violation list.
func (g *Gate) Analyze(ctx context.Context, transcript string, policyTexts []string, pack *packs.Pack) Result {
	if !g.Enabled() {
		return Result{}
	}

	body, err := json.Marshal(analyzeRequest{Transcript: transcript, Policies: policyTexts})
	if err != nil {
		return g.failClosed("encode request", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, g.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return g.failClosed("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return g.failClosed("call service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return g.failClosed("service status", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return g.failClosed("read response", err)
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return g.failClosed("parse response", err)
	}

	violations := make([]compliance.Violation, 0, len(parsed.Risks))
	for _, risk := range parsed.Risks {
		category := MapCategory(risk.Category)
		violations = append(violations, compliance.Violation{
			Category:      category,
			Severity:      MapSeverity(risk.Severity),
			Weight:        pack.GateWeight(category),
			Message:       risk.Description,
			TriggeredBy:   risk.Trigger,
			RuleID:        "external",
			RegulationIDs: nil,
		})
	}

	return Result{Violations: violations, Confidence: parsed.Confidence}
}

// failClosed logs the failure and synthesizes the single SYSTEM_ERROR
// violation. Retrying belongs to the calling layer, never to the gate.
func (g *Gate) failClosed(stage string, err error) Result {
	g.logger.Error("risk analysis unavailable, failing closed",
		"stage", stage,
		"error", err,
	)
	return Result{
		Failed: true,
		Violations: []compliance.Violation{{
			Category: compliance.CategorySystemError,
			Severity: compliance.SeverityHigh,
			Weight:   failClosedWeight,
			Message:  fmt.Sprintf("external risk analysis unavailable (%s); safety could not be verified", stage),
			RuleID:   "external",
		}},
	}
}
