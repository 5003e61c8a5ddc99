package metrics

import (
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"convoguard/verdict/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

func newTestCollector(enabled bool) *Collector {
	return NewCollector(&config.MetricsConfig{
		Enabled:   enabled,
		Namespace: "convoguard",
		Subsystem: "verdict",
	}, prometheus.NewRegistry())
}

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestRecordEvaluation(t *testing.T) {
	c := newTestCollector(true)

	c.RecordEvaluation("mental-health-de", true, 5*time.Millisecond)
	c.RecordEvaluation("mental-health-de", false, 12*time.Millisecond)
	c.RecordEvaluation("hr-recruiting-eu", false, 3*time.Millisecond)

	body := scrape(t, c)

	for _, want := range []string{
		`convoguard_verdict_evaluations_total{pack="mental-health-de",verdict="compliant"} 1`,
		`convoguard_verdict_evaluations_total{pack="mental-health-de",verdict="non_compliant"} 1`,
		`convoguard_verdict_evaluations_total{pack="hr-recruiting-eu",verdict="non_compliant"} 1`,
		`convoguard_verdict_evaluation_duration_seconds_count{pack="mental-health-de"} 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestRecordViolationAndFailures(t *testing.T) {
	c := newTestCollector(true)

	c.RecordViolation("SUICIDE_SELF_HARM", "HIGH")
	c.RecordViolation("SUICIDE_SELF_HARM", "HIGH")
	c.RecordViolation("GDPR_CONSENT", "MEDIUM")
	c.RecordGateFailure()
	c.RecordAuditWriteFailure()
	c.RecordEvaluationError("pack_not_found")

	body := scrape(t, c)

	for _, want := range []string{
		`convoguard_verdict_violations_total{category="SUICIDE_SELF_HARM",severity="HIGH"} 2`,
		`convoguard_verdict_violations_total{category="GDPR_CONSENT",severity="MEDIUM"} 1`,
		`convoguard_verdict_gate_failures_total 1`,
		`convoguard_verdict_audit_write_failures_total 1`,
		`convoguard_verdict_evaluation_errors_total{reason="pack_not_found"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestDisabledCollectorRecordsNothing(t *testing.T) {
	c := newTestCollector(false)

	c.RecordEvaluation("mental-health-de", true, time.Millisecond)
	c.RecordViolation("MANIPULATION", "MEDIUM")
	c.RecordGateFailure()

	body := scrape(t, c)
	if strings.Contains(body, `pack="mental-health-de"`) {
		t.Error("disabled collector recorded an evaluation")
	}
	if strings.Contains(body, "violations_total{") {
		t.Error("disabled collector recorded a violation")
	}
}

func TestPackCardinalityFoldsIntoOther(t *testing.T) {
	c := newTestCollector(true)
	c.cardinalityLimiter = NewCardinalityLimiter(3)

	for i := 0; i < 10; i++ {
		c.RecordEvaluation(fmt.Sprintf("pack-%d", i), true, time.Millisecond)
	}

	body := scrape(t, c)
	if !strings.Contains(body, `convoguard_verdict_evaluations_total{pack="other",verdict="compliant"} 7`) {
		t.Errorf("overflow packs not folded into other:\n%s", body)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	cl := NewCardinalityLimiter(2)

	if !cl.Allow("a") || !cl.Allow("b") {
		t.Fatal("limiter rejected within limit")
	}
	if cl.Allow("c") {
		t.Error("limiter allowed beyond limit")
	}
	if !cl.Allow("a") {
		t.Error("limiter rejected existing label set")
	}
	if cl.Count() != 2 {
		t.Errorf("Count() = %d, want 2", cl.Count())
	}
}
