package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLivenessAlwaysOK(t *testing.T) {
	c := New(0)
	c.Register("failing", func(ctx context.Context) error {
		return errors.New("down")
	})

	status := c.Liveness(context.Background())
	if status.Status != "ok" {
		t.Errorf("liveness = %q, want ok regardless of component health", status.Status)
	}
}

func TestReadinessAggregates(t *testing.T) {
	c := New(0)
	c.Register("storage", func(ctx context.Context) error { return nil })
	c.Register("registry", func(ctx context.Context) error { return nil })

	status := c.Readiness(context.Background())
	if status.Status != "ready" {
		t.Fatalf("status = %q, want ready", status.Status)
	}
	if len(status.Checks) != 2 {
		t.Fatalf("got %d check results, want 2", len(status.Checks))
	}
	if status.Checks["storage"].Status != "ok" {
		t.Errorf("storage check = %+v, want ok", status.Checks["storage"])
	}
}

func TestReadinessDegradedOnFailure(t *testing.T) {
	c := New(0)
	c.Register("storage", func(ctx context.Context) error { return errors.New("sqlite gone") })
	c.Register("registry", func(ctx context.Context) error { return nil })

	status := c.Readiness(context.Background())
	if status.Status != "degraded" {
		t.Fatalf("status = %q, want degraded", status.Status)
	}
	if got := status.Checks["storage"].Message; got != "sqlite gone" {
		t.Errorf("message = %q, want the check error", got)
	}
}

func TestReadinessTimeout(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.Register("slow", func(ctx context.Context) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})

	status := c.Readiness(context.Background())
	if status.Status != "degraded" {
		t.Fatalf("status = %q, want degraded for timed-out check", status.Status)
	}
}

func TestReadinessHandlerStatusCodes(t *testing.T) {
	c := New(0)
	c.Register("ok", func(ctx context.Context) error { return nil })

	rec := httptest.NewRecorder()
	c.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != 200 {
		t.Errorf("ready status code = %d, want 200", rec.Code)
	}

	c.Register("broken", func(ctx context.Context) error { return errors.New("nope") })
	rec = httptest.NewRecorder()
	c.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != 503 {
		t.Errorf("degraded status code = %d, want 503", rec.Code)
	}

	var status Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if status.Checks["broken"].Status != "unhealthy" {
		t.Errorf("broken check = %+v, want unhealthy", status.Checks["broken"])
	}
}
