package breaker

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"shortlist/internal/config"
)

func testConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}
}

func TestDisabledBreakerIsNil(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	cb := New[int]("disabled", cfg, nil)
	if cb != nil {
		t.Fatal("expected nil breaker when disabled")
	}

	got, err := cb.Execute(func() (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Errorf("Execute on nil breaker = (%d, %v), want (7, nil)", got, err)
	}
	if !cb.IsHealthy() {
		t.Error("nil breaker should report healthy")
	}
	if enabled, _ := cb.GetStats()["enabled"].(bool); enabled {
		t.Error("nil breaker stats should report disabled")
	}
}

func TestBreakerTripsAfterFailures(t *testing.T) {
	cb := New[string]("analysis-api", testConfig(), nil)

	failing := func() (string, error) { return "", fmt.Errorf("bad status: 500") }
	for i := 0; i < 3; i++ {
		if _, err := cb.Execute(failing); err == nil {
			t.Fatalf("attempt %d: expected error", i)
		}
	}

	if cb.IsHealthy() {
		t.Fatal("breaker should be open after repeated failures")
	}

	called := false
	_, err := cb.Execute(func() (string, error) {
		called = true
		return "ok", nil
	})
	if !stderrors.Is(err, ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
	if called {
		t.Error("open breaker must not call through")
	}

	stats := cb.GetStats()
	if stats["name"] != "analysis-api" {
		t.Errorf("stats name = %v, want analysis-api", stats["name"])
	}
	if stats["state"] != "open" {
		t.Errorf("stats state = %v, want open", stats["state"])
	}
}

func TestBreakerStaysClosedBelowMinRequests(t *testing.T) {
	cb := New[int]("analysis-api", testConfig(), nil)

	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(func() (int, error) { return 0, fmt.Errorf("fail") })
	}

	if !cb.IsHealthy() {
		t.Error("breaker should remain closed below minimum request count")
	}
}
