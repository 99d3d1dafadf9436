package observability

import (
	"context"
	"errors"
	"testing"

	"shortlist/internal/config"

	"go.opentelemetry.io/otel/attribute"
)

func TestDisabledManagerIsNoop(t *testing.T) {
	om, err := NewObservabilityManager(GetObservabilityConfig(nil, "test"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	metrics := om.GetMetrics()
	called := false
	err = metrics.TrackAnalysis(context.Background(), "remote", func(ctx context.Context) *AnalysisOperationResult {
		called = true
		return &AnalysisOperationResult{Error: errors.New("bad status: 500")}
	}, om)
	if !called {
		t.Error("tracked function was not called")
	}
	if err == nil || err.Error() != "bad status: 500" {
		t.Errorf("TrackAnalysis should return the function error, got %v", err)
	}

	// Must not panic without instruments
	metrics.RecordBusinessMetric(context.Background(), MetricSubmission, true, om, attribute.String("surface", "web"))
	metrics.RecordBusinessMetric(context.Background(), MetricRateLimitHit, false, nil)

	if err := om.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestEnabledManagerRecordsMetrics(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.Enabled = true
	cfg.Observability.ServiceName = "shortlist-test"
	cfg.Observability.SampleRate = 1.0
	cfg.Observability.CustomMetrics.Analysis = config.AnalysisMetricsConfig{Enabled: true, TrackDuration: true, TrackScores: true}
	cfg.Observability.CustomMetrics.BusinessMetrics.Enabled = true

	om, err := NewObservabilityManager(GetObservabilityConfig(cfg, "test"), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = om.Shutdown(context.Background()) }()

	metrics := om.GetMetrics()
	if metrics.Submissions == nil || metrics.AnalysisDuration == nil {
		t.Fatal("expected instruments to be created")
	}

	err = metrics.TrackAnalysis(context.Background(), "remote", func(ctx context.Context) *AnalysisOperationResult {
		return &AnalysisOperationResult{Score: 87.5, CVSize: 2048}
	}, om)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	metrics.RecordBusinessMetric(context.Background(), MetricAnalysisFailure, false, om)

	if om.HTTPMiddleware() == nil {
		t.Error("expected HTTP middleware")
	}
}

func TestGetObservabilityConfigUsesAppVersion(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.ServiceName = "shortlist"
	got := GetObservabilityConfig(cfg, "1.2.3")
	if got.ServiceVersion != "1.2.3" {
		t.Errorf("ServiceVersion = %q, want 1.2.3", got.ServiceVersion)
	}

	cfg.Observability.ServiceVersion = "9.9.9"
	if got := GetObservabilityConfig(cfg, "1.2.3"); got.ServiceVersion != "9.9.9" {
		t.Errorf("ServiceVersion = %q, want configured value", got.ServiceVersion)
	}
}
