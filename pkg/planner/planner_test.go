package planner

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/azybler/streetcover/pkg/diagnostics"
	"github.com/azybler/streetcover/pkg/oracle"
)

const triangleGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "properties": {"highway": "residential"},
		 "geometry": {"type": "LineString", "coordinates": [[0,0],[0.001,0]]}},
		{"type": "Feature", "properties": {"highway": "residential"},
		 "geometry": {"type": "LineString", "coordinates": [[0.001,0],[0.001,0.001]]}},
		{"type": "Feature", "properties": {"highway": "residential"},
		 "geometry": {"type": "LineString", "coordinates": [[0.001,0.001],[0,0]]}}
	]
}`

func newTestPlanner() *Planner {
	reg := prometheus.NewRegistry()
	cfg := DefaultConfig()
	return New(cfg, oracle.NewFakeClient(), diagnostics.NewCollector(reg))
}

func TestRunProducesCompletedJob(t *testing.T) {
	p := newTestPlanner()

	var stages []Stage
	result, err := p.Run(context.Background(), []byte(triangleGeoJSON), oracle.ProfileDrivingCar, 60, func(pr Progress) {
		stages = append(stages, pr.Stage)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Status != StatusCompleted {
		t.Fatalf("expected completed status, got %s", result.Status)
	}
	if len(result.Geometry.Geometry) == 0 {
		t.Fatalf("expected nonempty route geometry")
	}
	if result.Diagnostics.GraphNodes == 0 {
		t.Fatalf("expected nonzero graph node count in diagnostics")
	}
	if len(stages) == 0 {
		t.Fatalf("expected progress callbacks")
	}
}

func TestRunFailsOnEmptyInput(t *testing.T) {
	p := newTestPlanner()

	_, err := p.Run(context.Background(), []byte(`{"type":"FeatureCollection","features":[]}`), oracle.ProfileDrivingCar, 60, nil)
	if err == nil {
		t.Fatalf("expected an error for empty input")
	}
	jobErr, ok := err.(*JobError)
	if !ok {
		t.Fatalf("expected a *JobError, got %T", err)
	}
	if jobErr.Kind != ErrorInvalidInput {
		t.Fatalf("expected InvalidInput, got %s", jobErr.Kind)
	}
}

func TestRunReportsInvalidWithDiagnosticsOnNoCircuit(t *testing.T) {
	p := newTestPlanner()

	isolatedOneWay := `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {"highway": "residential", "oneway": true},
			 "geometry": {"type": "LineString", "coordinates": [[0,0],[0.001,0.001]]}}
		]
	}`
	result, err := p.Run(context.Background(), []byte(isolatedOneWay), oracle.ProfileDrivingCar, 60, nil)
	if err != nil {
		t.Fatalf("expected a completed-with-warnings result, not an error: %v", err)
	}
	if result.Status != StatusCompletedWithWarning {
		t.Fatalf("expected completed_with_warnings, got %s", result.Status)
	}
	if result.Geometry.Valid {
		t.Fatalf("expected route to be reported invalid")
	}
	if result.Diagnostics.GraphNodes == 0 {
		t.Fatalf("expected diagnostics to still report graph stats")
	}
}

func TestRunFailsOnEmptyInputReportsDiagnostics(t *testing.T) {
	p := newTestPlanner()

	result, err := p.Run(context.Background(), []byte(`{"type":"FeatureCollection","features":[]}`), oracle.ProfileDrivingCar, 60, nil)
	jobErr, ok := err.(*JobError)
	if !ok {
		t.Fatalf("expected a *JobError, got %T", err)
	}
	if jobErr.Kind != ErrorInvalidInput {
		t.Fatalf("expected InvalidInput, got %s", jobErr.Kind)
	}
	if result.Status != StatusFailed {
		t.Fatalf("expected failed status, got %s", result.Status)
	}
	if result.Diagnostics.InputStreets != 0 {
		t.Fatalf("expected zero-valued diagnostics to still be attached, got %+v", result.Diagnostics)
	}
}

func TestDefaultConfigMatchesSpecDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxGapMeters != 30.0 {
		t.Fatalf("expected default max gap 30, got %f", cfg.MaxGapMeters)
	}
	if cfg.OrsMaxRetries != 3 {
		t.Fatalf("expected default ors_max_retries 3, got %d", cfg.OrsMaxRetries)
	}
}
