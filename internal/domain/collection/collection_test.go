package collection

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestNew_Valid(t *testing.T) {
	before := time.Now().UnixMilli()

	col, err := New("knowledge-base", 768, MetricDotProduct)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after := time.Now().UnixMilli()

	if col.Name() != "knowledge-base" {
		t.Errorf("Name() = %q, want %q", col.Name(), "knowledge-base")
	}
	if col.Dimension() != 768 {
		t.Errorf("Dimension() = %d, want 768", col.Dimension())
	}
	if col.Metric() != MetricDotProduct {
		t.Errorf("Metric() = %q, want %q", col.Metric(), MetricDotProduct)
	}
	if col.CreatedAt() < before || col.CreatedAt() > after {
		t.Errorf("CreatedAt() = %d, want between %d and %d", col.CreatedAt(), before, after)
	}
}

func TestNew_DefaultMetric(t *testing.T) {
	col, err := New("kb", 3, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if col.Metric() != MetricCosine {
		t.Errorf("expected cosine default, got %q", col.Metric())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		colName   string
		dimension int
		metric    Metric
	}{
		{"empty name", "", 3, MetricCosine},
		{"bad chars", "my collection", 3, MetricCosine},
		{"too long", strings.Repeat("a", 65), 3, MetricCosine},
		{"zero dim", "kb", 0, MetricCosine},
		{"negative dim", "kb", -1, MetricCosine},
		{"unknown metric", "kb", 3, Metric("manhattan")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.colName, tc.dimension, tc.metric); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCompatible(t *testing.T) {
	stored := Reconstruct("kb", 768, MetricCosine, 1)

	if err := stored.Compatible(Reconstruct("kb", 768, MetricCosine, 2)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := stored.Compatible(Reconstruct("kb", 1024, MetricCosine, 2)); err == nil {
		t.Error("expected dimension mismatch")
	}
	if err := stored.Compatible(Reconstruct("kb", 768, MetricEuclidean, 2)); err == nil {
		t.Error("expected metric mismatch")
	}
}

func TestMetric_Similarity(t *testing.T) {
	tests := []struct {
		metric   Metric
		distance float64
		want     float64
	}{
		{MetricCosine, 0.2, 0.8},
		{MetricDotProduct, 0.25, 0.75},
		{MetricEuclidean, 0, 1},
		{MetricEuclidean, 1, 0.5},
	}
	for _, tc := range tests {
		got := tc.metric.Similarity(tc.distance)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s.Similarity(%v) = %v, want %v", tc.metric, tc.distance, got, tc.want)
		}
	}
}

func TestMetric_SimilarityMonotonic(t *testing.T) {
	for _, m := range []Metric{MetricCosine, MetricDotProduct, MetricEuclidean} {
		if m.Similarity(0.1) <= m.Similarity(0.5) {
			t.Errorf("%s: smaller distance must yield higher similarity", m)
		}
	}
}
