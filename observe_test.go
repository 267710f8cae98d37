package webrag

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	zapobs "go.uber.org/zap/zaptest/observer"
)

func TestObserver_MetricsAndLogs(t *testing.T) {
	reg := prometheus.NewRegistry()
	core, logs := zapobs.New(zap.DebugLevel)

	obs, err := newObserver(zap.New(core), reg)
	if err != nil {
		t.Fatal(err)
	}

	obs.observe("ingest", time.Now(), nil)
	obs.observe("ingest", time.Now(), errors.New("boom"))

	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("ingest", "ok")); got != 1 {
		t.Errorf("ok count = %v", got)
	}
	if got := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("ingest", "error")); got != 1 {
		t.Errorf("error count = %v", got)
	}
	if logs.FilterMessage("operation failed").Len() != 1 {
		t.Error("expected a warn line for the failure")
	}
	if logs.FilterMessage("operation completed").Len() != 1 {
		t.Error("expected a debug line for the success")
	}
}

func TestObserver_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second registration: %v", err)
	}
	if first.metrics.operations != second.metrics.operations {
		t.Error("expected the existing collector to be reused")
	}
}

func TestObserver_Nil(t *testing.T) {
	var obs *observer
	obs.observe("ping", time.Now(), nil)
}
