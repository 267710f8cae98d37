package health

import (
	"context"
	"time"
)

// checkTimeout bounds each component probe so one hung dependency cannot stall /health.
const checkTimeout = 3 * time.Second

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db             DBPinger
	embedding      EmbeddingChecker
	collections    CollectionGetter
	collectionName string
}

// New creates a Service. embedding can be nil.
func New(db DBPinger, embedding EmbeddingChecker) *Service {
	return &Service{db: db, embedding: embedding}
}

// WithCollection adds a check that the configured collection exists.
func (s *Service) WithCollection(getter CollectionGetter, name string) *Service {
	s.collections = getter
	s.collectionName = name
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks["database"] = probe(ctx, s.db.Ping)

	if s.embedding != nil {
		checks["embedding"] = probe(ctx, s.embedding.HealthCheck)
	}

	if s.collections != nil && checks["database"] == CheckOK {
		checks["collection"] = probe(ctx, func(ctx context.Context) error {
			_, err := s.collections.Get(ctx, s.collectionName)
			return err //nolint:wrapcheck // only the outcome matters
		})
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func probe(ctx context.Context, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
