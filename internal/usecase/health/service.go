package health

import "context"

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
// Every component is optional: the agent answers without a database (in-memory store),
// without an embedding provider (hash fallback) and without a generator (apology replies).
type Service struct {
	db         DBPinger
	embedding  Checker
	generation Checker
}

// New creates a Service. Any argument can be nil.
func New(db DBPinger, embedding, generation Checker) *Service {
	return &Service{db: db, embedding: embedding, generation: generation}
}

// Check runs health checks against all configured components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.db != nil {
		checks["database"] = result(s.db.Ping(ctx))
	}
	if s.embedding != nil {
		checks["embedding"] = result(s.embedding.HealthCheck(ctx))
	}
	if s.generation != nil {
		checks["generation"] = result(s.generation.HealthCheck(ctx))
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == 0:
	case failed == len(checks):
		status = Unhealthy
	default:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
